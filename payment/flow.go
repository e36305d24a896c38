// Package payment sequences the approve-then-pay flow against the
// marketplace contract. Native payments are a single transaction;
// stablecoin payments must see the allowance mined before the payment is
// submitted.
package payment

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/contract"
)

type State int

const (
	StateIdle State = iota
	StateApproving
	StateAwaitingConfirmation
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApproving:
		return "approving"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Gateway is the slice of the wallet session the flow drives.
type Gateway interface {
	MakePaymentETH(ctx context.Context, nodeID, duration uint64, amountWei *big.Int) error
	ApproveStablecoin(ctx context.Context, token common.Address, amount *big.Int) error
	MakePaymentStablecoin(ctx context.Context, nodeID, duration uint64, amount *big.Int, method contract.PaymentType) error
}

// Request describes one payment attempt. Amount is wei for ETH and token
// units for stablecoins; Token is the approval target for stablecoins.
type Request struct {
	NodeID   uint64
	Duration uint64
	Amount   *big.Int
	Method   contract.PaymentType
	Token    common.Address
}

// Flow is the payment state machine. Submission is only accepted from
// idle or failed; a failed flow keeps its classified error and can be
// resubmitted as-is.
type Flow struct {
	gateway Gateway
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	lastError error

	onSuccess func(Request)
}

func NewFlow(gateway Gateway, logger *zap.Logger) *Flow {
	return &Flow{gateway: gateway, logger: logger}
}

// OnSuccess registers the completion hook, used to refresh dependent
// display data after a confirmed payment.
func (f *Flow) OnSuccess(fn func(Request)) {
	f.mu.Lock()
	f.onSuccess = fn
	f.mu.Unlock()
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// Submit runs one payment attempt to completion. There is no automatic
// retry; resubmission is the caller's move.
func (f *Flow) Submit(ctx context.Context, req Request) error {
	if req.Duration < 1 {
		return errors.New("duration must be at least one second")
	}
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return errors.New("amount must be positive")
	}

	f.mu.Lock()
	if f.state != StateIdle && f.state != StateFailed {
		f.mu.Unlock()
		return errors.Errorf("payment already in progress (%s)", f.state)
	}
	f.lastError = nil
	if req.Method == contract.PaymentETH {
		f.state = StateAwaitingConfirmation
	} else {
		f.state = StateApproving
	}
	hook := f.onSuccess
	f.mu.Unlock()

	if err := f.run(ctx, req); err != nil {
		f.mu.Lock()
		f.state = StateFailed
		f.lastError = err
		f.mu.Unlock()
		f.logger.Warn("payment failed", zap.Uint64("node_id", req.NodeID), zap.Error(err))
		return err
	}

	f.mu.Lock()
	f.state = StateIdle
	f.mu.Unlock()

	f.logger.Info("payment confirmed",
		zap.Uint64("node_id", req.NodeID),
		zap.String("method", req.Method.String()),
	)
	if hook != nil {
		hook(req)
	}
	return nil
}

func (f *Flow) run(ctx context.Context, req Request) error {
	if req.Method == contract.PaymentETH {
		return f.gateway.MakePaymentETH(ctx, req.NodeID, req.Duration, req.Amount)
	}

	// the approval must be mined before the payment is worth submitting;
	// an approval failure means the payment is never attempted
	if err := f.gateway.ApproveStablecoin(ctx, req.Token, req.Amount); err != nil {
		return err
	}

	f.mu.Lock()
	f.state = StateAwaitingConfirmation
	f.mu.Unlock()

	return f.gateway.MakePaymentStablecoin(ctx, req.NodeID, req.Duration, req.Amount, req.Method)
}
