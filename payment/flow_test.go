package payment_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/desertwifi/wifimarket/contract"
	"github.com/desertwifi/wifimarket/payment"
)

type fakeGateway struct {
	ethCalls        int
	approveCalls    int
	stablecoinCalls int

	ethErr        error
	approveErr    error
	stablecoinErr error
}

func (g *fakeGateway) MakePaymentETH(ctx context.Context, nodeID, duration uint64, amountWei *big.Int) error {
	g.ethCalls++
	return g.ethErr
}

func (g *fakeGateway) ApproveStablecoin(ctx context.Context, token common.Address, amount *big.Int) error {
	g.approveCalls++
	return g.approveErr
}

func (g *fakeGateway) MakePaymentStablecoin(ctx context.Context, nodeID, duration uint64, amount *big.Int, method contract.PaymentType) error {
	g.stablecoinCalls++
	return g.stablecoinErr
}

func ethRequest() payment.Request {
	return payment.Request{
		NodeID:   2,
		Duration: 3600,
		Amount:   big.NewInt(800000000000000),
		Method:   contract.PaymentETH,
	}
}

func usdcRequest() payment.Request {
	return payment.Request{
		NodeID:   2,
		Duration: 3600,
		Amount:   big.NewInt(2000000),
		Method:   contract.PaymentUSDC,
		Token:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
	}
}

func TestSubmit_ETHPaymentIsSingleStep(t *testing.T) {
	gw := &fakeGateway{}
	flow := payment.NewFlow(gw, zap.NewNop())

	if err := flow.Submit(context.Background(), ethRequest()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if gw.ethCalls != 1 {
		t.Errorf("expected 1 eth payment call, got %d", gw.ethCalls)
	}
	if gw.approveCalls != 0 {
		t.Errorf("eth payment must not approve tokens, got %d approvals", gw.approveCalls)
	}
	if flow.State() != payment.StateIdle {
		t.Errorf("expected idle after success, got %s", flow.State())
	}
}

func TestSubmit_StablecoinApprovesBeforePaying(t *testing.T) {
	gw := &fakeGateway{}
	flow := payment.NewFlow(gw, zap.NewNop())

	if err := flow.Submit(context.Background(), usdcRequest()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if gw.approveCalls != 1 || gw.stablecoinCalls != 1 {
		t.Errorf("expected approve then pay, got %d approvals and %d payments",
			gw.approveCalls, gw.stablecoinCalls)
	}
}

func TestSubmit_ApprovalFailureSkipsPayment(t *testing.T) {
	gw := &fakeGateway{approveErr: errors.New("user rejected")}
	flow := payment.NewFlow(gw, zap.NewNop())

	err := flow.Submit(context.Background(), usdcRequest())
	if err == nil {
		t.Fatal("expected approval error")
	}

	if gw.stablecoinCalls != 0 {
		t.Errorf("payment was attempted after failed approval")
	}
	if flow.State() != payment.StateFailed {
		t.Errorf("expected failed state, got %s", flow.State())
	}
	if flow.LastError() == nil {
		t.Error("expected recorded error")
	}
}

func TestSubmit_FailedFlowIsResubmittable(t *testing.T) {
	gw := &fakeGateway{approveErr: errors.New("Insufficient payment")}
	flow := payment.NewFlow(gw, zap.NewNop())

	if err := flow.Submit(context.Background(), usdcRequest()); err == nil {
		t.Fatal("expected first submission to fail")
	}

	gw.approveErr = nil
	if err := flow.Submit(context.Background(), usdcRequest()); err != nil {
		t.Fatalf("resubmission failed: %v", err)
	}
	if flow.State() != payment.StateIdle {
		t.Errorf("expected idle after successful resubmission, got %s", flow.State())
	}
	if flow.LastError() != nil {
		t.Errorf("stale error survived resubmission: %v", flow.LastError())
	}
}

func TestSubmit_PaymentFailureReturnsClassifiedError(t *testing.T) {
	gw := &fakeGateway{ethErr: errors.New("Node is not active")}
	flow := payment.NewFlow(gw, zap.NewNop())

	err := flow.Submit(context.Background(), ethRequest())
	if err == nil {
		t.Fatal("expected payment error")
	}
	if flow.State() != payment.StateFailed {
		t.Errorf("expected failed state, got %s", flow.State())
	}
}

func TestSubmit_SuccessFiresCompletionHook(t *testing.T) {
	gw := &fakeGateway{}
	flow := payment.NewFlow(gw, zap.NewNop())

	var completed []payment.Request
	flow.OnSuccess(func(req payment.Request) {
		completed = append(completed, req)
	})

	if err := flow.Submit(context.Background(), ethRequest()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 completion, got %d", len(completed))
	}
	if completed[0].NodeID != 2 {
		t.Errorf("hook got node %d, want 2", completed[0].NodeID)
	}
}

func TestSubmit_FailureDoesNotFireHook(t *testing.T) {
	gw := &fakeGateway{ethErr: errors.New("boom")}
	flow := payment.NewFlow(gw, zap.NewNop())

	fired := false
	flow.OnSuccess(func(payment.Request) { fired = true })

	if err := flow.Submit(context.Background(), ethRequest()); err == nil {
		t.Fatal("expected error")
	}
	if fired {
		t.Error("completion hook fired on failure")
	}
}

func TestSubmit_RejectsInvalidRequests(t *testing.T) {
	gw := &fakeGateway{}
	flow := payment.NewFlow(gw, zap.NewNop())

	req := ethRequest()
	req.Duration = 0
	if err := flow.Submit(context.Background(), req); err == nil {
		t.Error("expected error for zero duration")
	}

	req = ethRequest()
	req.Amount = big.NewInt(0)
	if err := flow.Submit(context.Background(), req); err == nil {
		t.Error("expected error for zero amount")
	}

	if gw.ethCalls != 0 {
		t.Errorf("invalid requests reached the gateway")
	}
}
