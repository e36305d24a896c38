package eth

import (
	"fmt"
	"strings"
)

// Code classifies gateway failures for callers that need to distinguish
// a missing signer from a revert.
type Code int

const (
	CodeWalletAbsent Code = iota
	CodeUserRejected
	CodeNetworkMismatch
	CodeContractReverted
)

func (c Code) String() string {
	switch c {
	case CodeWalletAbsent:
		return "wallet_absent"
	case CodeUserRejected:
		return "user_rejected"
	case CodeNetworkMismatch:
		return "network_mismatch"
	case CodeContractReverted:
		return "contract_reverted"
	}
	return "unknown"
}

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func walletAbsent(msg string) *Error {
	return &Error{Code: CodeWalletAbsent, Message: msg}
}

func networkMismatch(msg string, err error) *Error {
	return &Error{Code: CodeNetworkMismatch, Message: msg, Err: err}
}

// revertMessages maps known revert reason substrings to friendlier text.
// The contract reports failures as free-form strings, so substring
// matching is the only classification available; keep every mapping here.
var revertMessages = []struct {
	substr  string
	message string
}{
	{"Invalid node ID", "node does not exist, check the node id and try again"},
	{"Node is not active", "this node is not currently active"},
	{"Insufficient payment", "payment amount is too low for the requested duration"},
}

// classify wraps an external failure into an *Error. Rejections are
// detected before revert substrings so a declined signature never reads
// as a contract error.
func classify(err error) *Error {
	if err == nil {
		return nil
	}
	if cerr, ok := err.(*Error); ok {
		return cerr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "user rejected") || strings.Contains(lower, "user denied") {
		return &Error{Code: CodeUserRejected, Message: "transaction was rejected by the signer", Err: err}
	}
	for _, known := range revertMessages {
		if strings.Contains(msg, known.substr) {
			return &Error{Code: CodeContractReverted, Message: known.message, Err: err}
		}
	}
	return &Error{Code: CodeContractReverted, Message: msg, Err: err}
}
