package tracing

import (
	gethtracing "github.com/ethereum/go-ethereum/core/tracing"
)

// BalanceChangeReason is a description of the reason why a balance was changed
// while fulfilling a request.
type BalanceChangeReason int

const (
	BalanceChangeUnspecified BalanceChangeReason = iota
	// BalanceChangeEscrowDeposit is the caller funding the escrow with the
	// total value of the request's plain transfers.
	BalanceChangeEscrowDeposit
	// BalanceChangeCallTransfer is the escrow paying out a plain transfer call.
	BalanceChangeCallTransfer
)

// String returns a human-readable string for the reason.
func (r BalanceChangeReason) String() string {
	switch r {
	case BalanceChangeUnspecified:
		return "unspecified"
	case BalanceChangeEscrowDeposit:
		return "escrow_deposit"
	case BalanceChangeCallTransfer:
		return "call_transfer"
	}
	return "unknown"
}

// Geth maps the reason onto the go-ethereum reason recorded by the StateDB.
func (r BalanceChangeReason) Geth() gethtracing.BalanceChangeReason {
	switch r {
	case BalanceChangeEscrowDeposit, BalanceChangeCallTransfer:
		return gethtracing.BalanceChangeTransfer
	}
	return gethtracing.BalanceChangeUnspecified
}
