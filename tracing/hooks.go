package tracing

import (
	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type (
	// FulfillStartHook is called before a request is validated.
	FulfillStartHook = func(hash common.Hash, filler common.Address)

	// FulfillEndHook is called once the fulfillment committed or was rolled
	// back. err is nil on success.
	FulfillEndHook = func(hash common.Hash, err error)

	// PrecheckHook is called right before the precheck program is invoked.
	PrecheckHook = func(target common.Address, accounts []types.AccountMeta)

	// CallHook is called before each request call is routed.
	CallHook = func(index int, call *types.Call, accounts []types.AccountMeta)

	// BalanceChangeHook is called when the pipeline moves native value.
	BalanceChangeHook = func(addr common.Address, prev, new *uint256.Int, reason BalanceChangeReason)
)

// Hooks is a set of optional callbacks observing the fulfillment pipeline.
// Hooks fire during execution, so a rejected fulfillment may have reported
// calls and balance changes that were later rolled back; OnFulfillEnd reports
// the final outcome.
type Hooks struct {
	OnFulfillStart  FulfillStartHook
	OnFulfillEnd    FulfillEndHook
	OnPrecheck      PrecheckHook
	OnCall          CallHook
	OnBalanceChange BalanceChangeHook
}
