package core

import (
	"fmt"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/base-org/rip7755-inbox/tracing"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// routeCalls executes the calls of a request in order. Plain transfers are
// paid out of the escrow; every other call is invoked with the accounts
// declared for it, consumed from the raw handles starting at offset. It
// returns the value paid out of the escrow.
func (in *Inbox) routeCalls(msg *Message, escrow common.Address, offset int, signers mapset.Set[common.Address]) (uint64, error) {
	calls := msg.Request.Calls
	for _, acc := range msg.Accounts {
		if int(acc.CallIndex) >= len(calls) {
			return 0, fmt.Errorf("%w: %s declared for call %d of %d", ErrInvalidAccount, acc.Pubkey.Hex(), acc.CallIndex, len(calls))
		}
	}
	var (
		handles   = mapset.NewThreadUnsafeSet(msg.RemainingAccounts...)
		cursor    = offset
		disbursed uint64
	)
	for i := range calls {
		call := &calls[i]
		if call.IsTransfer() {
			if !handles.Contains(call.To) {
				return disbursed, fmt.Errorf("%w: %s", ErrMissingTargetAccount, call.To.Hex())
			}
			if err := in.payTransfer(escrow, i, call); err != nil {
				return disbursed, err
			}
			disbursed += call.Value
			continue
		}
		declared := accountsForCall(msg.Accounts, i)
		metas, err := reconcile(declared, msg.RemainingAccounts, cursor, signers)
		if err != nil {
			return disbursed, fmt.Errorf("call %d: %w", i, err)
		}
		cursor += len(declared)

		if in.hooks != nil && in.hooks.OnCall != nil {
			in.hooks.OnCall(i, call, metas)
		}
		if err := in.invoker.Invoke(in.config.Address, call.To, metas, call.Data); err != nil {
			return disbursed, fmt.Errorf("call %d to %s: %w", i, call.To.Hex(), err)
		}
		invokeCounter.Inc(1)
		log.Trace("Routed call", "index", i, "target", call.To, "accounts", len(metas))
	}
	return disbursed, nil
}

// payTransfer pays a plain transfer call out of the escrow.
func (in *Inbox) payTransfer(escrow common.Address, index int, call *types.Call) error {
	if in.hooks != nil && in.hooks.OnCall != nil {
		in.hooks.OnCall(index, call, nil)
	}
	if call.Value == 0 {
		return nil
	}
	value := uint256.NewInt(call.Value)
	if have := in.state.GetBalance(escrow); have.Cmp(value) < 0 {
		return fmt.Errorf("%w: escrow holds %v, call %d pays %v", ErrValueMismatch, have, index, value)
	}
	in.moveValue(escrow, call.To, value, tracing.BalanceChangeCallTransfer)
	transferCounter.Inc(1)
	return nil
}
