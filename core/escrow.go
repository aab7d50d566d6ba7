package core

import (
	"fmt"
	"math"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/base-org/rip7755-inbox/tracing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// transferTotal sums the values of the plain transfer calls of a request.
func transferTotal(calls []types.Call) (uint64, error) {
	var total uint64
	for i := range calls {
		if !calls[i].IsTransfer() {
			continue
		}
		if calls[i].Value > math.MaxUint64-total {
			return 0, fmt.Errorf("%w: call %d", ErrValueOverflow, i)
		}
		total += calls[i].Value
	}
	return total, nil
}

// depositTransferFunds moves amount from the payer into the escrow, so
// transfers are paid out of funds the inbox controls rather than directly by
// the caller.
func (in *Inbox) depositTransferFunds(payer, escrow common.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	value := uint256.NewInt(amount)
	if have := in.state.GetBalance(payer); have.Cmp(value) < 0 {
		return fmt.Errorf("%w: address %s have %v want %v", ErrInsufficientFunds, payer.Hex(), have, value)
	}
	in.moveValue(payer, escrow, value, tracing.BalanceChangeEscrowDeposit)
	pooledGauge.Update(int64(amount))
	return nil
}

// moveValue transfers value between two accounts. The caller checks funds.
func (in *Inbox) moveValue(from, to common.Address, value *uint256.Int, reason tracing.BalanceChangeReason) {
	prevFrom := in.state.GetBalance(from).Clone()
	prevTo := in.state.GetBalance(to).Clone()

	in.state.SubBalance(from, value, reason.Geth())
	in.state.AddBalance(to, value, reason.Geth())

	if in.hooks != nil && in.hooks.OnBalanceChange != nil {
		in.hooks.OnBalanceChange(from, prevFrom, new(uint256.Int).Sub(prevFrom, value), reason)
		in.hooks.OnBalanceChange(to, prevTo, new(uint256.Int).Add(prevTo, value), reason)
	}
}
