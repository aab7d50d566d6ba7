package core

import (
	"fmt"

	"github.com/base-org/rip7755-inbox/core/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
)

// reconcile checks the declared account metadata against the raw account
// handles starting at offset and returns the metas to hand to a callee.
// Declared addresses must equal the handles position by position, and only
// accounts in signers may be declared as signing.
func reconcile(declared []types.TransactionAccount, raw []common.Address, offset int, signers mapset.Set[common.Address]) ([]types.AccountMeta, error) {
	if offset < 0 || offset > len(raw) || len(declared) > len(raw)-offset {
		return nil, fmt.Errorf("%w: %d accounts declared at offset %d, %d handles given", ErrInvalidAccount, len(declared), offset, len(raw))
	}
	metas := make([]types.AccountMeta, len(declared))
	for k := range declared {
		acc := &declared[k]
		if have := raw[offset+k]; acc.Pubkey != have {
			return nil, fmt.Errorf("%w: position %d declares %s, handle is %s", ErrInvalidAccount, offset+k, acc.Pubkey.Hex(), have.Hex())
		}
		if acc.IsSigner && !signers.Contains(acc.Pubkey) {
			return nil, fmt.Errorf("%w: %s declared as signer", ErrInvalidAccount, acc.Pubkey.Hex())
		}
		metas[k] = acc.Meta()
	}
	return metas, nil
}

// accountsForCall filters the descriptors belonging to the call at index,
// keeping their relative order.
func accountsForCall(accounts []types.TransactionAccount, index int) []types.TransactionAccount {
	var out []types.TransactionAccount
	for _, acc := range accounts {
		if int(acc.CallIndex) == index {
			out = append(out, acc)
		}
	}
	return out
}
