package core

import (
	"testing"

	"github.com/base-org/rip7755-inbox/core/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	var (
		a       = common.HexToAddress("0x0a")
		b       = common.HexToAddress("0x0b")
		c       = common.HexToAddress("0x0c")
		raw     = []common.Address{a, b, c}
		signers = mapset.NewThreadUnsafeSet(b)
	)
	tests := []struct {
		name     string
		declared []types.TransactionAccount
		offset   int
		want     []types.AccountMeta
		fail     bool
	}{
		{name: "empty", offset: 3, want: []types.AccountMeta{}},
		{name: "prefix", declared: []types.TransactionAccount{{Pubkey: a, IsWritable: true}}, want: []types.AccountMeta{{Address: a, IsWritable: true}}},
		{name: "offset", declared: []types.TransactionAccount{{Pubkey: b, IsSigner: true}, {Pubkey: c}}, offset: 1, want: []types.AccountMeta{{Address: b, IsSigner: true}, {Address: c}}},
		{name: "mismatch", declared: []types.TransactionAccount{{Pubkey: b}}, fail: true},
		{name: "overrun", declared: []types.TransactionAccount{{Pubkey: c}, {Pubkey: a}}, offset: 2, fail: true},
		{name: "offset past end", offset: 4, fail: true},
		{name: "negative offset", offset: -1, fail: true},
		{name: "forged signer", declared: []types.TransactionAccount{{Pubkey: a, IsSigner: true}}, fail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metas, err := reconcile(tt.declared, raw, tt.offset, signers)
			if tt.fail {
				require.ErrorIs(t, err, ErrInvalidAccount)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, metas)
		})
	}
}

func TestAccountsForCall(t *testing.T) {
	accounts := []types.TransactionAccount{
		{Pubkey: common.HexToAddress("0x01"), CallIndex: 1},
		{Pubkey: common.HexToAddress("0x02"), CallIndex: 0},
		{Pubkey: common.HexToAddress("0x03"), CallIndex: 1},
	}
	got := accountsForCall(accounts, 1)
	require.Equal(t, []types.TransactionAccount{accounts[0], accounts[2]}, got)
	require.Empty(t, accountsForCall(accounts, 2))
}
