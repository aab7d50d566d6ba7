package vm

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *state.StateDB {
	t.Helper()
	sdb, err := state.New(gethtypes.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		t.Fatalf("failed to create StateDB: %v", err)
	}
	return sdb
}

var (
	progAddr   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	callerAddr = common.HexToAddress("0x00000000000000000000000000000000000000cc")
	userAddr   = common.HexToAddress("0x00000000000000000000000000000000000000dd")
)

// TestNativeRegistry verifies that Register installs a program, Invoke runs it,
// and Unregister actually removes the entry.
func TestNativeRegistry(t *testing.T) {
	n := NewNativeInvoker(newTestState(t))

	var got *Invocation
	n.Register(progAddr, ProgramFunc(func(inv *Invocation) error {
		got = inv
		return nil
	}))
	if !n.Executable(progAddr) {
		t.Fatalf("program should be executable after register")
	}

	accounts := []types.AccountMeta{{Address: userAddr, IsWritable: true}}
	payload := []byte{1, 2, 3}
	if err := n.Invoke(callerAddr, progAddr, accounts, payload); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	require.Equal(t, callerAddr, got.Caller)
	require.Equal(t, progAddr, got.Target)
	require.Equal(t, accounts, got.Accounts)
	require.Equal(t, payload, got.Payload)

	// The program must get its own copy of the payload.
	payload[0] = 9
	require.Equal(t, byte(1), got.Payload[0])
	require.Equal(t, uint64(1), n.Invocations())

	n.Unregister(progAddr)
	err := n.Invoke(callerAddr, progAddr, nil, nil)
	require.ErrorIs(t, err, ErrNotExecutable)
}

func TestNativeProgramError(t *testing.T) {
	n := NewNativeInvoker(newTestState(t))
	errBoom := errors.New("boom")
	n.Register(progAddr, ProgramFunc(func(*Invocation) error { return errBoom }))

	err := n.Invoke(callerAddr, progAddr, nil, nil)
	require.ErrorIs(t, err, errBoom)
}

func TestInvocationPermissions(t *testing.T) {
	sdb := newTestState(t)
	readOnly := common.HexToAddress("0x00000000000000000000000000000000000000ee")
	stranger := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	key, val := common.HexToHash("0x01"), common.HexToHash("0x02")

	n := NewNativeInvoker(sdb)
	n.Register(progAddr, ProgramFunc(func(inv *Invocation) error {
		require.NoError(t, inv.SetState(inv.Target, key, val))
		require.NoError(t, inv.SetState(userAddr, key, val))
		require.ErrorIs(t, inv.SetState(readOnly, key, val), ErrAccountNotPermitted)
		require.ErrorIs(t, inv.SetState(stranger, key, val), ErrAccountNotPermitted)

		_, err := inv.GetState(readOnly, key)
		require.NoError(t, err)
		_, err = inv.GetState(stranger, key)
		require.ErrorIs(t, err, ErrAccountNotPermitted)
		_, err = inv.Balance(stranger)
		require.ErrorIs(t, err, ErrAccountNotPermitted)
		return nil
	}))
	accounts := []types.AccountMeta{
		{Address: userAddr, IsWritable: true},
		{Address: readOnly},
	}
	require.NoError(t, n.Invoke(callerAddr, progAddr, accounts, nil))
	require.Equal(t, val, sdb.GetState(progAddr, key))
	require.Equal(t, val, sdb.GetState(userAddr, key))
	require.Equal(t, common.Hash{}, sdb.GetState(readOnly, key))
}

// TestNativeRegistryRace ensures that concurrent registrations are race-free.
func TestNativeRegistryRace(t *testing.T) {
	const n = 100
	inv := NewNativeInvoker(newTestState(t))
	noop := ProgramFunc(func(*Invocation) error { return nil })

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			inv.Register(common.BigToAddress(big.NewInt(int64(i+1))), noop)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		addr := common.BigToAddress(big.NewInt(int64(i + 1)))
		if !inv.Executable(addr) {
			t.Fatalf("program %d missing after concurrent register", i)
		}
	}
}
