package vm

import (
	"math/big"
	"testing"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

var (
	// PUSH1 1 PUSH1 0 SSTORE STOP
	storeRuntime = hexutil.MustDecode("0x600160005500")
	// PUSH1 0 PUSH1 0 REVERT
	revertRuntime = hexutil.MustDecode("0x60006000fd")
)

func TestEVMInvokerCall(t *testing.T) {
	sdb := newTestState(t)
	contract := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	sdb.CreateAccount(contract)
	sdb.SetCode(contract, storeRuntime)

	e := NewEVMInvoker(sdb, EVMConfig{})
	require.Equal(t, "evm", e.Engine())
	require.True(t, e.Executable(contract))

	accounts := []types.AccountMeta{{Address: userAddr, IsWritable: true}}
	require.NoError(t, e.Invoke(callerAddr, contract, accounts, []byte{0x01}))

	require.Equal(t, common.BigToHash(common.Big1), sdb.GetState(contract, common.Hash{}))
	require.True(t, sdb.AddressInAccessList(userAddr))
}

func TestEVMInvokerRevert(t *testing.T) {
	sdb := newTestState(t)
	contract := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	sdb.CreateAccount(contract)
	sdb.SetCode(contract, revertRuntime)

	e := NewEVMInvoker(sdb, EVMConfig{ChainConfig: params.MergedTestChainConfig, GasLimit: 100_000})
	err := e.Invoke(callerAddr, contract, nil, nil)
	require.ErrorIs(t, err, ErrExecutionReverted)
}

func TestEVMInvokerNoCode(t *testing.T) {
	e := NewEVMInvoker(newTestState(t), EVMConfig{})
	err := e.Invoke(callerAddr, userAddr, nil, nil)
	require.ErrorIs(t, err, ErrNotExecutable)
}

func TestDispatcherRouting(t *testing.T) {
	sdb := newTestState(t)
	contract := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	sdb.CreateAccount(contract)
	sdb.SetCode(contract, storeRuntime)

	native := NewNativeInvoker(sdb)
	ran := false
	native.Register(progAddr, ProgramFunc(func(*Invocation) error {
		ran = true
		return nil
	}))
	d := NewDispatcher(native, NewEVMInvoker(sdb, EVMConfig{}))
	require.Equal(t, "native+evm", d.Engine())

	require.NoError(t, d.Invoke(callerAddr, progAddr, nil, nil))
	require.True(t, ran)

	require.NoError(t, d.Invoke(callerAddr, contract, nil, nil))
	require.Equal(t, common.BigToHash(common.Big1), sdb.GetState(contract, common.Hash{}))

	require.False(t, d.Executable(userAddr))
	require.ErrorIs(t, d.Invoke(callerAddr, userAddr, nil, nil), ErrNotExecutable)
}

func TestForkName(t *testing.T) {
	require.Equal(t, "frontier", ForkName(params.NonActivatedConfig, 0, 0))

	zero := big.NewInt(0)
	cfg := &params.ChainConfig{
		ChainID:             big.NewInt(1),
		HomesteadBlock:      zero,
		EIP150Block:         zero,
		EIP155Block:         zero,
		EIP158Block:         zero,
		ByzantiumBlock:      zero,
		ConstantinopleBlock: zero,
		PetersburgBlock:     zero,
		IstanbulBlock:       zero,
	}
	require.Equal(t, "istanbul", ForkName(cfg, 10, 0))

	cfg.BerlinBlock = zero
	cfg.LondonBlock = zero
	require.Equal(t, "london", ForkName(cfg, 10, 0))

	shanghai := uint64(100)
	cfg.ShanghaiTime = &shanghai
	require.Equal(t, "london", ForkName(cfg, 10, 99))
	require.Equal(t, "shanghai", ForkName(cfg, 10, 100))
}
