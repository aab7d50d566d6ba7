package vm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethcore "github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/state"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// DefaultCallGasLimit is the gas handed to each EVM invocation.
const DefaultCallGasLimit = 10_000_000

// EVMConfig configures the block environment of an EVMInvoker.
type EVMConfig struct {
	ChainConfig *params.ChainConfig
	BlockNumber uint64
	Time        uint64
	GasLimit    uint64 // per invocation, DefaultCallGasLimit if zero
}

// EVMInvoker runs contract callees on the go-ethereum EVM, over the same
// StateDB the inbox mutates, so callee effects share its rollback scope.
type EVMInvoker struct {
	statedb  *state.StateDB
	evm      *gethvm.EVM
	gasLimit uint64
}

// NewEVMInvoker creates an EVM-backed invoker. A nil chain config selects
// params.MergedTestChainConfig.
func NewEVMInvoker(statedb *state.StateDB, cfg EVMConfig) *EVMInvoker {
	if cfg.ChainConfig == nil {
		cfg.ChainConfig = params.MergedTestChainConfig
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultCallGasLimit
	}
	random := common.Hash{}
	blockCtx := gethvm.BlockContext{
		CanTransfer: gethcore.CanTransfer,
		Transfer:    gethcore.Transfer,
		GetHash:     func(uint64) common.Hash { return common.Hash{} },
		BlockNumber: new(big.Int).SetUint64(cfg.BlockNumber),
		Time:        cfg.Time,
		Difficulty:  new(big.Int),
		GasLimit:    cfg.GasLimit,
		BaseFee:     new(big.Int),
		BlobBaseFee: big.NewInt(1),
		Random:      &random,
	}
	evm := gethvm.NewEVM(blockCtx, statedb, cfg.ChainConfig, gethvm.Config{})
	log.Debug("Initialised EVM invoker", "chain", cfg.ChainConfig.ChainID, "fork", ForkName(cfg.ChainConfig, cfg.BlockNumber, cfg.Time), "gas", cfg.GasLimit)

	return &EVMInvoker{statedb: statedb, evm: evm, gasLimit: cfg.GasLimit}
}

func (e *EVMInvoker) Engine() string { return "evm" }

// Executable reports whether target holds contract code.
func (e *EVMInvoker) Executable(target common.Address) bool {
	return e.statedb.GetCodeSize(target) > 0
}

// Invoke calls target with payload as calldata and no value. The handed
// accounts are warmed in the access list; the EVM has no notion of per-call
// account lists beyond that.
func (e *EVMInvoker) Invoke(caller, target common.Address, accounts []types.AccountMeta, payload []byte) error {
	if !e.Executable(target) {
		return fmt.Errorf("%w: %s", ErrNotExecutable, target.Hex())
	}
	e.evm.SetTxContext(gethvm.TxContext{Origin: caller, GasPrice: new(big.Int)})

	e.statedb.AddAddressToAccessList(target)
	for _, acc := range accounts {
		e.statedb.AddAddressToAccessList(acc.Address)
	}
	ret, leftOver, err := e.evm.Call(gethvm.AccountRef(caller), target, payload, e.gasLimit, new(uint256.Int))
	if err != nil {
		if errors.Is(err, gethvm.ErrExecutionReverted) {
			if reason, uerr := abi.UnpackRevert(ret); uerr == nil {
				return fmt.Errorf("%w: %s", ErrExecutionReverted, reason)
			}
			return ErrExecutionReverted
		}
		return fmt.Errorf("evm call %s: %w", target.Hex(), err)
	}
	log.Trace("EVM invocation done", "target", target, "gasUsed", e.gasLimit-leftOver, "ret", len(ret))
	return nil
}
