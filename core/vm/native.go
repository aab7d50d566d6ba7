package vm

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Program is a natively implemented callee.
type Program interface {
	Run(inv *Invocation) error
}

// ProgramFunc adapts an ordinary function to the Program interface.
type ProgramFunc func(inv *Invocation) error

func (f ProgramFunc) Run(inv *Invocation) error { return f(inv) }

// Invocation is what a native program sees of a single call. State access is
// limited to the program's own storage and the accounts it was handed.
type Invocation struct {
	Caller   common.Address
	Target   common.Address
	Accounts []types.AccountMeta
	Payload  []byte

	state *state.StateDB
}

// Account returns the meta the program was handed for addr.
func (inv *Invocation) Account(addr common.Address) (types.AccountMeta, bool) {
	for _, acc := range inv.Accounts {
		if acc.Address == addr {
			return acc, true
		}
	}
	return types.AccountMeta{}, false
}

// Balance returns the balance of a handed account.
func (inv *Invocation) Balance(addr common.Address) (*uint256.Int, error) {
	if _, ok := inv.Account(addr); !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotPermitted, addr.Hex())
	}
	return inv.state.GetBalance(addr).Clone(), nil
}

// GetState reads a storage slot of the program itself or of a handed account.
func (inv *Invocation) GetState(addr common.Address, key common.Hash) (common.Hash, error) {
	if addr != inv.Target {
		if _, ok := inv.Account(addr); !ok {
			return common.Hash{}, fmt.Errorf("%w: %s", ErrAccountNotPermitted, addr.Hex())
		}
	}
	return inv.state.GetState(addr, key), nil
}

// SetState writes a storage slot of the program itself or of an account
// handed as writable.
func (inv *Invocation) SetState(addr common.Address, key, value common.Hash) error {
	if addr != inv.Target {
		acc, ok := inv.Account(addr)
		if !ok || !acc.IsWritable {
			return fmt.Errorf("%w: %s", ErrAccountNotPermitted, addr.Hex())
		}
	}
	inv.state.SetState(addr, key, value)
	return nil
}

// NativeInvoker executes programs implemented in Go, registered by address.
// It is safe for concurrent registration; invocations must be serialized by
// the caller because the StateDB is not thread-safe.
type NativeInvoker struct {
	state    *state.StateDB
	programs sync.Map // map[common.Address]Program

	// invocations counts executed invocations, successful or not.
	invocations atomic.Uint64
}

// NewNativeInvoker creates an invoker running programs against statedb.
func NewNativeInvoker(statedb *state.StateDB) *NativeInvoker {
	return &NativeInvoker{state: statedb}
}

// Register installs p at addr, replacing any previous program.
func (n *NativeInvoker) Register(addr common.Address, p Program) {
	n.programs.Store(addr, p)
}

// Unregister removes the program at addr. Later invocations of addr fail with
// ErrNotExecutable.
func (n *NativeInvoker) Unregister(addr common.Address) {
	n.programs.Delete(addr)
}

// lookup tries to fetch the program registered at addr.
func (n *NativeInvoker) lookup(addr common.Address) (Program, bool) {
	if v, ok := n.programs.Load(addr); ok {
		return v.(Program), true
	}
	return nil, false
}

// Invocations returns the number of invocations executed so far.
func (n *NativeInvoker) Invocations() uint64 { return n.invocations.Load() }

func (n *NativeInvoker) Engine() string { return "native" }

func (n *NativeInvoker) Executable(target common.Address) bool {
	_, ok := n.lookup(target)
	return ok
}

func (n *NativeInvoker) Invoke(caller, target common.Address, accounts []types.AccountMeta, payload []byte) error {
	p, ok := n.lookup(target)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotExecutable, target.Hex())
	}
	n.invocations.Add(1)

	inv := &Invocation{
		Caller:   caller,
		Target:   target,
		Accounts: append([]types.AccountMeta(nil), accounts...),
		Payload:  common.CopyBytes(payload),
		state:    n.state,
	}
	if err := p.Run(inv); err != nil {
		log.Debug("Native program failed", "target", target, "err", err)
		return fmt.Errorf("program %s: %w", target.Hex(), err)
	}
	return nil
}
