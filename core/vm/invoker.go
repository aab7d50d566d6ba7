package vm

import (
	"fmt"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
)

// Invoker is the execution environment's invocation primitive. The inbox
// depends only on this interface to run precheck programs and call targets.
//
// Invoke runs target with the given payload, handing it exactly the accounts
// listed. Any error means the callee rejected the invocation; the inbox treats
// it as a failure of the whole fulfillment.
type Invoker interface {
	// Engine returns a short human identifier ("native", "evm" …).
	Engine() string

	// Executable reports whether target can be invoked by this backend.
	Executable(target common.Address) bool

	Invoke(caller, target common.Address, accounts []types.AccountMeta, payload []byte) error
}

// Dispatcher routes each invocation to the first backend that can execute
// the target.
type Dispatcher struct {
	backends []Invoker
}

// NewDispatcher creates a dispatcher over the given backends, in priority order.
func NewDispatcher(backends ...Invoker) *Dispatcher {
	return &Dispatcher{backends: backends}
}

func (d *Dispatcher) Engine() string {
	name := ""
	for i, b := range d.backends {
		if i > 0 {
			name += "+"
		}
		name += b.Engine()
	}
	return name
}

func (d *Dispatcher) Executable(target common.Address) bool {
	return d.backend(target) != nil
}

func (d *Dispatcher) Invoke(caller, target common.Address, accounts []types.AccountMeta, payload []byte) error {
	b := d.backend(target)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrNotExecutable, target.Hex())
	}
	return b.Invoke(caller, target, accounts, payload)
}

func (d *Dispatcher) backend(target common.Address) Invoker {
	for _, b := range d.backends {
		if b.Executable(target) {
			return b
		}
	}
	return nil
}
