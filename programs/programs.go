// Package programs contains native reference callees of the inbox: a precheck
// contract and call targets used by tests and the simulator.
package programs

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/base-org/rip7755-inbox/core/vm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrPrecheckFailed is returned by a precheck rejecting a request.
	ErrPrecheckFailed = errors.New("precheck failed")

	// ErrRejected is returned by the Reject program.
	ErrRejected = errors.New("call rejected")
)

// NoRewardPrecheck is a precheck that only admits requests offering no reward.
type NoRewardPrecheck struct {
	Discriminator [types.DiscriminatorLength]byte
}

func (p *NoRewardPrecheck) Run(inv *vm.Invocation) error {
	data, err := types.DecodePrecheckPayload(p.Discriminator, inv.Payload)
	if err != nil {
		return err
	}
	if data.Request.RewardAmount > 0 {
		return fmt.Errorf("%w: reward %d offered by %s", ErrPrecheckFailed, data.Request.RewardAmount, data.Caller.Hex())
	}
	return nil
}

// Storage layout of a CallTarget.
var (
	callCountSlot   = common.Hash{}
	lastPayloadSlot = common.BigToHash(common.Big1)
)

// CallTarget accepts any call and records it in its own storage: the number
// of calls received and the keccak256 hash of the latest payload.
type CallTarget struct{}

func (CallTarget) Run(inv *vm.Invocation) error {
	count, err := inv.GetState(inv.Target, callCountSlot)
	if err != nil {
		return err
	}
	next := new(big.Int).Add(count.Big(), common.Big1)
	if err := inv.SetState(inv.Target, callCountSlot, common.BigToHash(next)); err != nil {
		return err
	}
	return inv.SetState(inv.Target, lastPayloadSlot, crypto.Keccak256Hash(inv.Payload))
}

// StorageReader reads contract storage, as *state.StateDB does.
type StorageReader interface {
	GetState(addr common.Address, key common.Hash) common.Hash
}

// CallCount reads the number of calls a CallTarget at addr received.
func CallCount(state StorageReader, addr common.Address) uint64 {
	return state.GetState(addr, callCountSlot).Big().Uint64()
}

// LastPayloadHash reads the payload hash of the latest call a CallTarget at
// addr received.
func LastPayloadHash(state StorageReader, addr common.Address) common.Hash {
	return state.GetState(addr, lastPayloadSlot)
}

// Reject fails every invocation.
var Reject = vm.ProgramFunc(func(inv *vm.Invocation) error {
	return fmt.Errorf("%w: %s", ErrRejected, inv.Target.Hex())
})
