package core

import (
	"fmt"
	"math/big"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	gethtracing "github.com/ethereum/go-ethereum/core/tracing"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Storage layout of a fulfillment record account.
var (
	timestampSlot = common.Hash{}
	fillerSlot    = common.BigToHash(common.Big1)
)

// FulfillmentInfoAddress derives the account holding the fulfillment record of
// the request with the given hash. The derivation depends only on the inbox
// and the hash, so anyone can locate the record of a request.
func FulfillmentInfoAddress(inbox common.Address, hash common.Hash) common.Address {
	return crypto.CreateAddress2(inbox, hash, gethtypes.EmptyCodeHash.Bytes())
}

// fulfilled reports whether the record account at addr has been allocated. A
// record is allocated by bumping its nonce, which also keeps it from being
// swept as an empty account.
func fulfilled(statedb *state.StateDB, addr common.Address) bool {
	return statedb.GetNonce(addr) != 0
}

// CreateFulfillmentInfo allocates the record for hash, failing with
// ErrAlreadyFulfilled if one exists. Value held by the record account before
// allocation is preserved.
func CreateFulfillmentInfo(statedb *state.StateDB, inbox common.Address, hash common.Hash, filler common.Address, timestamp uint64) (*types.FulfillmentInfo, error) {
	addr := FulfillmentInfoAddress(inbox, hash)
	if fulfilled(statedb, addr) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyFulfilled, hash.Hex())
	}
	if !statedb.Exist(addr) {
		statedb.CreateAccount(addr)
	}
	statedb.SetNonce(addr, 1, gethtracing.NonceChangeUnspecified)
	statedb.SetState(addr, timestampSlot, common.BigToHash(new(big.Int).SetUint64(timestamp)))
	statedb.SetState(addr, fillerSlot, common.BytesToHash(filler.Bytes()))

	return &types.FulfillmentInfo{Timestamp: timestamp, Filler: filler}, nil
}

// ReadFulfillmentInfo loads the record for hash, if any.
func ReadFulfillmentInfo(statedb *state.StateDB, inbox common.Address, hash common.Hash) (*types.FulfillmentInfo, bool) {
	addr := FulfillmentInfoAddress(inbox, hash)
	if !fulfilled(statedb, addr) {
		return nil, false
	}
	return &types.FulfillmentInfo{
		Timestamp: statedb.GetState(addr, timestampSlot).Big().Uint64(),
		Filler:    common.BytesToAddress(statedb.GetState(addr, fillerSlot).Bytes()),
	}, true
}
