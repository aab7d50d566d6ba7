package core

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/base-org/rip7755-inbox/core/vm"
	"github.com/base-org/rip7755-inbox/tracing"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	"github.com/ethereum/go-ethereum/log"
)

// BlockContext is the block environment a fulfillment is executed in.
type BlockContext struct {
	Number uint64
	Time   uint64 // unix seconds, recorded as the fulfillment timestamp
}

// Message is a fulfillment attempt submitted by a filler.
type Message struct {
	Request *types.CrossChainRequest

	// Caller signs the attempt and funds the request's plain transfers.
	Caller common.Address
	// Filler is recorded as the party that fulfilled the request.
	Filler common.Address

	// PrecheckAccounts are the accounts handed to the precheck contract. They
	// occupy the front of RemainingAccounts.
	PrecheckAccounts []types.TransactionAccount
	// Accounts are the accounts handed to the request's calls, tagged with
	// the index of the call they belong to.
	Accounts []types.TransactionAccount

	// RequestHash is the hash the filler claims for Request.
	RequestHash common.Hash

	// RemainingAccounts are the raw account handles supplied with the
	// attempt. Declared account metadata is checked against them.
	RemainingAccounts []common.Address
}

// Inbox fulfills cross-chain requests against a state database. Fulfillments
// are serialized: at most one attempt mutates the state at any time.
type Inbox struct {
	config  *Config
	state   *state.StateDB
	invoker vm.Invoker
	hooks   *tracing.Hooks

	mu sync.Mutex
}

// NewInbox creates an inbox executing against statedb and invoking callees
// through invoker. hooks may be nil.
func NewInbox(config *Config, statedb *state.StateDB, invoker vm.Invoker, hooks *tracing.Hooks) (*Inbox, error) {
	if config == nil {
		return nil, errors.New("nil inbox config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if statedb == nil || invoker == nil {
		return nil, errors.New("inbox needs a state database and an invoker")
	}
	cfg := *config
	log.Info("Initialised cross-chain inbox", "address", cfg.Address, "chain", cfg.ChainID, "engine", invoker.Engine())
	return &Inbox{config: &cfg, state: statedb, invoker: invoker, hooks: hooks}, nil
}

// Config returns a copy of the inbox configuration.
func (in *Inbox) Config() Config { return *in.config }

// Fulfill executes a fulfillment attempt: it validates the request, runs its
// precheck, records the fulfillment, funds the escrow and routes the calls.
// Either every step succeeds and all effects persist, or the state is left
// exactly as it was before the call.
func (in *Inbox) Fulfill(blockCtx BlockContext, msg *Message) (info *types.FulfillmentInfo, err error) {
	if msg == nil || msg.Request == nil {
		return nil, ErrNilRequest
	}
	in.mu.Lock()
	defer in.mu.Unlock()

	var (
		start = time.Now()
		hash  = msg.Request.Hash()
		snap  = in.state.Snapshot()
	)
	if in.hooks != nil && in.hooks.OnFulfillStart != nil {
		in.hooks.OnFulfillStart(hash, msg.Filler)
	}
	defer func() {
		if err != nil {
			in.state.RevertToSnapshot(snap)
			info = nil
			rejectedMeter.Mark(1)
			if errors.Is(err, ErrAlreadyFulfilled) {
				replayMeter.Mark(1)
			}
			log.Debug("Rejected fulfillment", "hash", hash, "filler", msg.Filler, "err", err)
		} else {
			fulfilledMeter.Mark(1)
			fulfillTimer.UpdateSince(start)
		}
		if in.hooks != nil && in.hooks.OnFulfillEnd != nil {
			in.hooks.OnFulfillEnd(hash, err)
		}
	}()

	if err := in.validate(msg, hash); err != nil {
		return nil, err
	}
	signers := mapset.NewThreadUnsafeSet(msg.Caller)
	if err := in.runPrecheck(msg, signers); err != nil {
		return nil, err
	}
	info, err = CreateFulfillmentInfo(in.state, in.config.Address, hash, msg.Filler, blockCtx.Time)
	if err != nil {
		return nil, err
	}
	escrow := FulfillmentInfoAddress(in.config.Address, hash)

	pooled, err := transferTotal(msg.Request.Calls)
	if err != nil {
		return nil, err
	}
	if err := in.depositTransferFunds(msg.Caller, escrow, pooled); err != nil {
		return nil, err
	}
	disbursed, err := in.routeCalls(msg, escrow, len(msg.PrecheckAccounts), signers)
	if err != nil {
		return nil, err
	}
	if disbursed != pooled {
		return nil, fmt.Errorf("%w: pooled %d, disbursed %d", ErrValueMismatch, pooled, disbursed)
	}
	log.Info("Fulfilled cross-chain request", "hash", hash, "filler", msg.Filler, "calls", len(msg.Request.Calls), "value", pooled, "block", blockCtx.Number, "elapsed", common.PrettyDuration(time.Since(start)))
	return info, nil
}

// validate checks that the request targets this inbox and that the claimed
// hash matches it.
func (in *Inbox) validate(msg *Message, hash common.Hash) error {
	req := msg.Request
	if req.DestinationChainID != in.config.ChainID {
		return fmt.Errorf("%w: have %d, want %d", ErrInvalidChainId, req.DestinationChainID, in.config.ChainID)
	}
	if req.InboxContract != in.config.Address {
		return fmt.Errorf("%w: have %s, want %s", ErrInvalidInboxContract, req.InboxContract.Hex(), in.config.Address.Hex())
	}
	if msg.RequestHash != hash {
		return fmt.Errorf("%w: have %s, want %s", ErrInvalidRequestHash, msg.RequestHash.Hex(), hash.Hex())
	}
	return nil
}

// Status returns the fulfillment record stored for the request hash, if any.
func (in *Inbox) Status(hash common.Hash) (*types.FulfillmentInfo, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return ReadFulfillmentInfo(in.state, in.config.Address, hash)
}
