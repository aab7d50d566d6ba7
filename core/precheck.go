package core

import (
	"fmt"

	"github.com/base-org/rip7755-inbox/core/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// PrecheckTarget extracts the precheck contract named by the request. The
// first extra data entry carries it as an ABI encoded address word; a request
// without extra data, or naming the zero address, has no precheck.
func PrecheckTarget(req *types.CrossChainRequest) (common.Address, error) {
	if len(req.ExtraData) == 0 {
		return common.Address{}, nil
	}
	word := req.ExtraData[0]
	if len(word) < common.HashLength {
		return common.Address{}, fmt.Errorf("%w: entry is %d bytes", ErrInvalidPrecheckData, len(word))
	}
	for _, b := range word[:common.HashLength-common.AddressLength] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: not an address word", ErrInvalidPrecheckData)
		}
	}
	return common.BytesToAddress(word[:common.HashLength]), nil
}

// runPrecheck invokes the precheck contract, if the request names one, with
// the precheck accounts found at the front of the raw handles. Any failure of
// the precheck vetoes the fulfillment.
func (in *Inbox) runPrecheck(msg *Message, signers mapset.Set[common.Address]) error {
	target, err := PrecheckTarget(msg.Request)
	if err != nil {
		return err
	}
	if target == (common.Address{}) {
		return nil
	}
	metas, err := reconcile(msg.PrecheckAccounts, msg.RemainingAccounts, 0, signers)
	if err != nil {
		return err
	}
	payload, err := types.EncodePrecheckPayload(in.config.PrecheckDiscriminator, msg.Request, msg.Caller)
	if err != nil {
		return err
	}
	if in.hooks != nil && in.hooks.OnPrecheck != nil {
		in.hooks.OnPrecheck(target, metas)
	}
	precheckMeter.Mark(1)
	if err := in.invoker.Invoke(in.config.Address, target, metas, payload); err != nil {
		log.Debug("Precheck rejected request", "target", target, "err", err)
		return fmt.Errorf("precheck %s: %w", target.Hex(), err)
	}
	return nil
}
