package types

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type callMarshaling struct {
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Value hexutil.Uint64  `json:"value"`
}

// MarshalJSON marshals as JSON.
func (c Call) MarshalJSON() ([]byte, error) {
	enc := callMarshaling{To: &c.To, Data: c.Data, Value: hexutil.Uint64(c.Value)}
	return json.Marshal(&enc)
}

// UnmarshalJSON unmarshals from JSON.
func (c *Call) UnmarshalJSON(input []byte) error {
	var dec callMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.To == nil {
		return errors.New("missing required field 'to' for Call")
	}
	c.To = *dec.To
	c.Data = dec.Data
	c.Value = uint64(dec.Value)
	return nil
}

type requestMarshaling struct {
	Requester            common.Address  `json:"requester"`
	Calls                []Call          `json:"calls"`
	DestinationChainID   *hexutil.Uint64 `json:"destinationChainId"`
	InboxContract        *common.Address `json:"inboxContract"`
	L2Oracle             common.Address  `json:"l2Oracle"`
	L2OracleStorageKey   common.Hash     `json:"l2OracleStorageKey"`
	RewardAsset          common.Address  `json:"rewardAsset"`
	RewardAmount         hexutil.Uint64  `json:"rewardAmount"`
	FinalityDelaySeconds hexutil.Uint64  `json:"finalityDelaySeconds"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Expiry               hexutil.Uint64  `json:"expiry"`
	ExtraData            []hexutil.Bytes `json:"extraData"`
}

// MarshalJSON marshals as JSON.
func (r CrossChainRequest) MarshalJSON() ([]byte, error) {
	chainID := hexutil.Uint64(r.DestinationChainID)
	enc := requestMarshaling{
		Requester:            r.Requester,
		Calls:                r.Calls,
		DestinationChainID:   &chainID,
		InboxContract:        &r.InboxContract,
		L2Oracle:             r.L2Oracle,
		L2OracleStorageKey:   r.L2OracleStorageKey,
		RewardAsset:          r.RewardAsset,
		RewardAmount:         hexutil.Uint64(r.RewardAmount),
		FinalityDelaySeconds: hexutil.Uint64(r.FinalityDelaySeconds),
		Nonce:                hexutil.Uint64(r.Nonce),
		Expiry:               hexutil.Uint64(r.Expiry),
	}
	if r.ExtraData != nil {
		enc.ExtraData = make([]hexutil.Bytes, len(r.ExtraData))
		for i, blob := range r.ExtraData {
			enc.ExtraData[i] = blob
		}
	}
	return json.Marshal(&enc)
}

// UnmarshalJSON unmarshals from JSON.
func (r *CrossChainRequest) UnmarshalJSON(input []byte) error {
	var dec requestMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	if dec.DestinationChainID == nil {
		return errors.New("missing required field 'destinationChainId' for CrossChainRequest")
	}
	if dec.InboxContract == nil {
		return errors.New("missing required field 'inboxContract' for CrossChainRequest")
	}
	r.Requester = dec.Requester
	r.Calls = dec.Calls
	r.DestinationChainID = uint64(*dec.DestinationChainID)
	r.InboxContract = *dec.InboxContract
	r.L2Oracle = dec.L2Oracle
	r.L2OracleStorageKey = dec.L2OracleStorageKey
	r.RewardAsset = dec.RewardAsset
	r.RewardAmount = uint64(dec.RewardAmount)
	r.FinalityDelaySeconds = uint64(dec.FinalityDelaySeconds)
	r.Nonce = uint64(dec.Nonce)
	r.Expiry = uint64(dec.Expiry)
	r.ExtraData = nil
	if dec.ExtraData != nil {
		r.ExtraData = make([][]byte, len(dec.ExtraData))
		for i, blob := range dec.ExtraData {
			r.ExtraData[i] = blob
		}
	}
	return nil
}
