package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/base-org/rip7755-inbox/core"
	"github.com/base-org/rip7755-inbox/core/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/naoina/toml"
	"gopkg.in/yaml.v3"
)

// Fixture describes a fulfillment attempt together with the state it runs
// against.
type Fixture struct {
	Inbox *core.Config `toml:"inbox" yaml:"inbox"`
	Block BlockFixture `toml:"block" yaml:"block"`

	Caller common.Address `toml:"caller" yaml:"caller"`
	Filler common.Address `toml:"filler" yaml:"filler"`

	Accounts []AccountFixture `toml:"accounts" yaml:"accounts"`
	Request  RequestFixture   `toml:"request" yaml:"request"`

	PrecheckAccounts  []types.TransactionAccount `toml:"precheck_accounts" yaml:"precheck_accounts"`
	CallAccounts      []types.TransactionAccount `toml:"call_accounts" yaml:"call_accounts"`
	RemainingAccounts []common.Address           `toml:"remaining_accounts" yaml:"remaining_accounts"`

	// RequestHash overrides the hash claimed for the request.
	RequestHash *common.Hash `toml:"request_hash" yaml:"request_hash"`
}

type BlockFixture struct {
	Number uint64 `toml:"number" yaml:"number"`
	Time   uint64 `toml:"time" yaml:"time"`
}

// AccountFixture seeds one account. Program names a native program installed
// at the address, Code deploys EVM runtime code.
type AccountFixture struct {
	Address common.Address `toml:"address" yaml:"address"`
	Balance uint64         `toml:"balance" yaml:"balance"`
	Program string         `toml:"program" yaml:"program"`
	Code    hexutil.Bytes  `toml:"code" yaml:"code"`
}

type CallFixture struct {
	To    common.Address `toml:"to" yaml:"to"`
	Data  hexutil.Bytes  `toml:"data" yaml:"data"`
	Value uint64         `toml:"value" yaml:"value"`
}

type RequestFixture struct {
	Requester            common.Address  `toml:"requester" yaml:"requester"`
	Calls                []CallFixture   `toml:"calls" yaml:"calls"`
	DestinationChainID   uint64          `toml:"destination_chain_id" yaml:"destination_chain_id"`
	InboxContract        common.Address  `toml:"inbox_contract" yaml:"inbox_contract"`
	L2Oracle             common.Address  `toml:"l2_oracle" yaml:"l2_oracle"`
	L2OracleStorageKey   common.Hash     `toml:"l2_oracle_storage_key" yaml:"l2_oracle_storage_key"`
	RewardAsset          common.Address  `toml:"reward_asset" yaml:"reward_asset"`
	RewardAmount         uint64          `toml:"reward_amount" yaml:"reward_amount"`
	FinalityDelaySeconds uint64          `toml:"finality_delay_seconds" yaml:"finality_delay_seconds"`
	Nonce                uint64          `toml:"nonce" yaml:"nonce"`
	Expiry               uint64          `toml:"expiry" yaml:"expiry"`
	ExtraData            []hexutil.Bytes `toml:"extra_data" yaml:"extra_data"`

	// Precheck, if set, is encoded as the first extra data entry.
	Precheck *common.Address `toml:"precheck" yaml:"precheck"`
}

// CrossChainRequest converts the fixture into a request.
func (f *RequestFixture) CrossChainRequest() *types.CrossChainRequest {
	req := &types.CrossChainRequest{
		Requester:            f.Requester,
		DestinationChainID:   f.DestinationChainID,
		InboxContract:        f.InboxContract,
		L2Oracle:             f.L2Oracle,
		L2OracleStorageKey:   f.L2OracleStorageKey,
		RewardAsset:          f.RewardAsset,
		RewardAmount:         f.RewardAmount,
		FinalityDelaySeconds: f.FinalityDelaySeconds,
		Nonce:                f.Nonce,
		Expiry:               f.Expiry,
	}
	for _, call := range f.Calls {
		req.Calls = append(req.Calls, types.Call{To: call.To, Data: common.CopyBytes(call.Data), Value: call.Value})
	}
	if f.Precheck != nil {
		req.ExtraData = append(req.ExtraData, common.LeftPadBytes(f.Precheck.Bytes(), common.HashLength))
	}
	for _, blob := range f.ExtraData {
		req.ExtraData = append(req.ExtraData, common.CopyBytes(blob))
	}
	return req
}

// Message builds the fulfillment message described by the fixture.
func (f *Fixture) Message() *core.Message {
	req := f.Request.CrossChainRequest()
	msg := &core.Message{
		Request:           req,
		Caller:            f.Caller,
		Filler:            f.Filler,
		PrecheckAccounts:  f.PrecheckAccounts,
		Accounts:          f.CallAccounts,
		RequestHash:       req.Hash(),
		RemainingAccounts: f.RemainingAccounts,
	}
	if f.RequestHash != nil {
		msg.RequestHash = *f.RequestHash
	}
	if msg.Filler == (common.Address{}) {
		msg.Filler = f.Caller
	}
	return msg
}

// decodeFixture parses a fixture, picking the format from the file extension.
// YAML also covers JSON input.
func decodeFixture(name string, data []byte) (*Fixture, error) {
	fx := new(Fixture)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(fx); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case ".yaml", ".yml", ".json":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(fx); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported fixture format %q", name, ext)
	}
	return fx, nil
}

func loadFixture(file string) (*Fixture, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return decodeFixture(file, data)
}
