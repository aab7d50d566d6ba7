package types

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Call is a single sub-call of a cross-chain request. An empty Data marks a
// plain value transfer to To; otherwise To is invoked with Data as payload.
type Call struct {
	To    common.Address
	Data  []byte
	Value uint64
}

// IsTransfer reports whether the call is a plain value transfer.
func (c *Call) IsTransfer() bool { return len(c.Data) == 0 }

// CrossChainRequest is a request submitted on a source chain that asks for its
// calls to be executed on this chain. The field order is part of the canonical
// encoding and therefore of the request hash.
type CrossChainRequest struct {
	Requester            common.Address
	Calls                []Call
	DestinationChainID   uint64
	InboxContract        common.Address
	L2Oracle             common.Address
	L2OracleStorageKey   common.Hash
	RewardAsset          common.Address
	RewardAmount         uint64
	FinalityDelaySeconds uint64
	Nonce                uint64
	Expiry               uint64
	ExtraData            [][]byte
}

// EncodeRequest returns the canonical RLP encoding of the request.
func EncodeRequest(r *CrossChainRequest) ([]byte, error) {
	return rlp.EncodeToBytes(r)
}

// DecodeRequest parses a canonically encoded request.
func DecodeRequest(b []byte) (*CrossChainRequest, error) {
	r := new(CrossChainRequest)
	if err := rlp.DecodeBytes(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Hash returns the keccak256 hash of the canonical encoding. It is the request
// fingerprint used both to check request integrity and as the replay key.
func (r *CrossChainRequest) Hash() common.Hash {
	return rlpHash(r)
}

// Copy returns a deep copy of the request.
func (r *CrossChainRequest) Copy() *CrossChainRequest {
	cpy := *r
	if r.Calls != nil {
		cpy.Calls = make([]Call, len(r.Calls))
		for i, c := range r.Calls {
			cpy.Calls[i] = Call{To: c.To, Data: common.CopyBytes(c.Data), Value: c.Value}
		}
	}
	if r.ExtraData != nil {
		cpy.ExtraData = make([][]byte, len(r.ExtraData))
		for i, blob := range r.ExtraData {
			cpy.ExtraData[i] = common.CopyBytes(blob)
		}
	}
	return &cpy
}

// PrecheckData is the argument handed to a precheck program: the full request
// and the account that initiated the fulfillment.
type PrecheckData struct {
	Request CrossChainRequest
	Caller  common.Address
}

// hasherPool holds LegacyKeccak256 hashers for rlpHash.
var hasherPool = sync.Pool{
	New: func() interface{} { return crypto.NewKeccakState() },
}

// rlpHash encodes x and hashes the encoded bytes.
func rlpHash(x interface{}) (h common.Hash) {
	sha := hasherPool.Get().(crypto.KeccakState)
	defer hasherPool.Put(sha)
	sha.Reset()
	rlp.Encode(sha, x)
	sha.Read(h[:])
	return h
}
