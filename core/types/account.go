package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionAccount is caller-declared metadata for one account handed to a
// call. CallIndex ties the descriptor to the request call it belongs to. None
// of it is trusted until reconciled against the raw account handles.
type TransactionAccount struct {
	Pubkey     common.Address `json:"pubkey"     toml:"pubkey"     yaml:"pubkey"`
	IsSigner   bool           `json:"isSigner"   toml:"is_signer"  yaml:"is_signer"`
	IsWritable bool           `json:"isWritable" toml:"is_writable" yaml:"is_writable"`
	CallIndex  uint8          `json:"callIndex"  toml:"call_index" yaml:"call_index"`
}

// Meta converts the descriptor into the account meta passed to a callee.
func (a *TransactionAccount) Meta() AccountMeta {
	return AccountMeta{Address: a.Pubkey, IsSigner: a.IsSigner, IsWritable: a.IsWritable}
}

// AccountMeta is an account reference as seen by an invoked program.
type AccountMeta struct {
	Address    common.Address
	IsSigner   bool
	IsWritable bool
}

func (m AccountMeta) String() string {
	mode := "r"
	if m.IsWritable {
		mode = "w"
	}
	if m.IsSigner {
		mode += "s"
	}
	return fmt.Sprintf("%s(%s)", m.Address.Hex(), mode)
}

// FulfillmentInfo is the replay record written once per request hash.
type FulfillmentInfo struct {
	Timestamp uint64         `json:"timestamp"`
	Filler    common.Address `json:"filler"`
}
