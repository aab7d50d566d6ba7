package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Discriminator is the fixed tag selecting a program entry point.
type Discriminator [8]byte

// DefaultPrecheckDiscriminator is the entry point tag prefixed to precheck
// payloads by default.
var DefaultPrecheckDiscriminator = Discriminator{72, 49, 94, 66, 197, 0, 175, 219}

// MarshalText implements encoding.TextMarshaler.
func (d Discriminator) MarshalText() ([]byte, error) {
	return hexutil.Bytes(d[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Discriminator) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return err
	}
	if len(b) != len(d) {
		return fmt.Errorf("discriminator must be %d bytes, got %d", len(d), len(b))
	}
	copy(d[:], b)
	return nil
}

// DefaultConfig contains the default inbox settings, matching a devnet
// deployment. The inbox address has no default and must be set.
var DefaultConfig = Config{
	ChainID:               103,
	PrecheckDiscriminator: DefaultPrecheckDiscriminator,
}

// Config are the deployment parameters of an inbox.
type Config struct {
	// ChainID is the identifier of the chain this inbox fulfills requests on.
	ChainID uint64 `toml:",omitempty"`

	// Address is the identity of the inbox contract. Requests must name it as
	// their inbox, and it derives the fulfillment record addresses.
	Address common.Address `toml:",omitempty"`

	// PrecheckDiscriminator prefixes the payload handed to precheck programs.
	PrecheckDiscriminator Discriminator `toml:",omitempty"`
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.ChainID == 0 {
		return errors.New("inbox chain id not set")
	}
	if c.Address == (common.Address{}) {
		return errors.New("inbox address not set")
	}
	return nil
}
