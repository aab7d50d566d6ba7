package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// DiscriminatorLength is the length of the entry point tag prefixed to a
// precheck payload.
const DiscriminatorLength = 8

// ErrDiscriminatorMismatch is returned when a precheck payload does not start
// with the expected entry point tag.
var ErrDiscriminatorMismatch = errors.New("precheck discriminator mismatch")

// EncodePrecheckPayload builds the payload handed to a precheck program: the
// entry point tag followed by the RLP encoding of the request and caller.
func EncodePrecheckPayload(discriminator [DiscriminatorLength]byte, request *CrossChainRequest, caller common.Address) ([]byte, error) {
	enc, err := rlp.EncodeToBytes(&PrecheckData{Request: *request, Caller: caller})
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 0, DiscriminatorLength+len(enc))
	payload = append(payload, discriminator[:]...)
	return append(payload, enc...), nil
}

// DecodePrecheckPayload is the inverse of EncodePrecheckPayload.
func DecodePrecheckPayload(discriminator [DiscriminatorLength]byte, payload []byte) (*PrecheckData, error) {
	if len(payload) < DiscriminatorLength || !bytes.Equal(payload[:DiscriminatorLength], discriminator[:]) {
		return nil, ErrDiscriminatorMismatch
	}
	data := new(PrecheckData)
	if err := rlp.DecodeBytes(payload[DiscriminatorLength:], data); err != nil {
		return nil, fmt.Errorf("invalid precheck payload: %w", err)
	}
	return data, nil
}
