package core

import "errors"

// List of errors rejecting a fulfillment. Every rejection rolls back all
// state changes made by the attempt.
var (
	// ErrNilRequest is returned if the message carries no request.
	ErrNilRequest = errors.New("nil request")

	// ErrInvalidChainId is returned if the request's destination chain is not
	// the chain this inbox is deployed on.
	ErrInvalidChainId = errors.New("invalid chain ID")

	// ErrInvalidInboxContract is returned if the request names a different
	// inbox contract.
	ErrInvalidInboxContract = errors.New("invalid inbox contract")

	// ErrInvalidRequestHash is returned if the claimed request hash does not
	// match the hash of the request.
	ErrInvalidRequestHash = errors.New("invalid request hash")

	// ErrInvalidPrecheckData is returned if the first extra data entry does
	// not hold a valid precheck contract word.
	ErrInvalidPrecheckData = errors.New("invalid precheck data")

	// ErrInvalidAccount is returned if declared account metadata does not
	// match the raw account handles at the same position.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrAlreadyFulfilled is returned if a fulfillment record already exists
	// for the request hash.
	ErrAlreadyFulfilled = errors.New("call already fulfilled")

	// ErrMissingTargetAccount is returned if the target of a plain transfer is
	// not among the raw account handles.
	ErrMissingTargetAccount = errors.New("missing target account")

	// ErrInsufficientFunds is returned if the caller cannot fund the escrow.
	ErrInsufficientFunds = errors.New("insufficient funds for transfer calls")

	// ErrValueOverflow is returned if the transfer values of a request do not
	// fit into 64 bits.
	ErrValueOverflow = errors.New("transfer value overflow")

	// ErrValueMismatch is returned if the value paid out of the escrow does
	// not equal the value pooled into it.
	ErrValueMismatch = errors.New("invalid value")
)
