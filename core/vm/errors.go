package vm

import "errors"

var (
	// ErrNotExecutable is returned when the invocation target is not a
	// program known to the invoker.
	ErrNotExecutable = errors.New("target is not executable")

	// ErrAccountNotPermitted is returned when a program touches an account
	// that was not handed to it, or writes to an account handed read-only.
	ErrAccountNotPermitted = errors.New("account not permitted")

	// ErrExecutionReverted is returned when an EVM callee reverts.
	ErrExecutionReverted = errors.New("execution reverted")
)
