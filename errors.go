package storage

import "errors"

var (
	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")

	// ErrHostNotFound means the host reported that the addressed entry does not exist.
	ErrHostNotFound = errors.New("host reported entry not found")

	// ErrFunctionsEmpty is returned when New is called without any guest functions.
	ErrFunctionsEmpty = errors.New("at least one guest function is required")

	// ErrHandlerNil is returned when a registered guest function is nil.
	ErrHandlerNil = errors.New("function handler cannot be nil")
)
