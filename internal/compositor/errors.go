package compositor

import (
	"errors"
	"fmt"
)

// Compositor errors.
var (
	// ErrNoMemory indicates a protocol-facing allocation failed. It is
	// reported to the requesting client as an out-of-memory protocol
	// error; other clients and the repaint pipeline are unaffected.
	ErrNoMemory = errors.New("out of memory")

	// ErrTooManyOutputs indicates the dense output ID space is exhausted.
	ErrTooManyOutputs = errors.New("too many outputs")

	// ErrUnknownSurface indicates an operation referenced a surface the
	// compositor does not own.
	ErrUnknownSurface = errors.New("unknown surface")

	errMissingCollaborator = errors.New("not provided")
)

// InitError reports which component failed during compositor bring-up.
type InitError struct {
	Component string
	Err       error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("initializing %s: %v", e.Component, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error {
	return e.Err
}
