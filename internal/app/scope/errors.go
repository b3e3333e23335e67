package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedSignature is returned when binding a function whose
	// signature cannot be guarded.
	ErrUnsupportedSignature = errors.New("unsupported signature")

	// ErrNoContainer is wrapped in an ActivationError when the resolver finds
	// no container for the invocation.
	ErrNoContainer = errors.New("no request container")

	errAborted = errors.New("goroutine exited during guarded call")
)

// ActivationError reports that the request scope could not be activated.
// The guarded operation was not run.
type ActivationError struct {
	Shape Shape
	Err   error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activate request scope (%s): %v", e.Shape, e.Err)
}

func (e *ActivationError) Unwrap() error { return e.Err }

// TerminationError reports that tearing down an owned request scope failed.
type TerminationError struct {
	Shape Shape
	Err   error
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("terminate request scope (%s): %v", e.Shape, e.Err)
}

func (e *TerminationError) Unwrap() error { return e.Err }

// IsActivationError reports whether err carries an ActivationError.
func IsActivationError(err error) bool {
	var target *ActivationError
	return errors.As(err, &target)
}

// IsTerminationError reports whether err carries a TerminationError.
func IsTerminationError(err error) bool {
	var target *TerminationError
	return errors.As(err, &target)
}
