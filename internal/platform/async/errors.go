package async

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrStop is returned by a stream consumer to cancel its subscription.
	// Subscribe reports a stop as a normal return.
	ErrStop = errors.New("async: consumer stopped")

	// ErrNilHandle is the failure carried by a nil or zero-value future,
	// single or stream.
	ErrNilHandle = errors.New("async: nil handle")

	// ErrShapeMismatch is the failure carried when a deferred factory returns
	// a value whose concrete type differs from the declared one.
	ErrShapeMismatch = errors.New("async: result shape mismatch")
)

// PanicError is a recovered panic converted into an ordinary failure.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError captures the current stack for a recovered value.
func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}

	return nil
}

// IsPanic reports whether err carries a recovered panic.
func IsPanic(err error) bool {
	var panicErr *PanicError

	return errors.As(err, &panicErr)
}
