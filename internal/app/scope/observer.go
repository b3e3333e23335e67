package scope

import "time"

// Observer receives lifecycle events from the guard. Shapes are passed by
// name. Implementations must be safe for concurrent use and must not block.
type Observer interface {
	ScopeActivated(shape string)
	ScopeTerminated(shape string, lifetime time.Duration, err error)
	ActivationFailed(shape string, err error)
}

type noopObserver struct{}

func (noopObserver) ScopeActivated(string)                         {}
func (noopObserver) ScopeTerminated(string, time.Duration, error) {}
func (noopObserver) ActivationFailed(string, error)               {}
