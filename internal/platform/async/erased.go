package async

import (
	"context"
	"fmt"
)

// Kind identifies the shape of a deferred result.
type Kind int

const (
	// KindNone marks a value that is not a deferred result.
	KindNone Kind = iota

	// KindFuture marks *Future values.
	KindFuture

	// KindSingle marks Single values.
	KindSingle

	// KindStream marks Stream values.
	KindStream
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindFuture:
		return "future"
	case KindSingle:
		return "single"
	case KindStream:
		return "stream"
	default:
		return "none"
	}
}

// Kinded is implemented by every deferred result type. Kind must not
// dereference its receiver so that zero values and nil pointers report too.
type Kinded interface {
	Kind() Kind
}

type handle interface {
	Kinded
	failedLike(err error) any
	finallyLike(hook func(error) error) any
}

type lazy interface {
	handle
	deferLike(factory func(ctx context.Context) any) any
}

// KindOf reports the shape of v, or KindNone.
func KindOf(v any) Kind {
	if k, ok := v.(Kinded); ok {
		return k.Kind()
	}

	return KindNone
}

// IsHandle reports whether v is one of the package's deferred result types.
func IsHandle(v any) bool {
	_, ok := v.(handle)
	return ok
}

// FailedLike returns a value of proto's concrete type that fails with err.
// proto may be a zero value or nil pointer of that type.
func FailedLike(proto any, err error) any {
	return mustHandle(proto).failedLike(err)
}

// FinallyLike attaches hook as the termination finalizer of v and returns
// the finalized value, which has v's concrete type.
func FinallyLike(v any, hook func(cause error) error) any {
	return mustHandle(v).finallyLike(hook)
}

// DeferLike returns a cold value of proto's concrete type whose every
// subscription calls factory and subscribes to what it returns. Only Single
// and Stream prototypes are lazy.
func DeferLike(proto any, factory func(ctx context.Context) any) any {
	l, ok := proto.(lazy)
	if !ok {
		panic(fmt.Sprintf("async: %T cannot be deferred", proto))
	}

	return l.deferLike(factory)
}

func mustHandle(v any) handle {
	h, ok := v.(handle)
	if !ok {
		panic(fmt.Sprintf("async: %T is not a deferred result", v))
	}

	return h
}
