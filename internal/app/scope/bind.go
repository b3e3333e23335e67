package scope

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// Bind wraps fn so that every call runs under the guard. fn must take a
// context.Context first and return error, (T, error), or a single async
// handle; (H, error) with H an async handle is accepted too and the error
// result of the wrapper is then always nil. The shape is classified once,
// here.
func Bind[F any](g *Guard, fn F) (F, error) {
	ft := reflect.TypeFor[F]()

	sig, err := g.classifier.signature(ft)
	if err != nil {
		return fn, err
	}

	fv := reflect.ValueOf(fn)
	if fv.IsNil() {
		return fn, fmt.Errorf("%w: nil %v", ErrUnsupportedSignature, ft)
	}

	wrapped := reflect.MakeFunc(ft, func(args []reflect.Value) []reflect.Value {
		ctx, _ := args[0].Interface().(context.Context)
		if ctx == nil {
			ctx = context.Background()
		}

		proceed := func(ctx context.Context) (any, error) {
			in := make([]reflect.Value, len(args))
			copy(in, args)
			in[0] = reflect.ValueOf(&ctx).Elem()

			if ft.IsVariadic() {
				return sig.split(fv.CallSlice(in))
			}

			return sig.split(fv.Call(in))
		}

		if sig.shape == ShapeDirect {
			v, err := Call(ctx, g, proceed)
			return sig.join(v, err)
		}

		h, err := g.Intercept(ctx, Invocation{Shape: sig.shape, Result: sig.proto, Proceed: proceed})
		if err != nil {
			h = async.FailedLike(sig.proto, err)
		}

		return sig.join(h, nil)
	})

	return wrapped.Interface().(F), nil
}

func (s signature) split(out []reflect.Value) (any, error) {
	var (
		v   any
		err error
	)

	if s.valueType != nil {
		v = out[0].Interface()
	}

	if s.hasErr {
		err, _ = out[len(out)-1].Interface().(error)
	}

	return v, err
}

// join builds the wrapper's results. Async shapes always pass a nil err.
func (s signature) join(v any, err error) []reflect.Value {
	out := make([]reflect.Value, 0, 2)

	if s.valueType != nil {
		rv := reflect.New(s.valueType).Elem()
		if v != nil {
			rv.Set(reflect.ValueOf(v))
		}

		out = append(out, rv)
	}

	if s.hasErr {
		rv := reflect.New(errorType).Elem()
		if err != nil {
			rv.Set(reflect.ValueOf(err))
		}

		out = append(out, rv)
	}

	return out
}
