package scope

import (
	"context"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// DefaultClassifierCacheSize bounds the number of memoized signatures.
const DefaultClassifierCacheSize = 512

// Shape selects the strategy used to guard an operation.
type Shape int

const (
	// ShapeDirect guards a synchronous call.
	ShapeDirect Shape = iota

	// ShapeFuture guards an eagerly started *async.Future.
	ShapeFuture

	// ShapeSingle guards a cold async.Single per subscription.
	ShapeSingle

	// ShapeStream guards a cold async.Stream per subscription.
	ShapeStream
)

func (s Shape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeFuture:
		return "future"
	case ShapeSingle:
		return "single"
	case ShapeStream:
		return "stream"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

var (
	kindedType  = reflect.TypeFor[async.Kinded]()
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// ShapeOf classifies a result type. Anything that is not one of the async
// handle types is Direct.
func ShapeOf(t reflect.Type) Shape {
	if t == nil || t.Kind() == reflect.Interface || !t.Implements(kindedType) {
		return ShapeDirect
	}

	// A pointer to a value-receiver handle would need dereferencing.
	if t.Kind() == reflect.Pointer && t.Elem().Implements(kindedType) {
		return ShapeDirect
	}

	zero := reflect.Zero(t).Interface()
	if !async.IsHandle(zero) {
		return ShapeDirect
	}

	shape, _ := shapeFromKind(async.KindOf(zero))

	return shape
}

func shapeFromKind(k async.Kind) (Shape, bool) {
	switch k {
	case async.KindFuture:
		return ShapeFuture, true
	case async.KindSingle:
		return ShapeSingle, true
	case async.KindStream:
		return ShapeStream, true
	default:
		return ShapeDirect, false
	}
}

// signature describes how a bound function returns its result.
type signature struct {
	shape     Shape
	valueType reflect.Type // nil when the function only returns error
	hasErr    bool
	proto     any // zero handle for async shapes
}

// Classifier memoizes the signature analysis of guarded functions.
type Classifier struct {
	cache *lru.Cache[reflect.Type, signature]
}

// NewClassifier creates a classifier remembering up to size function types.
func NewClassifier(size int) (*Classifier, error) {
	if size <= 0 {
		size = DefaultClassifierCacheSize
	}

	cache, err := lru.New[reflect.Type, signature](size)
	if err != nil {
		return nil, fmt.Errorf("create classifier cache: %w", err)
	}

	return &Classifier{cache: cache}, nil
}

// Classify returns the shape of the function type ft.
func (c *Classifier) Classify(ft reflect.Type) (Shape, error) {
	sig, err := c.signature(ft)

	return sig.shape, err
}

func (c *Classifier) signature(ft reflect.Type) (signature, error) {
	if sig, ok := c.cache.Get(ft); ok {
		return sig, nil
	}

	sig, err := analyze(ft)
	if err != nil {
		return signature{}, err
	}

	c.cache.Add(ft, sig)

	return sig, nil
}

// analyze accepts func(ctx, ...) error, func(ctx, ...) (T, error) and
// func(ctx, ...) H where H is an async handle.
func analyze(ft reflect.Type) (signature, error) {
	if ft == nil || ft.Kind() != reflect.Func {
		return signature{}, fmt.Errorf("%w: %v is not a function", ErrUnsupportedSignature, ft)
	}

	if ft.NumIn() == 0 || ft.In(0) != contextType {
		return signature{}, fmt.Errorf("%w: %v must take context.Context first", ErrUnsupportedSignature, ft)
	}

	var sig signature

	switch ft.NumOut() {
	case 1:
		if ft.Out(0) == errorType {
			sig.hasErr = true
		} else {
			sig.valueType = ft.Out(0)
		}
	case 2:
		if ft.Out(1) != errorType {
			return signature{}, fmt.Errorf("%w: %v must return error last", ErrUnsupportedSignature, ft)
		}

		sig.valueType, sig.hasErr = ft.Out(0), true
	default:
		return signature{}, fmt.Errorf("%w: %v must return one or two results", ErrUnsupportedSignature, ft)
	}

	sig.shape = ShapeOf(sig.valueType)

	if sig.shape == ShapeDirect {
		if !sig.hasErr {
			return signature{}, fmt.Errorf("%w: %v has no failure channel", ErrUnsupportedSignature, ft)
		}

		return sig, nil
	}

	sig.proto = reflect.Zero(sig.valueType).Interface()

	return sig, nil
}
