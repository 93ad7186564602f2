package tagson

import (
	"fmt"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

// Codec is a bidirectional JSON codec for T.
type Codec[T any] interface {
	Encode(v T) (jsonv.Value, error)
	Decode(v jsonv.Value) (T, error)
}

// ValueCodec is a type-erased codec, used where heterogeneous field codecs
// must live in one slice.
type ValueCodec interface {
	Encode(v any) (jsonv.Value, error)
	Decode(v jsonv.Value) (any, error)
}

// Erase adapts a typed codec into a ValueCodec, letting a derived codec
// serve as the field codec of an enclosing type.
func Erase[T any](c Codec[T]) ValueCodec { return erased[T]{c} }

type erased[T any] struct{ c Codec[T] }

func (e erased[T]) Encode(v any) (jsonv.Value, error) {
	tv, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("cannot encode %T", v)
	}
	return e.c.Encode(tv)
}

func (e erased[T]) Decode(v jsonv.Value) (any, error) {
	tv, err := e.c.Decode(v)
	if err != nil {
		return nil, err
	}
	return tv, nil
}

// FieldOf builds a Field from a typed codec.
func FieldOf[T any](name string, c Codec[T]) Field {
	return Field{Name: name, Codec: Erase(c)}
}
