package tagson

import (
	"fmt"
	"sort"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

// StringCodec returns the codec for Go strings.
func StringCodec() Codec[string] { return stringCodec{} }

type stringCodec struct{}

func (stringCodec) Encode(v string) (jsonv.Value, error) { return jsonv.String(v), nil }

func (stringCodec) Decode(v jsonv.Value) (string, error) {
	s, ok := v.(jsonv.String)
	if !ok {
		return "", &UnexpectedKindError{Want: jsonv.KindString, Got: kindOf(v)}
	}
	return string(s), nil
}

// BoolCodec returns the codec for Go bools.
func BoolCodec() Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) Encode(v bool) (jsonv.Value, error) { return jsonv.Bool(v), nil }

func (boolCodec) Decode(v jsonv.Value) (bool, error) {
	b, ok := v.(jsonv.Bool)
	if !ok {
		return false, &UnexpectedKindError{Want: jsonv.KindBool, Got: kindOf(v)}
	}
	return bool(b), nil
}

// IntCodec returns the codec for Go ints.
func IntCodec() Codec[int] { return intCodec{} }

type intCodec struct{}

func (intCodec) Encode(v int) (jsonv.Value, error) { return jsonv.Int(int64(v)), nil }

func (intCodec) Decode(v jsonv.Value) (int, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return 0, &UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("number %s is not an integer", string(n))
	}
	return int(i), nil
}

// Int64Codec returns the codec for int64.
func Int64Codec() Codec[int64] { return int64Codec{} }

type int64Codec struct{}

func (int64Codec) Encode(v int64) (jsonv.Value, error) { return jsonv.Int(v), nil }

func (int64Codec) Decode(v jsonv.Value) (int64, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return 0, &UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	i, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("number %s is not an int64", string(n))
	}
	return i, nil
}

// Uint64Codec returns the codec for uint64.
func Uint64Codec() Codec[uint64] { return uint64Codec{} }

type uint64Codec struct{}

func (uint64Codec) Encode(v uint64) (jsonv.Value, error) { return jsonv.Uint(v), nil }

func (uint64Codec) Decode(v jsonv.Value) (uint64, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return 0, &UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	u, err := n.Uint64()
	if err != nil {
		return 0, fmt.Errorf("number %s is not a uint64", string(n))
	}
	return u, nil
}

// Float64Codec returns the codec for float64.
func Float64Codec() Codec[float64] { return float64Codec{} }

type float64Codec struct{}

func (float64Codec) Encode(v float64) (jsonv.Value, error) { return jsonv.Float(v), nil }

func (float64Codec) Decode(v jsonv.Value) (float64, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return 0, &UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	return n.Float64()
}

// SliceCodec returns the codec for slices of E, encoding to a JSON array.
func SliceCodec[E any](elem Codec[E]) Codec[[]E] { return sliceCodec[E]{elem: elem} }

type sliceCodec[E any] struct{ elem Codec[E] }

func (c sliceCodec[E]) Encode(v []E) (jsonv.Value, error) {
	out := make(jsonv.Array, 0, len(v))
	for i, e := range v {
		ev, err := c.elem.Encode(e)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (c sliceCodec[E]) Decode(v jsonv.Value) ([]E, error) {
	arr, ok := v.(jsonv.Array)
	if !ok {
		return nil, &UnexpectedKindError{Want: jsonv.KindArray, Got: kindOf(v)}
	}
	out := make([]E, 0, len(arr))
	for i, ev := range arr {
		e, err := c.elem.Decode(ev)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// MapCodec returns the codec for string-keyed maps of V. Keys are encoded
// in sorted order so output stays deterministic.
func MapCodec[V any](elem Codec[V]) Codec[map[string]V] { return mapCodec[V]{elem: elem} }

type mapCodec[V any] struct{ elem Codec[V] }

func (c mapCodec[V]) Encode(v map[string]V) (jsonv.Value, error) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := jsonv.NewObject()
	for _, k := range keys {
		ev, err := c.elem.Encode(v[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		obj.Set(k, ev)
	}
	return obj, nil
}

func (c mapCodec[V]) Decode(v jsonv.Value) (map[string]V, error) {
	obj, ok := v.(*jsonv.Object)
	if !ok {
		return nil, &UnexpectedKindError{Want: jsonv.KindObject, Got: kindOf(v)}
	}
	out := make(map[string]V, obj.Len())
	for _, m := range obj.Members() {
		e, err := c.elem.Decode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", m.Key, err)
		}
		out[m.Key] = e
	}
	return out, nil
}

// PtrCodec returns the codec for *E, mapping nil to JSON null.
func PtrCodec[E any](elem Codec[E]) Codec[*E] { return ptrCodec[E]{elem: elem} }

type ptrCodec[E any] struct{ elem Codec[E] }

func (c ptrCodec[E]) Encode(v *E) (jsonv.Value, error) {
	if v == nil {
		return jsonv.Null{}, nil
	}
	return c.elem.Encode(*v)
}

func (c ptrCodec[E]) Decode(v jsonv.Value) (*E, error) {
	if _, ok := v.(jsonv.Null); ok {
		return nil, nil
	}
	e, err := c.elem.Decode(v)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// RawCodec returns a passthrough codec exposing the JSON value unchanged.
func RawCodec() Codec[jsonv.Value] { return rawCodec{} }

type rawCodec struct{}

func (rawCodec) Encode(v jsonv.Value) (jsonv.Value, error) {
	if v == nil {
		return nil, fmt.Errorf("nil json value")
	}
	return v, nil
}

func (rawCodec) Decode(v jsonv.Value) (jsonv.Value, error) { return v, nil }
