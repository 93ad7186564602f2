package tagson

import (
	"fmt"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

// encodeFields builds the variant's field object, keys in declaration
// order.
func encodeFields[T any](v Variant[T], val T) (*jsonv.Object, error) {
	values, ok := v.Match(val)
	if !ok {
		return nil, fmt.Errorf("value does not match variant %s", v.Type.Name)
	}
	if len(values) != len(v.Fields) {
		return nil, fmt.Errorf("variant %s: matcher returned %d values for %d fields",
			v.Type.Name, len(values), len(v.Fields))
	}
	obj := jsonv.NewObject()
	for i, f := range v.Fields {
		fv, err := f.Codec.Encode(values[i])
		if err != nil {
			return nil, &FieldValueError{Field: f.Name, Err: err}
		}
		obj.Set(f.Name, fv)
	}
	return obj, nil
}

// decodeFields decodes the variant's fields from an object, looking each
// one up by name. Unrecognized keys are ignored; absent keys fail with
// MissingFieldError; a field value rejected by its codec fails with
// FieldValueError carrying the cause. Zero-field variants accept any
// object.
func decodeFields[T any](v Variant[T], input jsonv.Value) (T, error) {
	var zero T
	obj, ok := input.(*jsonv.Object)
	if !ok {
		return zero, &UnexpectedKindError{Want: jsonv.KindObject, Got: kindOf(input)}
	}
	values := make([]any, 0, len(v.Fields))
	for _, f := range v.Fields {
		fv, ok := obj.Get(f.Name)
		if !ok {
			return zero, &MissingFieldError{Field: f.Name}
		}
		dv, err := f.Codec.Decode(fv)
		if err != nil {
			return zero, &FieldValueError{Field: f.Name, Err: err}
		}
		values = append(values, dv)
	}
	return v.New(values)
}

type recordCodec[T any] struct {
	variant Variant[T]
	hooks   []func(v any) error
}

func (c recordCodec[T]) Encode(val T) (jsonv.Value, error) {
	obj, err := encodeFields(c.variant, val)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (c recordCodec[T]) Decode(v jsonv.Value) (T, error) {
	val, err := decodeFields(c.variant, v)
	if err != nil {
		return val, err
	}
	if err := runHooks(c.hooks, val); err != nil {
		var zero T
		return zero, err
	}
	return val, nil
}
