// Package structson derives codec descriptors from ordinary Go structs via
// reflection, so unions of struct variants need no hand-written descriptor
// plumbing.
//
// Of builds a variant descriptor for one struct type, Union assembles a sum
// descriptor with dynamic-type dispatch, and the package registry lets
// encode and decode entry points resolve codecs from values alone. Variant
// types can steer their wire identity through the Discriminator interfaces.
package structson

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/gork-labs/tagson/pkg/jsonv"
	"github.com/gork-labs/tagson/pkg/tagson"
)

// VariantOption configures Of.
type VariantOption func(*variantConfig)

type variantConfig struct {
	codecs map[string]tagson.ValueCodec
}

// WithFieldCodec overrides the codec reflected for one field, addressed by
// its Go field name. Interface-typed and recursive fields have no reflected
// codec and require an override.
func WithFieldCodec(name string, c tagson.ValueCodec) VariantOption {
	return func(cfg *variantConfig) {
		if cfg.codecs == nil {
			cfg.codecs = make(map[string]tagson.ValueCodec)
		}
		cfg.codecs[name] = c
	}
}

// Of builds the variant descriptor for struct type V viewed as T. T is
// either the union's interface type (V must implement it) or V itself for
// record use.
//
// The field list comes from V's exported fields in declaration order,
// honoring the `json` tag for the wire name ("-" skips the field; options
// such as omitempty are ignored, every listed field is required). Per-field
// codecs are reflected from the field's kind: strings, bools, integers,
// floats, slices, string-keyed maps, pointers (null on the wire), and nested
// structs. Anything else needs WithFieldCodec.
func Of[T, V any](opts ...VariantOption) (tagson.Variant[T], error) {
	var cfg variantConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rt := reflect.TypeOf((*V)(nil)).Elem()
	tt := reflect.TypeOf((*T)(nil)).Elem()
	switch {
	case tt.Kind() == reflect.Interface:
		if !rt.Implements(tt) {
			return tagson.Variant[T]{}, &tagson.ConfigurationError{
				Detail: fmt.Sprintf("variant %s does not implement %s", rt, tt)}
		}
	case tt != rt:
		return tagson.Variant[T]{}, &tagson.ConfigurationError{
			Detail: fmt.Sprintf("variant %s does not match codec type %s", rt, tt)}
	}

	core, err := coreFor(rt, cfg.codecs, make(map[reflect.Type]bool))
	if err != nil {
		return tagson.Variant[T]{}, err
	}

	return tagson.Variant[T]{
		Type:   core.typeName(),
		Fields: core.descriptor(),
		New: func(values []any) (T, error) {
			var zero T
			rv, err := core.construct(values)
			if err != nil {
				return zero, err
			}
			return rv.Interface().(T), nil
		},
		Match: func(v T) ([]any, bool) {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || rv.Type() != rt {
				return nil, false
			}
			return core.match(rv), true
		},
	}, nil
}

// MustOf is Of, panicking on error. Intended for package-scope variable
// initialization where the types are fixed.
func MustOf[T, V any](opts ...VariantOption) tagson.Variant[T] {
	v, err := Of[T, V](opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// variantCore is the reflection-level half of a variant descriptor, shared
// between typed variants (Of) and the codecs of nested struct fields.
type variantCore struct {
	rt     reflect.Type
	fields []fieldSpec
}

type fieldSpec struct {
	name  string // wire name
	index int    // struct field index
	typ   reflect.Type
	codec tagson.ValueCodec
}

func coreFor(rt reflect.Type, overrides map[string]tagson.ValueCodec, building map[reflect.Type]bool) (*variantCore, error) {
	if rt.Kind() != reflect.Struct {
		return nil, &tagson.ConfigurationError{Detail: fmt.Sprintf("variant %s is not a struct", rt)}
	}
	if building[rt] {
		return nil, &tagson.ConfigurationError{
			Detail: fmt.Sprintf("recursive type %s requires an explicit field codec", rt)}
	}
	building[rt] = true
	defer delete(building, rt)

	core := &variantCore{rt: rt}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, skip := wireName(sf)
		if skip {
			continue
		}
		if sf.Anonymous && sf.Tag.Get("json") == "" {
			// Embedded fields are not flattened; they participate only
			// under an explicit json name.
			return nil, &tagson.ConfigurationError{
				Detail: fmt.Sprintf("%s.%s: embedded field needs a json tag", rt.Name(), sf.Name)}
		}
		codec, ok := overrides[sf.Name]
		if !ok {
			var err error
			codec, err = codecFor(sf.Type, building)
			if err != nil {
				return nil, fieldError(rt, sf, err)
			}
		}
		core.fields = append(core.fields, fieldSpec{name: name, index: i, typ: sf.Type, codec: codec})
	}
	return core, nil
}

func fieldError(rt reflect.Type, sf reflect.StructField, err error) error {
	if cfg, ok := err.(*tagson.ConfigurationError); ok {
		return &tagson.ConfigurationError{Detail: fmt.Sprintf("%s.%s: %s", rt.Name(), sf.Name, cfg.Detail)}
	}
	return err
}

func wireName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}
	return name, false
}

func (c *variantCore) typeName() tagson.TypeName {
	return tagson.TypeName{Name: c.rt.Name(), PkgPath: c.rt.PkgPath()}
}

func (c *variantCore) descriptor() []tagson.Field {
	fields := make([]tagson.Field, len(c.fields))
	for i, f := range c.fields {
		fields[i] = tagson.Field{Name: f.name, Codec: f.codec}
	}
	return fields
}

func (c *variantCore) match(rv reflect.Value) []any {
	values := make([]any, len(c.fields))
	for i, f := range c.fields {
		values[i] = rv.Field(f.index).Interface()
	}
	return values
}

func (c *variantCore) construct(values []any) (reflect.Value, error) {
	rv := reflect.New(c.rt).Elem()
	for i, f := range c.fields {
		if values[i] == nil {
			continue
		}
		val := reflect.ValueOf(values[i])
		if !val.Type().AssignableTo(f.typ) {
			if !val.Type().ConvertibleTo(f.typ) {
				return reflect.Value{}, fmt.Errorf("field %q: cannot use %T as %s", f.name, values[i], f.typ)
			}
			val = val.Convert(f.typ)
		}
		rv.Field(f.index).Set(val)
	}
	return rv, nil
}

// codecFor reflects a field codec from rt's kind. Codecs built here decode
// to exactly rt, so constructed values assign without conversion.
func codecFor(rt reflect.Type, building map[reflect.Type]bool) (tagson.ValueCodec, error) {
	switch rt.Kind() {
	case reflect.String:
		return stringCodec{rt: rt}, nil
	case reflect.Bool:
		return boolCodec{rt: rt}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intCodec{rt: rt}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintCodec{rt: rt}, nil
	case reflect.Float32, reflect.Float64:
		return floatCodec{rt: rt}, nil
	case reflect.Slice:
		elem, err := codecFor(rt.Elem(), building)
		if err != nil {
			return nil, err
		}
		return sliceCodec{rt: rt, elem: elem}, nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, &tagson.ConfigurationError{
				Detail: fmt.Sprintf("map type %s has a non-string key", rt)}
		}
		elem, err := codecFor(rt.Elem(), building)
		if err != nil {
			return nil, err
		}
		return mapCodec{rt: rt, elem: elem}, nil
	case reflect.Pointer:
		elem, err := codecFor(rt.Elem(), building)
		if err != nil {
			return nil, err
		}
		return ptrCodec{rt: rt, elem: elem}, nil
	case reflect.Struct:
		return structCodecFor(rt, building)
	case reflect.Interface:
		return nil, &tagson.ConfigurationError{
			Detail: fmt.Sprintf("interface type %s requires an explicit field codec", rt)}
	default:
		return nil, &tagson.ConfigurationError{
			Detail: fmt.Sprintf("unsupported field kind %s", rt.Kind())}
	}
}

// structCodecFor derives a record codec for a nested struct field. The
// derived Codec[any] carries the ValueCodec method set, so it slots straight
// into the enclosing descriptor.
func structCodecFor(rt reflect.Type, building map[reflect.Type]bool) (tagson.ValueCodec, error) {
	core, err := coreFor(rt, nil, building)
	if err != nil {
		return nil, err
	}
	return tagson.DeriveRecord(tagson.Variant[any]{
		Type:   core.typeName(),
		Fields: core.descriptor(),
		New: func(values []any) (any, error) {
			rv, err := core.construct(values)
			if err != nil {
				return nil, err
			}
			return rv.Interface(), nil
		},
		Match: func(v any) ([]any, bool) {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || rv.Type() != rt {
				return nil, false
			}
			return core.match(rv), true
		},
	})
}

type stringCodec struct{ rt reflect.Type }

func (c stringCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	return jsonv.String(rv.String()), nil
}

func (c stringCodec) Decode(v jsonv.Value) (any, error) {
	s, ok := v.(jsonv.String)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindString, Got: kindOf(v)}
	}
	rv := reflect.New(c.rt).Elem()
	rv.SetString(string(s))
	return rv.Interface(), nil
}

type boolCodec struct{ rt reflect.Type }

func (c boolCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	return jsonv.Bool(rv.Bool()), nil
}

func (c boolCodec) Decode(v jsonv.Value) (any, error) {
	b, ok := v.(jsonv.Bool)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindBool, Got: kindOf(v)}
	}
	rv := reflect.New(c.rt).Elem()
	rv.SetBool(bool(b))
	return rv.Interface(), nil
}

type intCodec struct{ rt reflect.Type }

func (c intCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	return jsonv.Int(rv.Int()), nil
}

func (c intCodec) Decode(v jsonv.Value) (any, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	i, err := n.Int64()
	if err != nil {
		return nil, fmt.Errorf("number %s is not an integer", string(n))
	}
	rv := reflect.New(c.rt).Elem()
	if rv.OverflowInt(i) {
		return nil, fmt.Errorf("number %s overflows %s", string(n), c.rt)
	}
	rv.SetInt(i)
	return rv.Interface(), nil
}

type uintCodec struct{ rt reflect.Type }

func (c uintCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	return jsonv.Uint(rv.Uint()), nil
}

func (c uintCodec) Decode(v jsonv.Value) (any, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	u, err := n.Uint64()
	if err != nil {
		return nil, fmt.Errorf("number %s is not an unsigned integer", string(n))
	}
	rv := reflect.New(c.rt).Elem()
	if rv.OverflowUint(u) {
		return nil, fmt.Errorf("number %s overflows %s", string(n), c.rt)
	}
	rv.SetUint(u)
	return rv.Interface(), nil
}

type floatCodec struct{ rt reflect.Type }

func (c floatCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	return jsonv.Float(rv.Float()), nil
}

func (c floatCodec) Decode(v jsonv.Value) (any, error) {
	n, ok := v.(jsonv.Number)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindNumber, Got: kindOf(v)}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	rv := reflect.New(c.rt).Elem()
	rv.SetFloat(f)
	return rv.Interface(), nil
}

type sliceCodec struct {
	rt   reflect.Type
	elem tagson.ValueCodec
}

func (c sliceCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	out := make(jsonv.Array, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev, err := c.elem.Encode(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (c sliceCodec) Decode(v jsonv.Value) (any, error) {
	arr, ok := v.(jsonv.Array)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindArray, Got: kindOf(v)}
	}
	out := reflect.MakeSlice(c.rt, 0, len(arr))
	for i, ev := range arr {
		e, err := c.elem.Decode(ev)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = reflect.Append(out, reflect.ValueOf(e))
	}
	return out.Interface(), nil
}

type mapCodec struct {
	rt   reflect.Type
	elem tagson.ValueCodec
}

func (c mapCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, rv.Len())
	byName := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		byName[k] = iter.Value()
	}
	sort.Strings(keys)
	obj := jsonv.NewObject()
	for _, k := range keys {
		ev, err := c.elem.Encode(byName[k].Interface())
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		obj.Set(k, ev)
	}
	return obj, nil
}

func (c mapCodec) Decode(v jsonv.Value) (any, error) {
	obj, ok := v.(*jsonv.Object)
	if !ok {
		return nil, &tagson.UnexpectedKindError{Want: jsonv.KindObject, Got: kindOf(v)}
	}
	out := reflect.MakeMapWithSize(c.rt, obj.Len())
	for _, m := range obj.Members() {
		e, err := c.elem.Decode(m.Value)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", m.Key, err)
		}
		key := reflect.New(c.rt.Key()).Elem()
		key.SetString(m.Key)
		out.SetMapIndex(key, reflect.ValueOf(e))
	}
	return out.Interface(), nil
}

type ptrCodec struct {
	rt   reflect.Type
	elem tagson.ValueCodec
}

func (c ptrCodec) Encode(v any) (jsonv.Value, error) {
	rv, err := valueOf(v, c.rt)
	if err != nil {
		return nil, err
	}
	if rv.IsNil() {
		return jsonv.Null{}, nil
	}
	return c.elem.Encode(rv.Elem().Interface())
}

func (c ptrCodec) Decode(v jsonv.Value) (any, error) {
	if _, ok := v.(jsonv.Null); ok {
		return reflect.Zero(c.rt).Interface(), nil
	}
	e, err := c.elem.Decode(v)
	if err != nil {
		return nil, err
	}
	out := reflect.New(c.rt.Elem())
	out.Elem().Set(reflect.ValueOf(e))
	return out.Interface(), nil
}

func valueOf(v any, rt reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("cannot encode nil as %s", rt)
	}
	if rv.Type() != rt {
		if !rv.Type().ConvertibleTo(rt) {
			return reflect.Value{}, fmt.Errorf("cannot encode %T as %s", v, rt)
		}
		rv = rv.Convert(rt)
	}
	return rv, nil
}

func kindOf(v jsonv.Value) jsonv.Kind {
	if v == nil {
		return jsonv.KindNull
	}
	return v.Kind()
}
