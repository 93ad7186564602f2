// Package jsonv provides an ordered JSON value model for codec derivation.
//
// Unlike map-based representations, objects keep their members in insertion
// order, so encoders built on top of jsonv produce deterministic output.
package jsonv

import "strconv"

// Kind identifies the JSON type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindNumber
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a single JSON value. The implementations are exactly Null, Bool,
// String, Number, Array, and *Object.
type Value interface {
	Kind() Kind
	jsonValue()
}

// Null is the JSON null value.
type Null struct{}

// Kind returns KindNull.
func (Null) Kind() Kind { return KindNull }

func (Null) jsonValue() {}

// Bool is a JSON boolean.
type Bool bool

// Kind returns KindBool.
func (Bool) Kind() Kind { return KindBool }

func (Bool) jsonValue() {}

// String is a JSON string.
type String string

// Kind returns KindString.
func (String) Kind() Kind { return KindString }

func (String) jsonValue() {}

// Number is a JSON number stored as its literal text, so integers survive
// round-trips without passing through float64.
type Number string

// Kind returns KindNumber.
func (Number) Kind() Kind { return KindNumber }

func (Number) jsonValue() {}

// Int returns the Number literal for i.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Uint returns the Number literal for u.
func Uint(u uint64) Number { return Number(strconv.FormatUint(u, 10)) }

// Float returns the Number literal for f.
func Float(f float64) Number { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// Int64 parses the literal as a signed integer.
func (n Number) Int64() (int64, error) { return strconv.ParseInt(string(n), 10, 64) }

// Uint64 parses the literal as an unsigned integer.
func (n Number) Uint64() (uint64, error) { return strconv.ParseUint(string(n), 10, 64) }

// Float64 parses the literal as a float.
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(string(n), 64) }

// Array is a JSON array.
type Array []Value

// Kind returns KindArray.
func (Array) Kind() Kind { return KindArray }

func (Array) jsonValue() {}
