package jsonv

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// Marshal serializes v as compact JSON. Object members are written in their
// stored order.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)
	if err := Write(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a single JSON value, preserving object member order.
// Trailing data after the value is an error.
func Unmarshal(data []byte) (Value, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := Read(dec)
	if err != nil {
		return nil, err
	}
	switch _, err := dec.ReadToken(); {
	case err == nil:
		return nil, errors.New("unexpected data after top-level value")
	case !errors.Is(err, io.EOF):
		return nil, err
	}
	return v, nil
}

// Write streams v as tokens through enc.
func Write(enc *jsontext.Encoder, v Value) error {
	switch v := v.(type) {
	case Null:
		return enc.WriteToken(jsontext.Null)
	case Bool:
		if v {
			return enc.WriteToken(jsontext.True)
		}
		return enc.WriteToken(jsontext.False)
	case String:
		return enc.WriteToken(jsontext.String(string(v)))
	case Number:
		if jsontext.Value(v).Kind() != '0' {
			return fmt.Errorf("invalid number literal %q", string(v))
		}
		return enc.WriteValue(jsontext.Value(v))
	case Array:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, elem := range v {
			if err := Write(enc, elem); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case *Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range v.Members() {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}
			if err := Write(enc, m.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case nil:
		return errors.New("cannot write nil value")
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// Read consumes the next JSON value from dec.
func Read(dec *jsontext.Decoder) (Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return Null{}, nil
	case 't':
		return Bool(true), nil
	case 'f':
		return Bool(false), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		return Number(tok.String()), nil
	case '[':
		arr := Array{}
		for dec.PeekKind() != ']' {
			elem, err := Read(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return arr, nil
	case '{':
		obj := &Object{}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}
			val, err := Read(dec)
			if err != nil {
				return nil, err
			}
			obj.members = append(obj.members, Member{Key: name.String(), Value: val})
		}
		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// Text returns v as compact JSON, or "<invalid>" when v cannot be written.
// Intended for diagnostics.
func Text(v Value) string {
	data, err := Marshal(v)
	if err != nil {
		return "<invalid>"
	}
	return string(data)
}
