// Package jsonx plugs derived codecs into github.com/go-json-experiment/json
// (json/v2) call sites, so a union type round-trips through ordinary
// json.Marshal and json.Unmarshal calls.
//
// Marshal targets must be addressed through the union type, e.g.
//
//	var in Shape = Square{Side: 42}
//	data, err := json.Marshal(&in, jsonx.Options(codec)...)
//
// so the type-driven marshaler dispatch sees the union rather than the
// concrete variant.
package jsonx

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/gork-labs/tagson/pkg/jsonv"
	"github.com/gork-labs/tagson/pkg/tagson"
)

// MarshalersFor adapts a derived codec into a marshaler list entry routing
// values of T through the codec.
func MarshalersFor[T any](c tagson.Codec[T]) *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, val T) error {
		v, err := c.Encode(val)
		if err != nil {
			return err
		}
		return jsonv.Write(enc, v)
	})
}

// UnmarshalersFor adapts a derived codec into an unmarshaler list entry
// routing *T targets through the codec.
func UnmarshalersFor[T any](c tagson.Codec[T]) *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, out *T) error {
		v, err := jsonv.Read(dec)
		if err != nil {
			return err
		}
		decoded, err := c.Decode(v)
		if err != nil {
			return err
		}
		*out = decoded
		return nil
	})
}

// Options pairs both halves for passing to json.Marshal and json.Unmarshal.
func Options[T any](c tagson.Codec[T]) []json.Options {
	return []json.Options{
		json.WithMarshalers(MarshalersFor(c)),
		json.WithUnmarshalers(UnmarshalersFor(c)),
	}
}
