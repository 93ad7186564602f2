package tagson

import "github.com/gork-labs/tagson/pkg/jsonv"

// EncodeStrategy decides where a variant's discriminator lives in its
// encoded form.
type EncodeStrategy interface {
	// EncodeTag combines the discriminator with the variant's encoded
	// fields into the final object.
	EncodeTag(tag string, base *jsonv.Object) *jsonv.Object
}

// DecodeStrategy locates and checks the discriminator on decode. DecodeTag
// returns the JSON value the variant's field decoder must consume, or an
// error when the input does not carry this variant's discriminator.
type DecodeStrategy interface {
	DecodeTag(tag string, input jsonv.Value) (jsonv.Value, error)
}

// Strategy bundles both discriminator halves.
type Strategy interface {
	EncodeStrategy
	DecodeStrategy
}

// Pair combines an encode half with a decode half. The built-in strategies
// already implement both; Pair exists for callers mixing them.
func Pair(enc EncodeStrategy, dec DecodeStrategy) Strategy {
	return paired{EncodeStrategy: enc, DecodeStrategy: dec}
}

type paired struct {
	EncodeStrategy
	DecodeStrategy
}

// Nested returns the wrapping strategy: a variant encodes as an object with
// a single key equal to its discriminator, holding the field object.
//
//	{"Bar": {"s": "quux", "i": 42}}
func Nested() Strategy { return nested{} }

type nested struct{}

func (nested) EncodeTag(tag string, base *jsonv.Object) *jsonv.Object {
	return jsonv.WithKey(tag, base)
}

func (nested) DecodeTag(tag string, input jsonv.Value) (jsonv.Value, error) {
	obj, ok := input.(*jsonv.Object)
	if !ok {
		return nil, &UnexpectedKindError{Want: jsonv.KindObject, Got: kindOf(input)}
	}
	v, ok := obj.Get(tag)
	if !ok {
		return nil, &DiscriminatorNotFoundError{Tag: tag}
	}
	return v, nil
}

// TagCodec controls how the Flat strategy writes and reads the
// discriminator value itself.
type TagCodec interface {
	// EncodeTag returns the object fragment carrying the discriminator.
	EncodeTag(tag string) *jsonv.Object
	// DecodeTag extracts the discriminator from an input object.
	DecodeTag(obj *jsonv.Object) (string, error)
}

// FieldTag returns a TagCodec storing the discriminator as a string member
// under the given name.
func FieldTag(field string) TagCodec { return fieldTag{field: field} }

type fieldTag struct{ field string }

func (f fieldTag) EncodeTag(tag string) *jsonv.Object {
	return jsonv.WithKey(f.field, jsonv.String(tag))
}

func (f fieldTag) DecodeTag(obj *jsonv.Object) (string, error) {
	v, ok := obj.Get(f.field)
	if !ok {
		return "", &DiscriminatorNotFoundError{Field: f.field}
	}
	s, ok := v.(jsonv.String)
	if !ok {
		return "", &DiscriminatorNotFoundError{Field: f.field}
	}
	return string(s), nil
}

// DefaultTagField is the member name Flat uses unless configured otherwise.
const DefaultTagField = "type"

// FlatOption configures the Flat strategy.
type FlatOption func(*flat)

// WithTagField sets the member name carrying the discriminator.
func WithTagField(field string) FlatOption {
	return func(f *flat) { f.tag = FieldTag(field) }
}

// WithTagCodec replaces the tag codec entirely.
func WithTagCodec(tc TagCodec) FlatOption {
	return func(f *flat) { f.tag = tc }
}

// Flat returns the sibling-field strategy: the discriminator is merged into
// the variant's field object.
//
//	{"type": "Bar", "s": "quux", "i": 42}
//
// On encode, a field sharing the tag member's name wins the collision. On
// decode, the tag member is checked but not stripped: field decoding is
// permissive and ignores it.
func Flat(opts ...FlatOption) Strategy {
	f := flat{tag: FieldTag(DefaultTagField)}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

type flat struct{ tag TagCodec }

func (f flat) EncodeTag(tag string, base *jsonv.Object) *jsonv.Object {
	return jsonv.Merge(f.tag.EncodeTag(tag), base)
}

func (f flat) DecodeTag(tag string, input jsonv.Value) (jsonv.Value, error) {
	obj, ok := input.(*jsonv.Object)
	if !ok {
		return nil, &UnexpectedKindError{Want: jsonv.KindObject, Got: kindOf(input)}
	}
	got, err := f.tag.DecodeTag(obj)
	if err != nil {
		return nil, err
	}
	if got != tag {
		return nil, &DiscriminatorMismatchError{Want: tag, Got: got}
	}
	return input, nil
}
