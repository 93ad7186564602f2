package tagson

import (
	"errors"
	"strings"
	"testing"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

func TestNestedEncodeTag(t *testing.T) {
	base := jsonv.NewObject(jsonv.Member{Key: "s", Value: jsonv.String("quux")})
	got := Nested().EncodeTag("Bar", base)

	data, err := jsonv.Marshal(got)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"Bar":{"s":"quux"}}` {
		t.Errorf("EncodeTag() = %s", data)
	}
}

func TestNestedDecodeTag(t *testing.T) {
	base := jsonv.NewObject(jsonv.Member{Key: "s", Value: jsonv.String("quux")})
	input := jsonv.WithKey("Bar", base)

	payload, err := Nested().DecodeTag("Bar", input)
	if err != nil {
		t.Fatalf("DecodeTag() error = %v", err)
	}
	if !jsonv.Equal(payload, base) {
		t.Errorf("DecodeTag() payload = %s", jsonv.Text(payload))
	}

	_, err = Nested().DecodeTag("Baz", input)
	var notFound *DiscriminatorNotFoundError
	if !errors.As(err, &notFound) || notFound.Tag != "Baz" {
		t.Errorf("DecodeTag(missing key) error = %v, want DiscriminatorNotFoundError{Tag: Baz}", err)
	}

	_, err = Nested().DecodeTag("Bar", jsonv.String("nope"))
	var kind *UnexpectedKindError
	if !errors.As(err, &kind) || kind.Got != jsonv.KindString {
		t.Errorf("DecodeTag(non-object) error = %v, want UnexpectedKindError", err)
	}
}

func TestFlatEncodeTag(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		base     *jsonv.Object
		want     string
	}{
		{
			name:     "default tag field leads",
			strategy: Flat(),
			base: jsonv.NewObject(
				jsonv.Member{Key: "s", Value: jsonv.String("quux")},
				jsonv.Member{Key: "i", Value: jsonv.Int(42)},
			),
			want: `{"type":"Bar","s":"quux","i":42}`,
		},
		{
			name:     "custom tag field",
			strategy: Flat(WithTagField("kind")),
			base:     jsonv.NewObject(jsonv.Member{Key: "s", Value: jsonv.String("quux")}),
			want:     `{"kind":"Bar","s":"quux"}`,
		},
		{
			name:     "base wins tag field collision",
			strategy: Flat(),
			base:     jsonv.NewObject(jsonv.Member{Key: "type", Value: jsonv.String("custom")}),
			want:     `{"type":"custom"}`,
		},
		{
			name:     "zero-field base",
			strategy: Flat(),
			base:     jsonv.NewObject(),
			want:     `{"type":"Bar"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.strategy.EncodeTag("Bar", tt.base)
			data, err := jsonv.Marshal(got)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("EncodeTag() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestFlatDecodeTag(t *testing.T) {
	input := jsonv.NewObject(
		jsonv.Member{Key: "type", Value: jsonv.String("Bar")},
		jsonv.Member{Key: "s", Value: jsonv.String("quux")},
	)

	payload, err := Flat().DecodeTag("Bar", input)
	if err != nil {
		t.Fatalf("DecodeTag() error = %v", err)
	}
	// The tag member is not stripped: the payload is the input itself.
	if payload != jsonv.Value(input) {
		t.Error("DecodeTag() must return the input object unchanged")
	}

	_, err = Flat().DecodeTag("Baz", input)
	var mismatch *DiscriminatorMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("DecodeTag(wrong tag) error = %v, want DiscriminatorMismatchError", err)
	}
	if mismatch.Want != "Baz" || mismatch.Got != "Bar" {
		t.Errorf("mismatch = want %q got %q", mismatch.Want, mismatch.Got)
	}

	var notFound *DiscriminatorNotFoundError
	_, err = Flat().DecodeTag("Bar", jsonv.NewObject(jsonv.Member{Key: "s", Value: jsonv.String("x")}))
	if !errors.As(err, &notFound) || notFound.Field != "type" {
		t.Errorf("DecodeTag(no tag member) error = %v, want DiscriminatorNotFoundError{Field: type}", err)
	}

	_, err = Flat().DecodeTag("Bar", jsonv.NewObject(jsonv.Member{Key: "type", Value: jsonv.Int(1)}))
	if !errors.As(err, &notFound) {
		t.Errorf("DecodeTag(non-string tag) error = %v, want DiscriminatorNotFoundError", err)
	}

	_, err = Flat().DecodeTag("Bar", jsonv.Array{})
	var kind *UnexpectedKindError
	if !errors.As(err, &kind) {
		t.Errorf("DecodeTag(non-object) error = %v, want UnexpectedKindError", err)
	}
}

// prefixTag stores the discriminator under a fixed member with a namespace
// prefix, exercising the TagCodec seam.
type prefixTag struct{}

func (prefixTag) EncodeTag(tag string) *jsonv.Object {
	return jsonv.WithKey("@type", jsonv.String("ns:"+tag))
}

func (prefixTag) DecodeTag(obj *jsonv.Object) (string, error) {
	v, ok := obj.Get("@type")
	if !ok {
		return "", &DiscriminatorNotFoundError{Field: "@type"}
	}
	s, ok := v.(jsonv.String)
	if !ok || !strings.HasPrefix(string(s), "ns:") {
		return "", &DiscriminatorNotFoundError{Field: "@type"}
	}
	return strings.TrimPrefix(string(s), "ns:"), nil
}

func TestFlatWithTagCodec(t *testing.T) {
	st := Flat(WithTagCodec(prefixTag{}))

	out := st.EncodeTag("Bar", jsonv.NewObject(jsonv.Member{Key: "i", Value: jsonv.Int(1)}))
	data, err := jsonv.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"@type":"ns:Bar","i":1}` {
		t.Errorf("EncodeTag() = %s", data)
	}

	if _, err := st.DecodeTag("Bar", out); err != nil {
		t.Errorf("DecodeTag() error = %v", err)
	}
	if _, err := st.DecodeTag("Baz", out); err == nil {
		t.Error("DecodeTag() with wrong tag should fail")
	}
}

func TestPair(t *testing.T) {
	// A strategy assembled from separately-constructed halves behaves like
	// the matching built-in.
	st := Pair(Flat(), Flat())
	c := mustDerive(widgetSum(), WithStrategy(st))

	v, err := c.Encode(barWidget{S: "quux", I: 42})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := c.Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != widget(barWidget{S: "quux", I: 42}) {
		t.Errorf("round trip = %#v", got)
	}
}
