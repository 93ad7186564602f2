package tagson

import (
	"errors"
	"strings"
	"testing"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

func TestStringCodec(t *testing.T) {
	c := StringCodec()

	v, err := c.Encode("quux")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := c.Decode(v)
	if err != nil || got != "quux" {
		t.Errorf("Decode() = %q, %v", got, err)
	}

	_, err = c.Decode(jsonv.Int(1))
	var kind *UnexpectedKindError
	if !errors.As(err, &kind) || kind.Want != jsonv.KindString {
		t.Errorf("Decode(number) error = %v", err)
	}
}

func TestIntCodec(t *testing.T) {
	c := IntCodec()

	v, err := c.Encode(-42)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got, err := c.Decode(v); err != nil || got != -42 {
		t.Errorf("Decode() = %d, %v", got, err)
	}

	if _, err := c.Decode(jsonv.Number("1.5")); err == nil {
		t.Error("Decode(1.5) should fail for an int codec")
	}
	if _, err := c.Decode(jsonv.Bool(true)); err == nil {
		t.Error("Decode(bool) should fail")
	}
}

func TestUint64CodecRejectsNegative(t *testing.T) {
	c := Uint64Codec()
	if _, err := c.Decode(jsonv.Number("-1")); err == nil {
		t.Error("Decode(-1) should fail for a uint64 codec")
	}
}

func TestFloat64CodecAcceptsIntegerLiteral(t *testing.T) {
	c := Float64Codec()
	got, err := c.Decode(jsonv.Number("42"))
	if err != nil || got != 42 {
		t.Errorf("Decode(42) = %v, %v", got, err)
	}
}

func TestSliceCodec(t *testing.T) {
	c := SliceCodec(IntCodec())

	v, err := c.Encode([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := jsonv.Text(v); got != `[1,2,3]` {
		t.Errorf("Encode() = %s", got)
	}

	got, err := c.Decode(v)
	if err != nil || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("Decode() = %v, %v", got, err)
	}

	// Element failures carry the index.
	_, err = c.Decode(jsonv.Array{jsonv.Int(1), jsonv.Bool(true)})
	if err == nil || !strings.Contains(err.Error(), "index 1") {
		t.Errorf("Decode() error = %v, want index-qualified failure", err)
	}

	if _, err := c.Decode(jsonv.String("nope")); err == nil {
		t.Error("Decode(string) should fail")
	}
}

func TestMapCodecSortsKeys(t *testing.T) {
	c := MapCodec(IntCodec())

	v, err := c.Encode(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := jsonv.Text(v); got != `{"a":1,"b":2,"c":3}` {
		t.Errorf("Encode() = %s, want sorted keys", got)
	}

	got, err := c.Decode(v)
	if err != nil || got["b"] != 2 {
		t.Errorf("Decode() = %v, %v", got, err)
	}

	// Value failures carry the key.
	_, err = c.Decode(jsonv.NewObject(jsonv.Member{Key: "a", Value: jsonv.Bool(true)}))
	if err == nil || !strings.Contains(err.Error(), `key "a"`) {
		t.Errorf("Decode() error = %v, want key-qualified failure", err)
	}
}

func TestPtrCodec(t *testing.T) {
	c := PtrCodec(StringCodec())

	v, err := c.Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	if v.Kind() != jsonv.KindNull {
		t.Errorf("Encode(nil) = %s, want null", jsonv.Text(v))
	}
	got, err := c.Decode(jsonv.Null{})
	if err != nil || got != nil {
		t.Errorf("Decode(null) = %v, %v", got, err)
	}

	s := "quux"
	v, err = c.Encode(&s)
	if err != nil {
		t.Fatalf("Encode(&s) error = %v", err)
	}
	got, err = c.Decode(v)
	if err != nil || got == nil || *got != "quux" {
		t.Errorf("Decode() = %v, %v", got, err)
	}
}

func TestRawCodec(t *testing.T) {
	c := RawCodec()

	in := jsonv.WithKey("anything", jsonv.Array{jsonv.Null{}})
	v, err := c.Encode(in)
	if err != nil || !jsonv.Equal(v, in) {
		t.Errorf("Encode() = %v, %v", v, err)
	}
	got, err := c.Decode(in)
	if err != nil || !jsonv.Equal(got, in) {
		t.Errorf("Decode() = %v, %v", got, err)
	}

	if _, err := c.Encode(nil); err == nil {
		t.Error("Encode(nil) should fail")
	}
}
