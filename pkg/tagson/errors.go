package tagson

import (
	"fmt"
	"strings"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

// DiscriminatorNotFoundError reports input carrying no usable discriminator
// for the attempted variant. Nested sets Tag (the wrapper key it looked
// for); Flat sets Field (the member name its tag codec looked for).
type DiscriminatorNotFoundError struct {
	Tag   string
	Field string
}

func (e *DiscriminatorNotFoundError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("discriminator field %q not found", e.Field)
	}
	return fmt.Sprintf("discriminator key %q not found", e.Tag)
}

// DiscriminatorMismatchError reports a readable tag value naming a different
// variant. Only the Flat strategy produces it: under Nested the key itself
// is the tag, so absence is the only failure mode.
type DiscriminatorMismatchError struct {
	Want string
	Got  string
}

func (e *DiscriminatorMismatchError) Error() string {
	return fmt.Sprintf("discriminator mismatch: want %q, got %q", e.Want, e.Got)
}

// MissingFieldError reports a required field absent from the input object.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// FieldValueError reports a field whose value failed its codec. Nested
// occurrences qualify the full field path.
type FieldValueError struct {
	Field string
	Err   error
}

func (e *FieldValueError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldValueError) Unwrap() error { return e.Err }

// VariantAttempt records one variant's decode failure under its wire name.
type VariantAttempt struct {
	Variant string
	Err     error
}

// NoVariantMatchedError reports that every variant of a sum rejected the
// input. Attempts holds each variant's failure in declaration order.
type NoVariantMatchedError struct {
	Attempts []VariantAttempt
}

func (e *NoVariantMatchedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no variant matched (%d attempted)", len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s: %v", a.Variant, a.Err)
	}
	return b.String()
}

// Unwrap exposes every attempt's error to errors.Is and errors.As.
func (e *NoVariantMatchedError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// UnexpectedKindError reports input of the wrong JSON kind, e.g. an array
// where an object is required.
type UnexpectedKindError struct {
	Want jsonv.Kind
	Got  jsonv.Kind
}

func (e *UnexpectedKindError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Want, e.Got)
}

// ConfigurationError reports an invalid descriptor or derive configuration,
// detected at derivation time rather than per decode call.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "codec configuration: " + e.Detail
}

func kindOf(v jsonv.Value) jsonv.Kind {
	if v == nil {
		return jsonv.KindNull
	}
	return v.Kind()
}
