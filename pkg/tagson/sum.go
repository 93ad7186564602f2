package tagson

import (
	"fmt"

	"github.com/gork-labs/tagson/pkg/jsonv"
)

type sumCodec[T any] struct {
	sum  Sum[T]
	tags []string
	cfg  config
}

// Encode never fails under the descriptor invariants: Select is total and
// every variant handles its own values. A Select returning an invalid index
// is a programming error and panics.
func (c *sumCodec[T]) Encode(val T) (jsonv.Value, error) {
	idx := c.sum.Select(val)
	if idx < 0 || idx >= len(c.sum.Variants) {
		panic(fmt.Sprintf("tagson: select returned invalid variant index %d", idx))
	}
	base, err := encodeFields(c.sum.Variants[idx], val)
	if err != nil {
		return nil, err
	}
	return c.cfg.enc.EncodeTag(c.tags[idx], base), nil
}

// Decode tries each variant in declaration order and returns the first full
// success, making declaration order the tie-break when discriminators are
// ambiguous. Exhaustion aggregates every attempt's failure.
func (c *sumCodec[T]) Decode(input jsonv.Value) (T, error) {
	var zero T
	attempts := make([]VariantAttempt, 0, len(c.sum.Variants))
	for i, v := range c.sum.Variants {
		payload, err := c.cfg.dec.DecodeTag(c.tags[i], input)
		if err != nil {
			attempts = append(attempts, VariantAttempt{Variant: c.tags[i], Err: err})
			continue
		}
		val, err := decodeFields(v, payload)
		if err != nil {
			attempts = append(attempts, VariantAttempt{Variant: c.tags[i], Err: err})
			continue
		}
		if err := runHooks(c.cfg.hooks, val); err != nil {
			attempts = append(attempts, VariantAttempt{Variant: c.tags[i], Err: err})
			continue
		}
		return val, nil
	}
	return zero, &NoVariantMatchedError{Attempts: attempts}
}

func runHooks[T any](hooks []func(v any) error, val T) error {
	for _, hook := range hooks {
		if err := hook(val); err != nil {
			return err
		}
	}
	return nil
}
