// Package tagson derives bidirectional JSON codecs for algebraic data
// types: records (product types) and tagged unions (sum types).
//
// Callers describe a type structurally (ordered fields with per-field
// codecs for a record, ordered variants for a union) and receive a single
// codec composed from that description. Two axes are configurable: the
// naming strategy picks the string identifying each variant on the wire,
// and the discriminator strategy picks where that string lives (wrapped
// under a key, or merged into the payload as a sibling field).
//
// Derived codecs are immutable and safe for concurrent use.
package tagson

import "fmt"

// Option configures Derive and DeriveRecord.
type Option func(*config)

type config struct {
	naming NamingStrategy
	enc    EncodeStrategy
	dec    DecodeStrategy
	eager  bool
	hooks  []func(v any) error
}

// WithNaming sets the naming strategy. Default is ShortName.
func WithNaming(n NamingStrategy) Option {
	return func(c *config) { c.naming = n }
}

// WithStrategy sets both discriminator halves. Default is Nested.
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.enc, c.dec = s, s }
}

// WithEncodeStrategy overrides only the encode half.
func WithEncodeStrategy(s EncodeStrategy) Option {
	return func(c *config) { c.enc = s }
}

// WithDecodeStrategy overrides only the decode half.
func WithDecodeStrategy(s DecodeStrategy) Option {
	return func(c *config) { c.dec = s }
}

// WithTagValidation makes Derive fail with a ConfigurationError when two
// variants map to the same discriminator. Without it, duplicates keep the
// documented decode behavior: the first declared variant wins.
func WithTagValidation() Option {
	return func(c *config) { c.eager = true }
}

// WithDecodeHook runs hook on every successfully decoded variant value. A
// hook error rejects the variant, so decoding moves on to the next one.
func WithDecodeHook(hook func(v any) error) Option {
	return func(c *config) { c.hooks = append(c.hooks, hook) }
}

func newConfig(opts []Option) config {
	cfg := config{naming: ShortName()}
	st := Nested()
	cfg.enc, cfg.dec = st, st
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Derive composes a sum descriptor with the configured naming and
// discriminator strategies into a codec for T.
//
// Encoding dispatches through s.Select to the matching variant, encodes its
// fields in declaration order, and places the discriminator per the encode
// strategy. Decoding tries each variant in declaration order and returns the
// first full success; when every variant rejects the input the error is a
// NoVariantMatchedError carrying each variant's failure.
func Derive[T any](s Sum[T], opts ...Option) (Codec[T], error) {
	cfg := newConfig(opts)
	if s.Select == nil {
		return nil, &ConfigurationError{Detail: "sum descriptor has no select function"}
	}
	if len(s.Variants) == 0 {
		return nil, &ConfigurationError{Detail: "sum descriptor has no variants"}
	}
	tags := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		if err := checkVariant(v); err != nil {
			return nil, err
		}
		tags[i] = cfg.naming.VariantName(v.Type)
	}
	if cfg.eager {
		seen := make(map[string]int, len(tags))
		for i, tag := range tags {
			if j, dup := seen[tag]; dup {
				return nil, &ConfigurationError{Detail: fmt.Sprintf(
					"duplicate discriminator %q for variants %s and %s",
					tag, s.Variants[j].Type.Name, s.Variants[i].Type.Name)}
			}
			seen[tag] = i
		}
	}
	return &sumCodec[T]{sum: s, tags: tags, cfg: cfg}, nil
}

// DeriveRecord derives a bare product codec for a single-constructor type:
// no discriminator is written or expected.
func DeriveRecord[T any](v Variant[T], opts ...Option) (Codec[T], error) {
	cfg := newConfig(opts)
	if err := checkVariant(v); err != nil {
		return nil, err
	}
	return recordCodec[T]{variant: v, hooks: cfg.hooks}, nil
}

func checkVariant[T any](v Variant[T]) error {
	if v.Type.Name == "" {
		return &ConfigurationError{Detail: "variant has no type name"}
	}
	if v.New == nil {
		return &ConfigurationError{Detail: fmt.Sprintf("variant %s has no constructor", v.Type.Name)}
	}
	if v.Match == nil {
		return &ConfigurationError{Detail: fmt.Sprintf("variant %s has no field matcher", v.Type.Name)}
	}
	seen := make(map[string]struct{}, len(v.Fields))
	for _, f := range v.Fields {
		if f.Name == "" {
			return &ConfigurationError{Detail: fmt.Sprintf("variant %s has an unnamed field", v.Type.Name)}
		}
		if f.Codec == nil {
			return &ConfigurationError{Detail: fmt.Sprintf("variant %s: field %q has no codec", v.Type.Name, f.Name)}
		}
		if _, dup := seen[f.Name]; dup {
			return &ConfigurationError{Detail: fmt.Sprintf("variant %s: duplicate field %q", v.Type.Name, f.Name)}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
