package tagson

// Field describes one record field: its wire name and value codec. Field
// order inside a descriptor fixes the encoded key order; decoding looks
// fields up by name.
type Field struct {
	Name  string
	Codec ValueCodec
}

// Variant describes one alternative of a sum type, or the single shape of a
// record type. New and Match tie the descriptor to the host type and are
// supplied by the caller (directly, via the structson reflection layer, or
// via generated code).
type Variant[T any] struct {
	// Type is the variant's static identity, consumed by naming strategies.
	Type TypeName

	// Fields lists the wire fields in declaration order.
	Fields []Field

	// New constructs the variant value from decoded field values, given in
	// Fields order.
	New func(fields []any) (T, error)

	// Match extracts the field values, in Fields order, when v belongs to
	// this variant; it reports false otherwise.
	Match func(v T) ([]any, bool)
}

// Sum describes a sum type: its variants in declaration order plus the
// dispatch function mapping a value to the index of its variant. Select
// must be total over T; the returned index must be valid.
type Sum[T any] struct {
	Variants []Variant[T]
	Select   func(v T) int
}
