package structson

import (
	"reflect"

	"github.com/gork-labs/tagson/pkg/tagson"
)

// Discriminator allows a variant type to specify its own discriminator
// value. When a type implements this interface, NamingFor uses the returned
// value as the type's wire name instead of its declared name.
type Discriminator interface {
	// DiscriminatorValue returns the unique discriminator value for this
	// type. This value is what appears in the JSON discriminator position.
	DiscriminatorValue() string
}

// DiscriminatorField allows a variant type to specify which JSON field
// carries the discriminator value. This is optional; unions whose variants
// do not implement it use the default field name.
type DiscriminatorField interface {
	// DiscriminatorFieldName returns the name of the JSON field that
	// contains the discriminator value (e.g. "type", "kind", "@type").
	DiscriminatorFieldName() string
}

// NamingFor builds a naming strategy from the variants' own Discriminator
// implementations. Pass one value per variant type (zero values work).
// Variants without the method keep their short name.
func NamingFor[T any](variants ...T) tagson.NamingStrategy {
	names := make(map[tagson.TypeName]string)
	for _, v := range variants {
		d, ok := any(v).(Discriminator)
		if !ok {
			continue
		}
		rt := reflect.TypeOf(v)
		names[tagson.TypeName{Name: rt.Name(), PkgPath: rt.PkgPath()}] = d.DiscriminatorValue()
	}
	return tagson.UserDefined(names)
}

// TagFieldFor returns the tag member name declared by the first variant
// implementing DiscriminatorField, or the default field name when none does.
func TagFieldFor[T any](variants ...T) string {
	for _, v := range variants {
		if f, ok := any(v).(DiscriminatorField); ok {
			if name := f.DiscriminatorFieldName(); name != "" {
				return name
			}
		}
	}
	return tagson.DefaultTagField
}
