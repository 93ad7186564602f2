package structson

import (
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/gork-labs/tagson/pkg/tagson"
)

// ValidateWith returns an option running validate.Struct on every decoded
// variant whose dynamic type is a struct (or pointer to one). A validation
// failure rejects the variant, so union decoding moves on to the next
// candidate: a value that does not validate is not a match.
func ValidateWith(validate *validator.Validate) tagson.Option {
	return tagson.WithDecodeHook(func(v any) error {
		rv := reflect.ValueOf(v)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil
		}
		return validate.Struct(v)
	})
}
