package structson

import (
	"reflect"

	"github.com/gork-labs/tagson/pkg/tagson"
)

// Union assembles a sum descriptor from variant descriptors. Select resolves
// the variant by the value's dynamic type in constant time, so dispatch does
// not scan the variant list.
//
// Values whose dynamic type matches no variant select index -1; encoding
// such a value panics per the sum contract. When two descriptors share a
// type name the first declared one is selected, in line with decode's
// first-match rule.
func Union[T any](variants ...tagson.Variant[T]) tagson.Sum[T] {
	index := make(map[tagson.TypeName]int, len(variants))
	for i, v := range variants {
		if _, dup := index[v.Type]; !dup {
			index[v.Type] = i
		}
	}
	return tagson.Sum[T]{
		Variants: variants,
		Select: func(v T) int {
			rt := reflect.TypeOf(v)
			if rt == nil {
				return -1
			}
			i, ok := index[tagson.TypeName{Name: rt.Name(), PkgPath: rt.PkgPath()}]
			if !ok {
				return -1
			}
			return i
		},
	}
}
