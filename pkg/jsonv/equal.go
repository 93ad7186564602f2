package jsonv

// Equal reports structural equality of two values. Object comparison is
// order-sensitive; numbers are compared by literal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		bm := bv.Members()
		for i, m := range av.Members() {
			if m.Key != bm[i].Key || !Equal(m.Value, bm[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
