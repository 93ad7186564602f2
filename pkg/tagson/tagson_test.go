package tagson

// Shared test fixtures: a small union with a two-field variant, a marker
// variant, and hand-written descriptors of the kind the reflection layer or
// generated code would normally supply.

type widget interface{ isWidget() }

type barWidget struct {
	S string
	I int
}

func (barWidget) isWidget() {}

type bazWidget struct{}

func (bazWidget) isWidget() {}

type quxWidget struct {
	Type string
}

func (quxWidget) isWidget() {}

func barVariant() Variant[widget] {
	return Variant[widget]{
		Type: TypeName{Name: "Bar", PkgPath: "example.com/widgets"},
		Fields: []Field{
			FieldOf("s", StringCodec()),
			FieldOf("i", IntCodec()),
		},
		New: func(fields []any) (widget, error) {
			return barWidget{S: fields[0].(string), I: fields[1].(int)}, nil
		},
		Match: func(v widget) ([]any, bool) {
			b, ok := v.(barWidget)
			if !ok {
				return nil, false
			}
			return []any{b.S, b.I}, true
		},
	}
}

func bazVariant() Variant[widget] {
	return Variant[widget]{
		Type: TypeName{Name: "Baz", PkgPath: "example.com/widgets"},
		New: func([]any) (widget, error) {
			return bazWidget{}, nil
		},
		Match: func(v widget) ([]any, bool) {
			_, ok := v.(bazWidget)
			return nil, ok
		},
	}
}

// quxVariant carries a field named "type", colliding with Flat's default tag
// member.
func quxVariant() Variant[widget] {
	return Variant[widget]{
		Type: TypeName{Name: "Qux", PkgPath: "example.com/widgets"},
		Fields: []Field{
			FieldOf("type", StringCodec()),
		},
		New: func(fields []any) (widget, error) {
			return quxWidget{Type: fields[0].(string)}, nil
		},
		Match: func(v widget) ([]any, bool) {
			q, ok := v.(quxWidget)
			if !ok {
				return nil, false
			}
			return []any{q.Type}, true
		},
	}
}

func widgetSum() Sum[widget] {
	return Sum[widget]{
		Variants: []Variant[widget]{barVariant(), bazVariant()},
		Select: func(v widget) int {
			switch v.(type) {
			case barWidget:
				return 0
			case bazWidget:
				return 1
			default:
				return -1
			}
		},
	}
}

func mustDerive(s Sum[widget], opts ...Option) Codec[widget] {
	c, err := Derive(s, opts...)
	if err != nil {
		panic(err)
	}
	return c
}
