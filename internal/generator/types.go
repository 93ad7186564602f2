package generator

import "encoding/json"

// Naming strategy values accepted by the directive's naming key.
const (
	NamingShort = "short"
	NamingFull  = "full"
)

// Discriminator strategy values accepted by the directive's strategy key.
const (
	StrategyNested = "nested"
	StrategyFlat   = "flat"
)

// UnionSpec describes one //tagson:union directive: the interface it sits
// on, the effective naming and discriminator configuration, and the resolved
// variant structs in directive order.
type UnionSpec struct {
	Name     string        `json:"name" yaml:"name"`
	Package  string        `json:"package" yaml:"package"`
	PkgPath  string        `json:"pkgPath,omitempty" yaml:"pkgPath,omitempty"`
	Naming   string        `json:"naming" yaml:"naming"`
	Strategy string        `json:"strategy" yaml:"strategy"`
	TagField string        `json:"tagField,omitempty" yaml:"tagField,omitempty"`
	Variants []VariantSpec `json:"variants" yaml:"variants"`

	// Records lists struct types reachable through variant fields, each of
	// which needs its own record codec, dependencies first.
	Records []VariantSpec `json:"records,omitempty" yaml:"records,omitempty"`

	// Pos is the directive's source position.
	Pos string `json:"pos" yaml:"pos"`
}

// VariantSpec describes one variant struct (or one nested record struct).
type VariantSpec struct {
	Name   string      `json:"name" yaml:"name"`
	Fields []FieldSpec `json:"fields" yaml:"fields"`
}

// FieldSpec describes one serialized struct field.
type FieldSpec struct {
	GoName   string  `json:"goName" yaml:"goName"`
	WireName string  `json:"wireName" yaml:"wireName"`
	Type     TypeRef `json:"type" yaml:"type"`
}

// TypeKind classifies the field types the generator can handle.
type TypeKind int

const (
	KindBuiltin TypeKind = iota
	KindSlice
	KindMap
	KindPtr
	KindStruct
)

// TypeRef is the resolved shape of a field type: a supported builtin, a
// struct declared in the scanned package, or a slice/map/pointer of either.
type TypeRef struct {
	Kind TypeKind
	Name string   // builtin or struct type name
	Elem *TypeRef // element type for slice, map, and pointer kinds
}

// String renders the type in Go syntax. Map keys are always strings.
func (t TypeRef) String() string {
	switch t.Kind {
	case KindSlice:
		return "[]" + t.Elem.String()
	case KindMap:
		return "map[string]" + t.Elem.String()
	case KindPtr:
		return "*" + t.Elem.String()
	default:
		return t.Name
	}
}

// MarshalJSON renders the type as its Go syntax string.
func (t TypeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MarshalYAML renders the type as its Go syntax string.
func (t TypeRef) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}
