package tagson

// TypeName is a variant's static identity: its unqualified declared name
// and, when known, its package path.
type TypeName struct {
	Name    string
	PkgPath string
}

// FullName returns the package-path-qualified name, or just Name when no
// package path is known.
func (t TypeName) FullName() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

// NamingStrategy maps a variant's identity to the string written as its
// wire discriminator. Implementations must be pure and total; within one
// sum the produced names must be pairwise distinct (see WithTagValidation).
type NamingStrategy interface {
	VariantName(t TypeName) string
}

// ShortName names variants by their unqualified declared name.
func ShortName() NamingStrategy { return shortName{} }

type shortName struct{}

func (shortName) VariantName(t TypeName) string { return t.Name }

// FullName names variants by their package-path-qualified name.
func FullName() NamingStrategy { return fullName{} }

type fullName struct{}

func (fullName) VariantName(t TypeName) string { return t.FullName() }

// UserDefined names variants from an explicit mapping. Variants absent from
// the mapping fall back to their short name, keeping the strategy total.
func UserDefined(names map[TypeName]string) NamingStrategy {
	m := make(map[TypeName]string, len(names))
	for k, v := range names {
		m[k] = v
	}
	return userDefined{names: m}
}

type userDefined struct{ names map[TypeName]string }

func (u userDefined) VariantName(t TypeName) string {
	if name, ok := u.names[t]; ok {
		return name
	}
	return t.Name
}
