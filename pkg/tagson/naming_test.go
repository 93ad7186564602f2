package tagson

import "testing"

func TestShortName(t *testing.T) {
	n := ShortName()
	if got := n.VariantName(TypeName{Name: "Bar", PkgPath: "example.com/widgets"}); got != "Bar" {
		t.Errorf("VariantName() = %q, want Bar", got)
	}
	if got := n.VariantName(TypeName{Name: "Baz"}); got != "Baz" {
		t.Errorf("VariantName() = %q, want Baz", got)
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		t    TypeName
		want string
	}{
		{"qualified", TypeName{Name: "Bar", PkgPath: "example.com/widgets"}, "example.com/widgets.Bar"},
		{"no package path", TypeName{Name: "Bar"}, "Bar"},
	}

	n := FullName()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.VariantName(tt.t); got != tt.want {
				t.Errorf("VariantName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserDefined(t *testing.T) {
	bar := TypeName{Name: "Bar", PkgPath: "example.com/widgets"}
	baz := TypeName{Name: "Baz", PkgPath: "example.com/widgets"}
	n := UserDefined(map[TypeName]string{bar: "bar_v2"})

	if got := n.VariantName(bar); got != "bar_v2" {
		t.Errorf("mapped VariantName() = %q, want bar_v2", got)
	}
	// Unmapped variants fall back to the short name so naming stays total.
	if got := n.VariantName(baz); got != "Baz" {
		t.Errorf("fallback VariantName() = %q, want Baz", got)
	}
}

func TestUserDefinedCopiesMapping(t *testing.T) {
	bar := TypeName{Name: "Bar"}
	m := map[TypeName]string{bar: "one"}
	n := UserDefined(m)
	m[bar] = "two"

	if got := n.VariantName(bar); got != "one" {
		t.Errorf("VariantName() = %q, want one (mutating the input map must not leak)", got)
	}
}
