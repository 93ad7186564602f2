package generator

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeSpec() UnionSpec {
	return UnionSpec{
		Name:     "Shape",
		Package:  "shapes",
		PkgPath:  "example.com/testmod/shapes",
		Naming:   NamingShort,
		Strategy: StrategyFlat,
		TagField: "kind",
		Variants: []VariantSpec{
			{
				Name: "Circle",
				Fields: []FieldSpec{
					{GoName: "Radius", WireName: "radius", Type: TypeRef{Kind: KindBuiltin, Name: "float64"}},
				},
			},
			{Name: "Dot"},
		},
	}
}

func TestCodecGeneratorGenerate(t *testing.T) {
	gen := NewCodecGenerator()

	content, err := gen.Generate(shapeSpec())
	require.NoError(t, err)
	code := string(content)

	assert.True(t, strings.HasPrefix(code, "// Code generated by tagson. DO NOT EDIT.\n"))
	assert.Contains(t, code, "package shapes\n")
	assert.Contains(t, code, `"github.com/gork-labs/tagson/pkg/tagson"`)

	expected := []string{
		"func ShapeCodec() (tagson.Codec[Shape], error)",
		"func MustShapeCodec() tagson.Codec[Shape]",
		`Type: tagson.TypeName{Name: "Circle", PkgPath: "example.com/testmod/shapes"}`,
		`tagson.FieldOf("radius", tagson.Float64Codec())`,
		"v.Radius = fields[0].(float64)",
		"v, ok := val.(Circle)",
		"case Circle:",
		"case Dot:",
		"return -1",
		"tagson.WithTagValidation()",
		`tagson.WithStrategy(tagson.Flat(tagson.WithTagField("kind")))`,
	}
	for _, want := range expected {
		assert.Contains(t, code, want)
	}

	// The zero-field variant must not bind an unused variable.
	assert.Contains(t, code, "_, ok := val.(Dot)")
	assert.NotContains(t, code, "WithNaming", "short naming is the default")

	// The output must be parseable Go.
	_, err = parser.ParseFile(token.NewFileSet(), "shape_tagson.go", content, 0)
	require.NoError(t, err)
}

func TestCodecGeneratorOptions(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*UnionSpec)
		want        []string
		notContains []string
	}{
		{
			name:   "defaults",
			mutate: func(s *UnionSpec) { s.Strategy = StrategyNested; s.TagField = "" },
			want:   []string{"tagson.Derive(sum, tagson.WithTagValidation())"},
			notContains: []string{
				"WithStrategy",
				"WithNaming",
			},
		},
		{
			name:   "full naming",
			mutate: func(s *UnionSpec) { s.Naming = NamingFull; s.Strategy = StrategyNested; s.TagField = "" },
			want:   []string{"tagson.WithNaming(tagson.FullName())"},
		},
		{
			name:   "flat without tag",
			mutate: func(s *UnionSpec) { s.TagField = "" },
			want:   []string{"tagson.WithStrategy(tagson.Flat())"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := shapeSpec()
			tt.mutate(&spec)

			content, err := NewCodecGenerator().Generate(spec)
			require.NoError(t, err)
			code := string(content)

			for _, want := range tt.want {
				assert.Contains(t, code, want)
			}
			for _, not := range tt.notContains {
				assert.NotContains(t, code, not)
			}
		})
	}
}

func TestCodecGeneratorRecords(t *testing.T) {
	spec := UnionSpec{
		Name:     "Event",
		Package:  "events",
		Naming:   NamingShort,
		Strategy: StrategyNested,
		Variants: []VariantSpec{
			{
				Name: "Order",
				Fields: []FieldSpec{
					{GoName: "ID", WireName: "id", Type: TypeRef{Kind: KindBuiltin, Name: "string"}},
					{GoName: "Ship", WireName: "ship", Type: TypeRef{Kind: KindStruct, Name: "Address"}},
				},
			},
		},
		Records: []VariantSpec{
			{
				Name: "Address",
				Fields: []FieldSpec{
					{GoName: "City", WireName: "city", Type: TypeRef{Kind: KindBuiltin, Name: "string"}},
				},
			},
		},
	}

	content, err := NewCodecGenerator().Generate(spec)
	require.NoError(t, err)
	code := string(content)

	assert.Contains(t, code, "addressCodec, err := tagson.DeriveRecord(tagson.Variant[Address]{")
	assert.Contains(t, code, `tagson.FieldOf("ship", addressCodec)`)
	assert.Contains(t, code, "v.Ship = fields[1].(Address)")
	assert.Contains(t, code, "func(val Address) ([]any, bool)")
	assert.Contains(t, code, "return []any{val.City}, true")

	_, err = parser.ParseFile(token.NewFileSet(), "event_tagson.go", content, 0)
	require.NoError(t, err)
}

func TestGenerateAllRejectsMixedPackages(t *testing.T) {
	a := shapeSpec()
	b := shapeSpec()
	b.Name = "Vehicle"
	b.Package = "vehicles"

	_, err := NewCodecGenerator().GenerateAll([]UnionSpec{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot combine packages shapes and vehicles")
}

func TestGenerateAllEmpty(t *testing.T) {
	_, err := NewCodecGenerator().GenerateAll(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no union specs")
}

func TestFileNameFor(t *testing.T) {
	assert.Equal(t, "shape_tagson.go", FileNameFor(UnionSpec{Name: "Shape"}))
	assert.Equal(t, "paymentmethod_tagson.go", FileNameFor(UnionSpec{Name: "PaymentMethod"}))
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "generated")

	paths, err := NewCodecGenerator().WriteFiles([]UnionSpec{shapeSpec()}, out)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(out, "shape_tagson.go"), paths[0])

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), "func MustShapeCodec() tagson.Codec[Shape]")
}

// TestScanAndGenerate covers the full pipeline: source tree in, generated
// codec file out.
func TestScanAndGenerate(t *testing.T) {
	files := map[string]string{
		"go.mod": "module example.com/testmod\n\ngo 1.24\n",
		"msg/msg.go": `package msg

//tagson:union variants=Text,Image naming=full strategy=flat
type Message interface {
	isMessage()
}

type Text struct {
	Body string ` + "`json:\"body\"`" + `
}

func (Text) isMessage() {}

type Image struct {
	URL    string ` + "`json:\"url\"`" + `
	Width  int    ` + "`json:\"width\"`" + `
	Inline *bool  ` + "`json:\"inline\"`" + `
}

func (Image) isMessage() {}
`,
	}
	dir := writeSourceTree(t, files)

	scanner := NewUnionScanner()
	require.NoError(t, scanner.ParseDirectory(filepath.Join(dir, "msg")))
	specs, err := scanner.Scan()
	require.NoError(t, err)
	require.Len(t, specs, 1)

	content, err := NewCodecGenerator().Generate(specs[0])
	require.NoError(t, err)
	code := string(content)

	assert.Contains(t, code, "package msg")
	assert.Contains(t, code, "func MessageCodec() (tagson.Codec[Message], error)")
	assert.Contains(t, code, `Type: tagson.TypeName{Name: "Text", PkgPath: "example.com/testmod/msg"}`)
	assert.Contains(t, code, "tagson.WithNaming(tagson.FullName())")
	assert.Contains(t, code, "tagson.WithStrategy(tagson.Flat())")
	assert.Contains(t, code, `tagson.FieldOf("inline", tagson.PtrCodec(tagson.BoolCodec()))`)
	assert.Contains(t, code, "v.Inline = fields[2].(*bool)")

	_, err = parser.ParseFile(token.NewFileSet(), "message_tagson.go", content, 0)
	require.NoError(t, err)
}
