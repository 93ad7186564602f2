// Package generator scans Go source for //tagson:union directives and
// generates codec constructor code, so unions get explicit descriptors
// without reflection.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"
)

// tagsonImportPath is the import written into generated files.
const tagsonImportPath = "github.com/gork-labs/tagson/pkg/tagson"

// fileHeader marks generated files per the convention golang.org/s/generatedcode.
const fileHeader = "// Code generated by tagson. DO NOT EDIT.\n\n"

// CodecGenerator renders UnionSpecs into Go source declaring codec
// constructors: a fallible <Type>Codec() and a panicking Must<Type>Codec()
// per union.
type CodecGenerator struct {
	importPath string
}

// NewCodecGenerator creates a generator emitting the canonical tagson import.
func NewCodecGenerator() *CodecGenerator {
	return &CodecGenerator{importPath: tagsonImportPath}
}

const codecTemplate = `// {{.Type}}Codec builds the JSON codec declared by the //tagson:union
// directive on {{.Type}}.
func {{.Type}}Codec() (tagson.Codec[{{.Type}}], error) {
{{- range .Records}}
	{{.VarName}}, err := tagson.DeriveRecord(tagson.Variant[{{.Name}}]{
		Type: tagson.TypeName{Name: {{printf "%q" .Name}}{{if .PkgPath}}, PkgPath: {{printf "%q" .PkgPath}}{{end}}},
{{- if .Fields}}
		Fields: []tagson.Field{
{{- range .Fields}}
			tagson.FieldOf({{printf "%q" .WireName}}, {{.CodecExpr}}),
{{- end}}
		},
{{- end}}
		New: func(fields []any) ({{.Name}}, error) {
			var v {{.Name}}
{{- range .Fields}}
			v.{{.GoName}} = fields[{{.Index}}].({{.GoType}})
{{- end}}
			return v, nil
		},
		Match: func(val {{.Name}}) ([]any, bool) {
			return []any{{"{"}}{{range $i, $f := .Fields}}{{if $i}}, {{end}}val.{{$f.GoName}}{{end}}{{"}"}}, true
		},
	})
	if err != nil {
		return nil, err
	}
{{- end}}
	sum := tagson.Sum[{{.Type}}]{
		Variants: []tagson.Variant[{{.Type}}]{
{{- range .Variants}}
			{
				Type: tagson.TypeName{Name: {{printf "%q" .Name}}{{if .PkgPath}}, PkgPath: {{printf "%q" .PkgPath}}{{end}}},
{{- if .Fields}}
				Fields: []tagson.Field{
{{- range .Fields}}
					tagson.FieldOf({{printf "%q" .WireName}}, {{.CodecExpr}}),
{{- end}}
				},
{{- end}}
				New: func(fields []any) ({{$.Type}}, error) {
					var v {{.Name}}
{{- range .Fields}}
					v.{{.GoName}} = fields[{{.Index}}].({{.GoType}})
{{- end}}
					return v, nil
				},
				Match: func(val {{$.Type}}) ([]any, bool) {
					{{if .Fields}}v{{else}}_{{end}}, ok := val.({{.Name}})
					if !ok {
						return nil, false
					}
					return []any{{"{"}}{{range $i, $f := .Fields}}{{if $i}}, {{end}}v.{{$f.GoName}}{{end}}{{"}"}}, true
				},
			},
{{- end}}
		},
		Select: func(val {{.Type}}) int {
			switch val.(type) {
{{- range $i, $v := .Variants}}
			case {{$v.Name}}:
				return {{$i}}
{{- end}}
			default:
				return -1
			}
		},
	}
	return tagson.Derive(sum{{range .Options}}, {{.}}{{end}})
}

// Must{{.Type}}Codec is {{.Type}}Codec, panicking when the union is
// misconfigured.
func Must{{.Type}}Codec() tagson.Codec[{{.Type}}] {
	c, err := {{.Type}}Codec()
	if err != nil {
		panic(err)
	}
	return c
}
`

// codecData is the template input for one union.
type codecData struct {
	Type     string
	Variants []variantData
	Records  []recordData
	Options  []string
}

type variantData struct {
	Name    string
	PkgPath string
	Fields  []fieldData
}

type recordData struct {
	VarName string
	Name    string
	PkgPath string
	Fields  []fieldData
}

type fieldData struct {
	GoName    string
	WireName  string
	CodecExpr string
	GoType    string
	Index     int
}

// Generate renders one union spec into a complete, formatted source file.
func (g *CodecGenerator) Generate(spec UnionSpec) ([]byte, error) {
	return g.generate(spec.Package, []UnionSpec{spec})
}

// GenerateAll renders several union specs into one source file. All specs
// must come from the same package.
func (g *CodecGenerator) GenerateAll(specs []UnionSpec) ([]byte, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no union specs to generate")
	}
	pkg := specs[0].Package
	for _, spec := range specs[1:] {
		if spec.Package != pkg {
			return nil, fmt.Errorf("cannot combine packages %s and %s in one generated file", pkg, spec.Package)
		}
	}
	return g.generate(pkg, specs)
}

func (g *CodecGenerator) generate(pkg string, specs []UnionSpec) ([]byte, error) {
	tmpl, err := template.New("codec").Parse(codecTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse codec template: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "import (\n\t%q\n)\n\n", g.importPath)

	for i, spec := range specs {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := tmpl.Execute(&buf, templateData(spec)); err != nil {
			return nil, fmt.Errorf("failed to generate codec for %s: %w", spec.Name, err)
		}
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return formatted, nil
}

// FileNameFor returns the colocated output name for a union: <type>_tagson.go.
func FileNameFor(spec UnionSpec) string {
	return strings.ToLower(spec.Name) + "_tagson.go"
}

// WriteFiles renders each spec into its colocated file under dir and returns
// the written paths.
func (g *CodecGenerator) WriteFiles(specs []UnionSpec, dir string) ([]string, error) {
	var paths []string
	for _, spec := range specs {
		content, err := g.Generate(spec)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, FileNameFor(spec))
		if err := writeFile(path, content); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes content to a file, creating directories if necessary.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return os.WriteFile(path, content, 0644)
}

func templateData(spec UnionSpec) codecData {
	data := codecData{Type: spec.Name, Options: optionExprs(spec)}
	for _, r := range spec.Records {
		data.Records = append(data.Records, recordData{
			VarName: recordVarName(r.Name),
			Name:    r.Name,
			PkgPath: spec.PkgPath,
			Fields:  fieldDataFor(r.Fields),
		})
	}
	for _, v := range spec.Variants {
		data.Variants = append(data.Variants, variantData{
			Name:    v.Name,
			PkgPath: spec.PkgPath,
			Fields:  fieldDataFor(v.Fields),
		})
	}
	return data
}

func fieldDataFor(fields []FieldSpec) []fieldData {
	out := make([]fieldData, 0, len(fields))
	for i, f := range fields {
		out = append(out, fieldData{
			GoName:    f.GoName,
			WireName:  f.WireName,
			CodecExpr: codecExpr(f.Type),
			GoType:    f.Type.String(),
			Index:     i,
		})
	}
	return out
}

// optionExprs renders the tagson.Derive options for a spec. Generated codecs
// always validate discriminators eagerly: the configuration is static, so a
// collision should fail at construction.
func optionExprs(spec UnionSpec) []string {
	opts := []string{"tagson.WithTagValidation()"}
	if spec.Naming == NamingFull {
		opts = append(opts, "tagson.WithNaming(tagson.FullName())")
	}
	if spec.Strategy == StrategyFlat {
		if spec.TagField != "" {
			opts = append(opts, fmt.Sprintf("tagson.WithStrategy(tagson.Flat(tagson.WithTagField(%q)))", spec.TagField))
		} else {
			opts = append(opts, "tagson.WithStrategy(tagson.Flat())")
		}
	}
	return opts
}

var builtinCodecs = map[string]string{
	"string":  "StringCodec()",
	"bool":    "BoolCodec()",
	"int":     "IntCodec()",
	"int64":   "Int64Codec()",
	"uint64":  "Uint64Codec()",
	"float64": "Float64Codec()",
}

// codecExpr renders the tagson codec expression for a field type. Struct
// types refer to the record codec variable declared earlier in the function.
func codecExpr(t TypeRef) string {
	switch t.Kind {
	case KindSlice:
		return "tagson.SliceCodec(" + codecExpr(*t.Elem) + ")"
	case KindMap:
		return "tagson.MapCodec(" + codecExpr(*t.Elem) + ")"
	case KindPtr:
		return "tagson.PtrCodec(" + codecExpr(*t.Elem) + ")"
	case KindStruct:
		return recordVarName(t.Name)
	default:
		return "tagson." + builtinCodecs[t.Name]
	}
}

func recordVarName(typeName string) string {
	return lowerFirst(typeName) + "Codec"
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
