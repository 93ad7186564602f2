package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// UnionScanner finds //tagson:union directives in a package directory and
// resolves them into UnionSpec models. It works on syntax alone: variant
// structs must be declared in the scanned package.
type UnionScanner struct {
	fileSet *token.FileSet
	files   map[string]*ast.File // filepath -> AST
	pkgPath string
}

// NewUnionScanner creates a new scanner.
func NewUnionScanner() *UnionScanner {
	return &UnionScanner{
		fileSet: token.NewFileSet(),
		files:   make(map[string]*ast.File),
	}
}

// ParseDirectory parses all non-test Go files in a directory and resolves
// the directory's import path from the enclosing go.mod, when there is one.
func (s *UnionScanner) ParseDirectory(dir string) error {
	noTests := func(fi fs.FileInfo) bool {
		return !strings.HasSuffix(fi.Name(), "_test.go")
	}
	pkgs, err := parser.ParseDir(s.fileSet, dir, noTests, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse directory %s: %w", dir, err)
	}
	for _, pkg := range pkgs {
		for filePath, file := range pkg.Files {
			s.files[filePath] = file
		}
	}
	s.pkgPath = resolvePkgPath(dir)
	return nil
}

// resolvePkgPath walks up from dir to the nearest go.mod and joins the
// module path with the directory's position inside the module. It returns
// "" when no module is found, leaving TypeName.PkgPath unset.
func resolvePkgPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for d := abs; ; {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return ""
			}
			rel, err := filepath.Rel(d, abs)
			if err != nil || rel == "." {
				return mod
			}
			return mod + "/" + filepath.ToSlash(rel)
		}
		parent := filepath.Dir(d)
		if parent == d {
			return ""
		}
		d = parent
	}
}

// Scan resolves every directive found in the parsed files. Specs come back
// ordered by file path and then source position, so output is stable.
func (s *UnionScanner) Scan() ([]UnionSpec, error) {
	structs, structPos := s.indexStructs()

	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var specs []UnionSpec
	for _, path := range paths {
		file := s.files[path]
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*ast.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}
			for _, sp := range genDecl.Specs {
				ts, ok := sp.(*ast.TypeSpec)
				if !ok {
					continue
				}
				comment, ok := s.directiveFor(genDecl, ts)
				if !ok {
					continue
				}
				spec, err := s.resolveUnion(file, ts, comment, structs, structPos)
				if err != nil {
					return nil, err
				}
				specs = append(specs, spec)
			}
		}
	}
	return specs, nil
}

// directiveFor finds the //tagson:union comment attached to a type spec. Doc
// comments of grouped declarations sit on the type spec; an ungrouped
// declaration carries them on the enclosing GenDecl.
func (s *UnionScanner) directiveFor(genDecl *ast.GenDecl, ts *ast.TypeSpec) (*ast.Comment, bool) {
	doc := ts.Doc
	if doc == nil && len(genDecl.Specs) == 1 {
		doc = genDecl.Doc
	}
	if doc == nil {
		return nil, false
	}
	// CommentGroup.Text strips directive comments, so inspect raw lines.
	for _, c := range doc.List {
		line, ok := strings.CutPrefix(c.Text, "//")
		if !ok {
			continue
		}
		if line == directivePrefix || strings.HasPrefix(line, directivePrefix+" ") {
			return c, true
		}
	}
	return nil, false
}

func (s *UnionScanner) resolveUnion(file *ast.File, ts *ast.TypeSpec, comment *ast.Comment, structs map[string]*ast.StructType, structPos map[string]token.Pos) (UnionSpec, error) {
	pos := s.pos(comment.Pos())
	text := strings.TrimPrefix(strings.TrimPrefix(comment.Text, "//"), directivePrefix)
	info, err := parseDirective(text)
	if err != nil {
		return UnionSpec{}, fmt.Errorf("%s: %w", pos, err)
	}
	if _, ok := ts.Type.(*ast.InterfaceType); !ok {
		return UnionSpec{}, fmt.Errorf("%s: //tagson:union requires an interface type, %s is not one", pos, ts.Name.Name)
	}

	spec := UnionSpec{
		Name:     ts.Name.Name,
		Package:  file.Name.Name,
		PkgPath:  s.pkgPath,
		Naming:   info.Naming,
		Strategy: info.Strategy,
		TagField: info.TagField,
		Pos:      pos,
	}

	seenRecords := make(map[string]bool)
	for _, name := range info.Variants {
		st, ok := structs[name]
		if !ok {
			return UnionSpec{}, fmt.Errorf("%s: variant %s is not a struct type in package %s", pos, name, spec.Package)
		}
		variant, err := s.resolveStruct(name, st, structs)
		if err != nil {
			return UnionSpec{}, err
		}
		spec.Variants = append(spec.Variants, variant)
		for _, f := range variant.Fields {
			if err := s.collectRecords(f.Type, structs, structPos, seenRecords, nil, &spec.Records); err != nil {
				return UnionSpec{}, err
			}
		}
	}
	return spec, nil
}

// indexStructs maps every struct type declared in the parsed files to its
// definition and position.
func (s *UnionScanner) indexStructs() (map[string]*ast.StructType, map[string]token.Pos) {
	structs := make(map[string]*ast.StructType)
	positions := make(map[string]token.Pos)
	for _, file := range s.files {
		ast.Inspect(file, func(node ast.Node) bool {
			ts, ok := node.(*ast.TypeSpec)
			if !ok {
				return true
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				structs[ts.Name.Name] = st
				positions[ts.Name.Name] = ts.Pos()
			}
			return false
		})
	}
	return structs, positions
}

// resolveStruct turns a struct declaration into a VariantSpec: exported
// fields in declaration order, wire names from json tags, field types
// resolved to TypeRefs.
func (s *UnionScanner) resolveStruct(name string, st *ast.StructType, structs map[string]*ast.StructType) (VariantSpec, error) {
	variant := VariantSpec{Name: name}
	for _, field := range st.Fields.List {
		if field.Names == nil {
			return VariantSpec{}, fmt.Errorf("%s: embedded fields are not supported in %s", s.pos(field.Pos()), name)
		}
		for _, fieldName := range field.Names {
			if !ast.IsExported(fieldName.Name) {
				continue
			}
			wire, ok := wireName(fieldName.Name, field)
			if !ok {
				continue
			}
			ref, err := s.resolveType(field.Type, structs)
			if err != nil {
				return VariantSpec{}, err
			}
			variant.Fields = append(variant.Fields, FieldSpec{
				GoName:   fieldName.Name,
				WireName: wire,
				Type:     ref,
			})
		}
	}
	return variant, nil
}

// resolveType maps an AST type expression to a TypeRef. Only the shapes the
// runtime has primitive codecs for are supported.
func (s *UnionScanner) resolveType(expr ast.Expr, structs map[string]*ast.StructType) (TypeRef, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		switch t.Name {
		case "string", "bool", "int", "int64", "uint64", "float64":
			return TypeRef{Kind: KindBuiltin, Name: t.Name}, nil
		}
		if _, ok := structs[t.Name]; ok {
			return TypeRef{Kind: KindStruct, Name: t.Name}, nil
		}
	case *ast.StarExpr:
		elem, err := s.resolveType(t.X, structs)
		if err != nil {
			return TypeRef{}, err
		}
		return TypeRef{Kind: KindPtr, Elem: &elem}, nil
	case *ast.ArrayType:
		if t.Len == nil {
			elem, err := s.resolveType(t.Elt, structs)
			if err != nil {
				return TypeRef{}, err
			}
			return TypeRef{Kind: KindSlice, Elem: &elem}, nil
		}
	case *ast.MapType:
		if key, ok := t.Key.(*ast.Ident); ok && key.Name == "string" {
			elem, err := s.resolveType(t.Value, structs)
			if err != nil {
				return TypeRef{}, err
			}
			return TypeRef{Kind: KindMap, Elem: &elem}, nil
		}
	}
	return TypeRef{}, fmt.Errorf("%s: unsupported field type %s", s.pos(expr.Pos()), exprString(expr))
}

// collectRecords gathers the struct types reachable through a field type in
// dependency order, so each record codec is declared before its first use.
// Struct cycles cannot be expressed as explicit codec literals and are
// rejected.
func (s *UnionScanner) collectRecords(ref TypeRef, structs map[string]*ast.StructType, structPos map[string]token.Pos, seen map[string]bool, building []string, out *[]VariantSpec) error {
	for ref.Elem != nil {
		ref = *ref.Elem
	}
	if ref.Kind != KindStruct || seen[ref.Name] {
		return nil
	}
	for _, name := range building {
		if name == ref.Name {
			return fmt.Errorf("%s: recursive type %s cannot be generated", s.pos(structPos[ref.Name]), ref.Name)
		}
	}
	record, err := s.resolveStruct(ref.Name, structs[ref.Name], structs)
	if err != nil {
		return err
	}
	building = append(building, ref.Name)
	for _, f := range record.Fields {
		if err := s.collectRecords(f.Type, structs, structPos, seen, building, out); err != nil {
			return err
		}
	}
	seen[ref.Name] = true
	*out = append(*out, record)
	return nil
}

func (s *UnionScanner) pos(p token.Pos) string {
	return s.fileSet.Position(p).String()
}

// wireName applies the json struct tag to a field name. It reports false
// when the tag excludes the field from serialization.
func wireName(goName string, field *ast.Field) (string, bool) {
	if field.Tag == nil {
		return goName, true
	}
	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
	jsonTag, ok := tag.Lookup("json")
	if !ok {
		return goName, true
	}
	name, _, _ := strings.Cut(jsonTag, ",")
	switch name {
	case "-":
		return "", false
	case "":
		return goName, true
	}
	return name, true
}

// exprString renders a type expression for diagnostics.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[...]" + exprString(t.Elt)
		}
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.InterfaceType:
		return "interface{}"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
