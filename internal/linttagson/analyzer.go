// Package linttagson provides a static checker for tagson union declarations.
package linttagson

import (
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports tagson configuration mistakes before they surface as
// derive-time errors: malformed //tagson:union directives and discriminator
// values used more than once within a package.
var Analyzer = &analysis.Analyzer{
	Name: "tagson",
	Doc:  "checks //tagson:union directives and discriminator values for conflicts",
	Run:  run,
}

// directivePrefix marks a union directive comment, with no space after the
// slashes. The grammar matches the tagson generator.
const directivePrefix = "tagson:union"

func run(pass *analysis.Pass) (interface{}, error) {
	methods := collectDiscriminatorMethods(pass)
	checkDuplicateDiscriminatorValues(methods, pass)
	checkUnionDirectives(methods, pass)
	return nil, nil
}

// discriminatorMethod records one DiscriminatorValue method together with
// the string literal it returns.
type discriminatorMethod struct {
	recv  string
	value string
	lit   *ast.BasicLit
}

func collectDiscriminatorMethods(pass *analysis.Pass) []discriminatorMethod {
	var methods []discriminatorMethod
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "DiscriminatorValue" {
				continue
			}
			recv := receiverTypeName(fn)
			if recv == "" {
				continue
			}
			lit, ok := returnedStringLiteral(fn)
			if !ok {
				continue
			}
			val, err := strconv.Unquote(lit.Value)
			if err != nil {
				continue
			}
			methods = append(methods, discriminatorMethod{recv: recv, value: val, lit: lit})
		}
	}
	return methods
}

func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) != 1 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// returnedStringLiteral finds the string literal a DiscriminatorValue body
// returns. Methods computing their value are skipped; the check reasons
// about constants only.
func returnedStringLiteral(fn *ast.FuncDecl) (*ast.BasicLit, bool) {
	if fn.Body == nil {
		return nil, false
	}
	for _, stmt := range fn.Body.List {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}
		lit, ok := ret.Results[0].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return nil, false
		}
		return lit, true
	}
	return nil, false
}

func checkDuplicateDiscriminatorValues(methods []discriminatorMethod, pass *analysis.Pass) {
	seen := map[string]*ast.BasicLit{}
	for _, m := range methods {
		if prev, dup := seen[m.value]; dup {
			pass.Reportf(m.lit.Pos(), "duplicate discriminator value %q also used at %s", m.value, pass.Fset.Position(prev.Pos()))
			continue
		}
		seen[m.value] = m.lit
	}
}

func checkUnionDirectives(methods []discriminatorMethod, pass *analysis.Pass) {
	explicit := map[string]discriminatorMethod{}
	for _, m := range methods {
		if _, ok := explicit[m.recv]; !ok {
			explicit[m.recv] = m
		}
	}
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				checkDirective(doc, ts, explicit, pass)
			}
		}
	}
}

func checkDirective(doc *ast.CommentGroup, ts *ast.TypeSpec, explicit map[string]discriminatorMethod, pass *analysis.Pass) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		line, ok := directiveLine(c.Text)
		if !ok {
			continue
		}
		variants, err := parseUnionDirective(line)
		if err != nil {
			pass.Reportf(ts.Pos(), "malformed //tagson:union directive: %v", err)
			continue
		}
		checkVariantValues(variants, ts, explicit, pass)
	}
}

// checkVariantValues resolves each listed variant to its discriminator
// value: the string returned by its DiscriminatorValue method when the
// package declares one, the variant name otherwise. Values are compared
// after case folding since confusable tags are almost always a mistake.
func checkVariantValues(variants []string, ts *ast.TypeSpec, explicit map[string]discriminatorMethod, pass *analysis.Pass) {
	seen := map[string]ast.Node{}
	for _, name := range variants {
		val := name
		var node ast.Node = ts
		if m, ok := explicit[name]; ok {
			val = m.value
			node = m.lit
		}
		folded := strings.ToLower(val)
		if prev, dup := seen[folded]; dup {
			pass.Reportf(ts.Pos(), "duplicate discriminator value %q also used at %s", folded, pass.Fset.Position(prev.Pos()))
			continue
		}
		seen[folded] = node
	}
}

// directiveLine reports whether a comment is a tagson:union directive and
// returns its text without the leading slashes.
func directiveLine(text string) (string, bool) {
	line, ok := strings.CutPrefix(text, "//")
	if !ok {
		return "", false
	}
	if line != directivePrefix && !strings.HasPrefix(line, directivePrefix+" ") {
		return "", false
	}
	return line, true
}

// parseUnionDirective validates one directive line and returns the listed
// variant names. Items are space-separated key=value pairs with keys
// variants, naming, strategy, and tag, mirroring the generator's grammar.
func parseUnionDirective(line string) ([]string, error) {
	var (
		variants []string
		strategy string
		tagField string
	)
	for _, item := range strings.Fields(strings.TrimPrefix(line, directivePrefix)) {
		kv := strings.SplitN(item, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed directive item %q", item)
		}
		key, val := kv[0], kv[1]
		switch key {
		case "variants":
			variants = variants[:0]
			for _, name := range strings.Split(val, ",") {
				if name = strings.TrimSpace(name); name != "" {
					variants = append(variants, name)
				}
			}
		case "naming":
			if val != "short" && val != "full" {
				return nil, fmt.Errorf("invalid naming %q (want short or full)", val)
			}
		case "strategy":
			if val != "nested" && val != "flat" {
				return nil, fmt.Errorf("invalid strategy %q (want nested or flat)", val)
			}
			strategy = val
		case "tag":
			if val == "" {
				return nil, fmt.Errorf("directive key tag has no value")
			}
			tagField = val
		default:
			return nil, fmt.Errorf("unknown directive key %q", key)
		}
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("directive has no variants")
	}
	if tagField != "" && strategy == "nested" {
		return nil, fmt.Errorf("directive key tag requires strategy=flat")
	}
	return variants, nil
}
