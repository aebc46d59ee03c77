package filters

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"html/template"
	"os"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/conneroisu/mdn/internal/errors"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Load interprets the Go source file at path and returns its exported
// top-level functions as filters. The file must declare package main. Each
// function must return one value, or one value and an error.
func Load(path string) (template.FuncMap, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFilterLoadFailure(path, err)
	}

	names, err := exportedFuncs(path, code)
	if err != nil {
		return nil, errors.NewFilterLoadFailure(path, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, errors.NewFilterLoadFailure(path, err)
	}
	if _, err := i.Eval(string(code)); err != nil {
		return nil, errors.NewFilterLoadFailure(path, fmt.Errorf("interpret: %w", err))
	}

	funcs := template.FuncMap{}
	for _, name := range names {
		value, err := i.Eval(name)
		if err != nil {
			return nil, errors.NewFilterLoadFailure(path, fmt.Errorf("lookup %s: %w", name, err))
		}
		if err := checkSignature(name, value); err != nil {
			return nil, errors.NewFilterLoadFailure(path, err)
		}
		fn := value.Interface()
		funcs[name] = fn
		if alias := lowerCamel(name); alias != name {
			funcs[alias] = fn
		}
	}

	return funcs, nil
}

// exportedFuncs lists the exported, non-generic, receiver-less functions
// declared in code, sorted by name.
func exportedFuncs(path string, code []byte) ([]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, code, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if file.Name.Name != "main" {
		return nil, fmt.Errorf("filters module must declare package main, found package %s", file.Name.Name)
	}

	var names []string
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv != nil || fd.Type.TypeParams != nil {
			continue
		}
		if ast.IsExported(fd.Name.Name) {
			names = append(names, fd.Name.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func checkSignature(name string, value reflect.Value) error {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return fmt.Errorf("%s is not a function", name)
	}
	t := value.Type()
	switch {
	case t.NumOut() == 1:
		return nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		return nil
	default:
		return fmt.Errorf("%s must return one value or a value and an error", name)
	}
}

// lowerCamel lower-cases the leading upper-case run of name. A run longer
// than one letter keeps its last letter when a lower-case letter follows, so
// UTCDate becomes utcDate and SpaceToDash becomes spaceToDash.
func lowerCamel(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == len(runes) || n == 1:
	default:
		if unicode.IsLower(runes[n]) {
			n--
		}
	}
	return strings.ToLower(string(runes[:n])) + string(runes[n:])
}
