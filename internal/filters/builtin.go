// Package filters provides the functions templates can pipe values through.
//
// Built-in filters cover common text shaping. Projects add their own by
// pointing the build at a Go source file: every exported function in it is
// interpreted with yaegi and registered under its own name and a lower camel
// case alias, so SpaceToDash is callable as both SpaceToDash and spaceToDash.
package filters

import (
	"fmt"
	"html/template"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Builtins returns a fresh map of the built-in filters.
func Builtins() template.FuncMap {
	return template.FuncMap{
		"upper":         upper,
		"lower":         lower,
		"capitalize":    capitalize,
		"title":         title,
		"trim":          trim,
		"striptags":     striptags,
		"safe":          safe,
		"default":       defaultValue,
		"join":          join,
		"spaceToDash":   spaceToDash,
		"condenseTitle": condenseTitle,
		"trimSlashes":   trimSlashes,
	}
}

// Merge combines filter maps. Later maps override earlier ones.
func Merge(maps ...template.FuncMap) template.FuncMap {
	merged := template.FuncMap{}
	for _, m := range maps {
		for name, fn := range m {
			merged[name] = fn
		}
	}
	return merged
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case template.HTML:
		return string(s)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

func upper(v any) string { return strings.ToUpper(toString(v)) }

func lower(v any) string { return strings.ToLower(toString(v)) }

func trim(v any) string { return strings.TrimSpace(toString(v)) }

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(v any) string {
	s := cases.Lower(language.Und).String(toString(v))
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}

func title(v any) string {
	return cases.Title(language.English).String(toString(v))
}

// striptags removes markup and collapses the remaining whitespace.
func striptags(v any) string {
	z := html.NewTokenizer(strings.NewReader(toString(v)))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}

// safe marks a value as trusted HTML so it is not escaped.
func safe(v any) template.HTML {
	return template.HTML(toString(v))
}

// defaultValue returns fallback when v is empty. In a pipeline the fallback
// comes first: {{ .params.subtitle | default "none" }}.
func defaultValue(fallback, v any) any {
	if isEmpty(v) {
		return fallback
	}
	return v
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

// join concatenates a list with sep: {{ .params.tags | join ", " }}.
func join(sep string, v any) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return ""
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return toString(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = toString(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	edgeSlashes   = regexp.MustCompile(`(^/)|(/$)`)
)

func spaceToDash(v any) string {
	return whitespaceRun.ReplaceAllString(toString(v), "-")
}

func condenseTitle(v any) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(toString(v)), "")
}

func trimSlashes(v any) string {
	return edgeSlashes.ReplaceAllString(toString(v), "")
}
