// Package scanner finds component markers in document text.
//
// A marker has the form {#mdn "name"#}. Whitespace is tolerated around mdn,
// around the quoted name and before the closing #}, but a marker never spans a
// line break and markers do not nest. Text that only resembles a marker is
// not matched and is left alone.
package scanner

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MarkerStart opens every marker.
	MarkerStart = "{#mdn"
	// MarkerEnd closes every marker.
	MarkerEnd = "#}"
)

var markerPattern = regexp.MustCompile(`\{#[ \t]*mdn[ \t]*"[^"\r\n]+"[ \t]*#\}`)

// Scan returns every marker literal in text in order of appearance.
// Repeated literals are returned once per occurrence.
func Scan(text string) []string {
	if !Contains(text) {
		return nil
	}
	return markerPattern.FindAllString(text, -1)
}

// ScanBytes is Scan for a byte buffer.
func ScanBytes(content []byte) []string {
	if !bytes.Contains(content, []byte("mdn")) {
		return nil
	}
	matches := markerPattern.FindAll(content, -1)
	if len(matches) == 0 {
		return nil
	}
	markers := make([]string, len(matches))
	for i, m := range matches {
		markers[i] = string(m)
	}
	return markers
}

// Contains reports whether text holds at least one marker.
func Contains(text string) bool {
	if !strings.Contains(text, "mdn") {
		return false
	}
	return markerPattern.MatchString(text)
}

// ComponentName derives the metadata key a marker refers to. All whitespace
// is removed first, including whitespace inside the quoted name, so
// {#mdn "special component"#} refers to "specialcomponent".
func ComponentName(marker string) string {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, marker)

	compact = strings.TrimPrefix(compact, MarkerStart+`"`)
	return strings.TrimSuffix(compact, `"`+MarkerEnd)
}

// Format builds the canonical marker literal for name.
func Format(name string) string {
	return MarkerStart + ` "` + name + `"` + MarkerEnd
}
