//go:build property

package scanner

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestMarkerProperties checks scanner and name extraction invariants
func TestMarkerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(4242)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("formatted marker is found and named", prop.ForAll(
		func(name string) bool {
			if name == "" {
				return true
			}
			marker := Format(name)
			found := Scan("lead " + marker + " tail")
			return len(found) == 1 && found[0] == marker && ComponentName(marker) == name
		},
		gen.Identifier(),
	))

	properties.Property("every occurrence is reported", prop.ForAll(
		func(name string, n int) bool {
			if name == "" {
				return true
			}
			text := strings.Repeat(Format(name)+"\n", n)
			return len(Scan(text)) == n
		},
		gen.Identifier(),
		gen.IntRange(0, 30),
	))

	properties.Property("text without an opening brace has no markers", prop.ForAll(
		func(text string) bool {
			text = strings.ReplaceAll(text, "{", "")
			return Scan(text) == nil && !Contains(text)
		},
		gen.AnyString(),
	))

	properties.Property("extracted names never contain whitespace", prop.ForAll(
		func(words []string) bool {
			marker := Format(strings.Join(words, " "))
			return !strings.ContainsAny(ComponentName(marker), " \t")
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
