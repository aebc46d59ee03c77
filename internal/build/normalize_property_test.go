//go:build property

package build

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var fragments = []string{"a", "b", " ", "\t", "\n", "\r\n", "<p>", "  x  "}

func whitespaceHeavyString() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(fragments)-1)).
		Map(func(idx []int) string {
			var b strings.Builder
			for _, i := range idx {
				b.WriteString(fragments[i])
			}
			return b.String()
		})
}

func TestNormalizeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234)
	parameters.MinSuccessfulTests = 500

	properties := gopter.NewProperties(parameters)

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s string) bool {
			once := Normalize(s)
			return Normalize(once) == once
		},
		whitespaceHeavyString(),
	))

	properties.Property("no edge whitespace on any line", prop.ForAll(
		func(s string) bool {
			for _, line := range strings.Split(Normalize(s), "\n") {
				if line != strings.TrimSpace(line) {
					return false
				}
			}
			return true
		},
		whitespaceHeavyString(),
	))

	properties.Property("no run of three newlines", prop.ForAll(
		func(s string) bool {
			return !strings.Contains(Normalize(s), "\n\n\n")
		},
		whitespaceHeavyString(),
	))

	properties.Property("non-whitespace content preserved in order", prop.ForAll(
		func(s string) bool {
			return strings.Join(strings.Fields(s), "") == strings.Join(strings.Fields(Normalize(s)), "")
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
