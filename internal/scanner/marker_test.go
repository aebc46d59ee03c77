package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "no markers",
			text:     "# Title\n\nJust prose with {# a comment #} and {{ braces }}.",
			expected: nil,
		},
		{
			name:     "single inline marker",
			text:     `A {#mdn "foo"#} B`,
			expected: []string{`{#mdn "foo"#}`},
		},
		{
			name:     "tolerated whitespace",
			text:     "x {#mdn   \"foo\" \t#} y {# mdn \"bar\"#}",
			expected: []string{"{#mdn   \"foo\" \t#}", `{# mdn "bar"#}`},
		},
		{
			name:     "scan order with duplicates",
			text:     "{#mdn \"a\"#}\n{#mdn \"b\"#}\n{#mdn \"a\"#}",
			expected: []string{`{#mdn "a"#}`, `{#mdn "b"#}`, `{#mdn "a"#}`},
		},
		{
			name:     "special characters in name",
			text:     `{#mdn "special@component-name!"#}`,
			expected: []string{`{#mdn "special@component-name!"#}`},
		},
		{
			name:     "unterminated quote is ignored",
			text:     `{#mdn "foo#} and "bar#}`,
			expected: nil,
		},
		{
			name:     "empty name is ignored",
			text:     `{#mdn ""#}`,
			expected: nil,
		},
		{
			name:     "does not span lines",
			text:     "{#mdn \"foo\"\n#} {#mdn \"fo\no\"#}",
			expected: nil,
		},
		{
			name:     "nested markers are not parsed recursively",
			text:     `{#mdn "{#mdn "x"#}"#}`,
			expected: []string{`{#mdn "x"#}`},
		},
		{
			name:     "missing closing delimiter",
			text:     `{#mdn "foo"`,
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Scan(tc.text))
			assert.Equal(t, tc.expected, ScanBytes([]byte(tc.text)))
			assert.Equal(t, len(tc.expected) > 0, Contains(tc.text))
		})
	}
}

func TestComponentName(t *testing.T) {
	testCases := []struct {
		marker   string
		expected string
	}{
		{`{#mdn "foo"#}`, "foo"},
		{`{#mdn "special component"#}`, "specialcomponent"},
		{"{#mdn\t\"a\tb\" #}", "ab"},
		{`{# mdn  "hero" #}`, "hero"},
		{`{#mdn "special@component-name!"#}`, "special@component-name!"},
		{`{#mdn "   "#}`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.marker, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComponentName(tc.marker))
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	marker := Format("banner")
	assert.Equal(t, `{#mdn "banner"#}`, marker)
	assert.Equal(t, []string{marker}, Scan("before "+marker+" after"))
	assert.Equal(t, "banner", ComponentName(marker))
}

func TestScanLargeDocument(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Performance Test\n\n")
	for i := 0; i < 200; i++ {
		b.WriteString(Format("testComponent"))
		b.WriteString("\n\n")
	}

	markers := Scan(b.String())
	assert.Len(t, markers, 200)
}

func BenchmarkScan(b *testing.B) {
	text := strings.Repeat("Some prose paragraph that mentions nothing special.\n", 200) +
		Format("hero") + "\n" + strings.Repeat("More prose.\n", 200)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Scan(text)
	}
}
