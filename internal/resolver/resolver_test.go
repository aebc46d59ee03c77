package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/mdn/internal/document"
	mdnerrors "github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/internal/scanner"
)

type warning struct {
	err error
	msg string
}

type captureLogger struct {
	logging.Logger
	warnings []warning
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{Logger: logging.NewNop()}
}

func (c *captureLogger) Warn(_ context.Context, err error, msg string, _ ...interface{}) {
	c.warnings = append(c.warnings, warning{err: err, msg: msg})
}

func TestResolveFound(t *testing.T) {
	doc := document.New("index.md", nil)
	record := map[string]any{"layout": "x.html", "title": "Hi"}
	doc.Metadata["foo"] = record

	marker := `{#mdn "foo"#}`
	resolved, unresolved := Resolve(context.Background(), doc, []string{marker}, nil)

	require.Len(t, resolved, 1)
	assert.Empty(t, unresolved)
	assert.Equal(t, "foo", resolved[0].Name)
	assert.Equal(t, marker, resolved[0].Marker)
	assert.Equal(t, "x.html", resolved[0].Layout())
	assert.Equal(t, marker, record[MarkerField], "record carries the marker")
}

func TestResolveMissingIsNonFatal(t *testing.T) {
	doc := document.New("index.md", nil)
	doc.Metadata["foo"] = map[string]any{"layout": "x.html"}
	doc.Metadata["title"] = "not a record"
	logger := newCaptureLogger()

	markers := []string{`{#mdn "bar"#}`, `{#mdn "foo"#}`, `{#mdn "title"#}`, `{#mdn "nil"#}`}
	doc.Metadata["nil"] = nil

	resolved, unresolved := Resolve(context.Background(), doc, markers, logger)

	require.Len(t, resolved, 1)
	assert.Equal(t, "foo", resolved[0].Name)

	require.Len(t, unresolved, 3)
	require.Len(t, logger.warnings, 3, "exactly one diagnostic per unresolved marker")
	assert.Equal(t, "bar", unresolved[0].Component)
	assert.Equal(t, "index.md", unresolved[0].FilePath)
	assert.Contains(t, logger.warnings[0].msg, "bar")
	assert.True(t, mdnerrors.IsUnresolved(logger.warnings[0].err))
	assert.False(t, mdnerrors.IsFatal(unresolved[0]))
}

func TestResolveWhitespaceInName(t *testing.T) {
	doc := document.New("index.md", nil)
	doc.Metadata["specialcomponent"] = map[string]any{"layout": "x.html"}

	resolved, unresolved := Resolve(context.Background(), doc, []string{`{#mdn "special component"#}`}, nil)

	require.Len(t, resolved, 1)
	assert.Empty(t, unresolved)
	assert.Equal(t, "specialcomponent", resolved[0].Name)
}

func TestResolveKeepsScanOrderAndDuplicates(t *testing.T) {
	doc := document.New("index.md", []byte("{#mdn \"a\"#} {#mdn \"b\"#} {#mdn \"a\"#}"))
	doc.Metadata["a"] = map[string]any{"layout": "a.html"}
	doc.Metadata["b"] = map[string]any{"layout": "b.html"}

	resolved, _ := Resolve(context.Background(), doc, scanner.Scan(doc.Text()), nil)

	names := make([]string, 0, len(resolved))
	for _, r := range resolved {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "b", "a"}, names)
}

func TestParamsCarriesOwnMarker(t *testing.T) {
	record := map[string]any{"layout": "x.html"}
	r := Resolution{Marker: `{#mdn  "foo" #}`, Name: "foo", Component: record}

	params := r.Params()
	assert.Equal(t, `{#mdn  "foo" #}`, params[MarkerField])
	assert.Equal(t, "x.html", params[LayoutField])
	_, mutated := record[MarkerField]
	assert.False(t, mutated, "Params must not write to the record")
}

func TestLayoutMissing(t *testing.T) {
	r := Resolution{Component: map[string]any{"layout": 42}}
	assert.Equal(t, "", r.Layout())
}

func TestResolveSuggestsSimilarRecords(t *testing.T) {
	doc := document.New("index.md", nil)
	doc.Metadata["hero"] = map[string]any{"layout": "hero.html"}
	doc.Metadata["herb"] = "not a record"

	_, unresolved := Resolve(context.Background(), doc, []string{`{#mdn "herp"#}`}, nil)

	require.Len(t, unresolved, 1)
	assert.Equal(t, []string{"hero"}, unresolved[0].Suggestions())
}
