package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	testCases := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "unresolved component",
			err:      NewUnresolvedComponent("bar", "index.md"),
			contains: []string{ErrCodeComponentNotFound, "component:bar", "index.md", "bar could not be found"},
		},
		{
			name:     "template not found",
			err:      NewTemplateNotFound("does-not-exist.html"),
			contains: []string{ErrCodeTemplateNotFound, "template not found: does-not-exist.html"},
		},
		{
			name:     "render failure keeps cause",
			err:      NewRenderFailure("x.html", "foo", "a.md", NewTemplateNotFound("x.html")),
			contains: []string{"component:foo", "a.md", `"x.html"`, "template not found: x.html"},
		},
		{
			name:     "filter load failure",
			err:      NewFilterLoadFailure("mdn-filters.go", fmt.Errorf("no such file")),
			contains: []string{ErrCodeFilterLoad, "mdn-filters.go", "no such file"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, want := range tc.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	notFound := NewTemplateNotFound("missing.html")
	wrapped := NewRenderFailure("missing.html", "foo", "a.md", notFound)

	assert.True(t, errors.Is(wrapped, ErrTemplateNotFound))
	assert.True(t, IsTemplateNotFound(fmt.Errorf("pass failed: %w", wrapped)))
	assert.False(t, IsTemplateNotFound(NewRenderFailure("x", "y", "z", fmt.Errorf("boom"))))

	assert.True(t, IsUnresolved(NewUnresolvedComponent("foo", "a.md")))
	assert.False(t, IsUnresolved(notFound))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(NewUnresolvedComponent("foo", "a.md")))
	assert.True(t, IsFatal(NewTemplateNotFound("x")))
	assert.True(t, IsFatal(NewFilterLoadFailure("f.go", nil)))
	assert.True(t, IsFatal(fmt.Errorf("plain error")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, ErrCodeFileRead, "read"))

	base := NewUnresolvedComponent("foo", "a.md")
	wrapped := Wrap(base, ErrorTypeValidation, "ERR_X", "outer")
	require.NotNil(t, wrapped)
	assert.Equal(t, "foo", wrapped.Component)
	assert.Equal(t, "a.md", wrapped.FilePath)
	assert.Same(t, base, errors.Unwrap(wrapped))

	ioErr := WrapIO(fmt.Errorf("denied"), ErrCodeFileWrite, "cannot write", "build/a.md")
	assert.Equal(t, ErrorTypeIO, ioErr.Type)
	assert.Equal(t, "build/a.md", ioErr.FilePath)
	assert.False(t, ioErr.Recoverable)

	cfgErr := WrapConfig(fmt.Errorf("bad"), "invalid configuration")
	assert.Equal(t, ErrorTypeConfig, cfgErr.Type)
	assert.True(t, IsFatal(cfgErr))
}

func TestWithContext(t *testing.T) {
	err := NewTemplateNotFound("x").
		WithContext("marker", `{#mdn "foo"#}`).
		WithComponent("foo").
		WithFile("index.md")

	assert.Equal(t, `{#mdn "foo"#}`, err.Context["marker"])
	assert.Equal(t, "foo", err.Component)
	assert.Equal(t, "index.md", err.FilePath)
}

type recordingLogger struct {
	warns  []string
	errors []string
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func TestReport(t *testing.T) {
	logger := &recordingLogger{}
	ctx := context.Background()

	Report(ctx, logger, nil)
	Report(ctx, logger, NewUnresolvedComponent("foo", "a.md"))
	Report(ctx, logger, NewTemplateNotFound("x"))
	Report(ctx, logger, fmt.Errorf("plain"))
	Report(ctx, nil, fmt.Errorf("ignored"))

	assert.Equal(t, []string{"a component named foo could not be found"}, logger.warns)
	assert.Equal(t, []string{"template not found: x", "Unhandled error occurred"}, logger.errors)
}
