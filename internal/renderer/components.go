package renderer

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/mdn/internal/errors"
)

// ComponentFunc builds a templ component from a component record.
type ComponentFunc func(params map[string]any) templ.Component

// Components renders compiled templ components registered by layout
// identifier.
type Components map[string]ComponentFunc

// Has reports whether a component is registered under layout.
func (c Components) Has(layout string) bool {
	_, ok := c[layout]
	return ok
}

// Render builds the component with data["params"] and renders it with ctx.
func (c Components) Render(ctx context.Context, layout string, data map[string]any) (string, error) {
	fn, ok := c[layout]
	if !ok || fn == nil {
		return "", errors.NewTemplateNotFound(layout)
	}

	params, _ := data["params"].(map[string]any)

	var b strings.Builder
	if err := fn(params).Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
