// Package renderer turns a resolved component record into markup.
//
// The substitution engine only depends on the Renderer interface. Layouts are
// usually html/template files read from the project's templates directory
// (see Environment), but a host may also register compiled templ components
// under a layout identifier and combine both sources with a Chain.
package renderer

import (
	"context"
	"path"
	"strings"

	"github.com/conneroisu/mdn/internal/errors"
)

// Renderer renders the template identified by layout with data. The engine
// passes {"params": record} as data.
type Renderer interface {
	Render(ctx context.Context, layout string, data map[string]any) (string, error)
	Has(layout string) bool
}

// Chain tries each renderer in order and uses the first that has the layout.
type Chain []Renderer

// Has reports whether any renderer in the chain knows layout.
func (c Chain) Has(layout string) bool {
	for _, r := range c {
		if r != nil && r.Has(layout) {
			return true
		}
	}
	return false
}

// Render implements Renderer.
func (c Chain) Render(ctx context.Context, layout string, data map[string]any) (string, error) {
	for _, r := range c {
		if r != nil && r.Has(layout) {
			return r.Render(ctx, layout, data)
		}
	}
	return "", errors.NewTemplateNotFound(layout)
}

// cleanLayout normalizes a layout identifier to the slash separated form
// templates are registered under.
func cleanLayout(layout string) (string, error) {
	id := strings.ReplaceAll(strings.TrimSpace(layout), "\\", "/")
	if id == "" {
		return "", errors.NewTemplateNotFound(layout)
	}
	if path.IsAbs(id) {
		return "", invalidLayout(layout, "absolute layout paths are not allowed")
	}
	id = path.Clean(id)
	if id == ".." || strings.HasPrefix(id, "../") {
		return "", invalidLayout(layout, "layout escapes the templates directory")
	}
	return id, nil
}

func invalidLayout(layout, reason string) *errors.Error {
	return &errors.Error{
		Type:    errors.ErrorTypeRender,
		Code:    errors.ErrCodePathTraversal,
		Message: reason + ": " + layout,
	}
}
