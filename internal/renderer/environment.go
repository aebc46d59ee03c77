package renderer

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/logging"
)

// Environment is a parsed set of html/template layouts. Every template is
// named by its slash separated path relative to the templates directory, so
// layouts can include each other with {{ template "partials/card.html" . }}.
//
// An Environment is read-only after construction and safe for concurrent use.
type Environment struct {
	root  string
	tmpl  *template.Template
	names []string
}

// NewEnvironment parses every regular, non-hidden file under dir. Filters in
// funcs are available to all templates. A missing dir yields an empty
// environment; any parse error is returned.
func NewEnvironment(dir string, funcs template.FuncMap, logger logging.Logger) (*Environment, error) {
	logger = logging.OrNop(logger).WithComponent("renderer")
	env := &Environment{
		root: dir,
		tmpl: template.New("").Funcs(funcs),
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		logger.Warn(context.Background(), err, "Templates directory not found, no layouts available", "dir", dir)
		return env, nil
	case err != nil:
		return nil, errors.WrapIO(err, errors.ErrCodeFileRead, "cannot read templates directory", dir)
	case !info.IsDir():
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "templates path is not a directory: "+dir)
	}

	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO(err, errors.ErrCodeFileRead, "cannot walk templates directory", p)
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return env.parseFile(p)
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(env.names)
	logger.Debug(context.Background(), "Parsed layouts", "dir", dir, "count", len(env.names))
	return env, nil
}

func (e *Environment) parseFile(p string) error {
	rel, err := filepath.Rel(e.root, p)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileRead, "cannot resolve template path", p)
	}
	name := filepath.ToSlash(rel)

	src, err := os.ReadFile(p)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileRead, "cannot read template", p)
	}

	if _, err := e.tmpl.New(name).Parse(string(src)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeRender, errors.ErrCodeTemplateParse, "cannot parse template "+name).WithFile(p)
	}
	e.names = append(e.names, name)
	return nil
}

// Names returns the registered layout identifiers in sorted order.
func (e *Environment) Names() []string {
	return append([]string(nil), e.names...)
}

// Has reports whether layout names a parsed template.
func (e *Environment) Has(layout string) bool {
	id, err := cleanLayout(layout)
	if err != nil {
		return false
	}
	return e.tmpl.Lookup(id) != nil
}

// Render executes the layout with data.
func (e *Environment) Render(ctx context.Context, layout string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := cleanLayout(layout)
	if err != nil {
		return "", err
	}

	t := e.tmpl.Lookup(id)
	if t == nil {
		return "", errors.NewTemplateNotFound(layout)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
