// Package mdn replaces inline component markers in documents with rendered
// layouts.
//
// A marker such as {#mdn "hero"#} names a component record stored in the
// document's metadata (usually its YAML front matter):
//
//	---
//	hero:
//	  layout: hero.html
//	  title: Welcome
//	---
//	{#mdn "hero"#}
//
// The record's layout is rendered from the templates directory with the
// record available as .params, and the normalized output replaces the marker.
// Markers whose record is missing are left untouched and reported as
// warnings. A failing render aborts the whole pass without modifying any
// document.
//
// Typical use:
//
//	files, _ := document.LoadDir(ctx, "src", nil)
//	p := mdn.New(mdn.Options{Directory: ".", Logger: slog.Default()})
//	report, err := p.Run(ctx, files)
package mdn

import (
	"context"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/conneroisu/mdn/internal/build"
	"github.com/conneroisu/mdn/internal/document"
	"github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/filters"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/internal/renderer"
)

type (
	// Files is the document set a pass works on, keyed by path.
	Files = document.Set
	// File is one document with its metadata.
	File = document.Document
	// ComponentFunc builds a templ component from a component record.
	ComponentFunc = renderer.ComponentFunc
	// Report summarizes a successful pass.
	Report = build.Report
	// Metrics accumulates statistics over several passes.
	Metrics = build.Metrics
)

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics { return build.NewMetrics() }

// Defaults used for zero-valued Options fields.
const (
	DefaultDirectory     = "."
	DefaultTemplatesDir  = "layouts"
	DefaultCustomFilters = "mdn-filters.go"
)

// Options configures a Plugin. Zero values take the defaults.
type Options struct {
	// Directory is the build root that relative paths resolve against.
	Directory string
	// TemplatesDir holds the html/template layouts.
	TemplatesDir string
	// CustomFilters is a Go source file (package main) whose exported
	// functions become template filters. The default file is optional; a
	// file set explicitly must exist.
	CustomFilters string
	// Concurrency bounds parallel renders. Zero means unbounded.
	Concurrency int
	// Components registers templ components by layout identifier. They take
	// precedence over files in TemplatesDir.
	Components map[string]ComponentFunc
	// Metrics, when set, records every pass.
	Metrics *Metrics
	// Logger receives diagnostics. When nil, Debug is used instead.
	Logger *slog.Logger
	// Debug is a printf-style sink for hosts without slog.
	Debug func(format string, args ...any)
}

func (o Options) withDefaults() Options {
	if o.Directory == "" {
		o.Directory = DefaultDirectory
	}
	if o.TemplatesDir == "" {
		o.TemplatesDir = DefaultTemplatesDir
	}
	if o.CustomFilters == "" {
		o.CustomFilters = DefaultCustomFilters
	}
	if o.Concurrency < 0 {
		o.Concurrency = 0
	}
	return o
}

// Plugin runs substitution passes with fixed options.
type Plugin struct {
	opts   Options
	logger logging.Logger
}

// New creates a Plugin. Options are merged over the defaults.
func New(opts Options) *Plugin {
	var logger logging.Logger
	switch {
	case opts.Logger != nil:
		logger = logging.FromSlog(opts.Logger)
	case opts.Debug != nil:
		logger = logging.NewPrintf(opts.Debug)
	default:
		logger = logging.NewNop()
	}

	return &Plugin{
		opts:   opts.withDefaults(),
		logger: logger.WithComponent("mdn"),
	}
}

// Options returns the effective options.
func (p *Plugin) Options() Options { return p.opts }

// Run executes one pass over files. Filters and layouts are loaded afresh for
// every pass so edits are picked up between runs.
func (p *Plugin) Run(ctx context.Context, files Files) (*Report, error) {
	p.logger.Debug(ctx, "running with options",
		"directory", p.opts.Directory,
		"templatesDir", p.opts.TemplatesDir,
		"customFilters", p.opts.CustomFilters,
		"concurrency", p.opts.Concurrency,
		"components", len(p.opts.Components),
	)

	r, err := p.renderer(ctx)
	if err != nil {
		errors.Report(ctx, p.logger, err)
		return nil, err
	}

	engine := build.NewEngine(r,
		build.WithLogger(p.logger),
		build.WithConcurrency(p.opts.Concurrency),
		build.WithMetrics(p.opts.Metrics),
	)

	report, err := engine.Run(ctx, files)
	if err != nil {
		errors.Report(ctx, p.logger, err)
		return nil, err
	}
	return report, nil
}

// Process runs a pass and calls done exactly once with its outcome.
func (p *Plugin) Process(ctx context.Context, files Files, done func(error)) {
	_, err := p.Run(ctx, files)
	if done != nil {
		done(err)
	}
}

func (p *Plugin) renderer(ctx context.Context) (renderer.Renderer, error) {
	custom, err := p.loadFilters(ctx)
	if err != nil {
		return nil, err
	}

	env, err := renderer.NewEnvironment(p.path(p.opts.TemplatesDir), filters.Merge(filters.Builtins(), custom), p.logger)
	if err != nil {
		return nil, err
	}

	if len(p.opts.Components) == 0 {
		return env, nil
	}
	return renderer.Chain{renderer.Components(p.opts.Components), env}, nil
}

func (p *Plugin) loadFilters(ctx context.Context) (template.FuncMap, error) {
	path := p.path(p.opts.CustomFilters)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && p.opts.CustomFilters == DefaultCustomFilters {
			p.logger.Debug(ctx, "No custom filters module, using built-in filters only", "path", path)
			return nil, nil
		}
		return nil, errors.NewFilterLoadFailure(path, err)
	}

	funcs, err := filters.Load(path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug(ctx, "Loaded custom filters", "path", path, "count", len(funcs))
	return funcs, nil
}

func (p *Plugin) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.opts.Directory, rel)
}
