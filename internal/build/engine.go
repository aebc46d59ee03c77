// Package build runs substitution passes over a document set.
//
// A pass scans every document for component markers, resolves each marker
// against the document's metadata, renders the resolved records concurrently
// and, only once every render has succeeded, splices the normalized output
// into the documents in place of their markers.
package build

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/mdn/internal/document"
	"github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/internal/renderer"
	"github.com/conneroisu/mdn/internal/resolver"
	"github.com/conneroisu/mdn/internal/scanner"
)

// Engine substitutes component markers with rendered layouts.
type Engine struct {
	renderer    renderer.Renderer
	logger      logging.Logger
	concurrency int
	metrics     *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithConcurrency bounds the number of renders in flight. Zero or less means
// unbounded.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithMetrics records every pass into m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine rendering through r.
func NewEngine(r renderer.Renderer, opts ...Option) *Engine {
	e := &Engine{
		renderer: r,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes a successful pass.
type Report struct {
	Documents  int // documents in the set
	Processed  int // documents whose contents were rewritten
	Markers    int // markers found
	Replaced   int // markers replaced with rendered output
	Unresolved []*errors.Error
	Duration   time.Duration
}

type job struct {
	doc    *document.Document
	res    resolver.Resolution
	output string
}

type pending struct {
	doc  *document.Document
	jobs []*job
}

// Run executes one pass over docs. Unresolved markers are left in place and
// reported. Any render failure aborts the pass and leaves every document
// untouched.
func (e *Engine) Run(ctx context.Context, docs document.Set) (*Report, error) {
	perf := logging.StartOperation(e.logger, "substitute")
	start := time.Now()

	report := &Report{Documents: len(docs)}
	work := e.plan(ctx, docs, report)

	if err := e.renderAll(ctx, work); err != nil {
		perf.EndWithError(ctx, err)
		e.metrics.record(nil, time.Since(start))
		return nil, err
	}

	for _, p := range work {
		text, n := splice(p.doc.Text(), p.jobs)
		p.doc.SetText(text)
		report.Processed++
		report.Replaced += n
	}

	report.Duration = time.Since(start)
	perf.End(ctx,
		"documents", report.Documents,
		"processed", report.Processed,
		"replaced", report.Replaced,
		"unresolved", len(report.Unresolved),
	)
	e.metrics.record(report, report.Duration)
	return report, nil
}

// plan scans and resolves documents in path order and returns the render jobs
// of every document with at least one resolved marker.
func (e *Engine) plan(ctx context.Context, docs document.Set, report *Report) []pending {
	var work []pending
	for _, path := range docs.Paths() {
		doc := docs[path]
		if doc == nil {
			continue
		}

		text := doc.Text()
		if !scanner.Contains(text) {
			continue
		}

		markers := scanner.Scan(text)
		report.Markers += len(markers)

		resolved, unresolved := resolver.Resolve(ctx, doc, markers, e.logger)
		report.Unresolved = append(report.Unresolved, unresolved...)
		e.logger.Debug(ctx, "Resolved markers",
			"file", doc.Path,
			"markers", len(markers),
			"resolved", len(resolved),
		)
		if len(resolved) == 0 {
			continue
		}

		p := pending{doc: doc, jobs: make([]*job, len(resolved))}
		for i, res := range resolved {
			p.jobs[i] = &job{doc: doc, res: res}
		}
		work = append(work, p)
	}
	return work
}

func (e *Engine) renderAll(ctx context.Context, work []pending) error {
	g, gctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for _, p := range work {
		for _, j := range p.jobs {
			g.Go(func() error {
				return e.render(gctx, j)
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Engine) render(ctx context.Context, j *job) error {
	layout := j.res.Layout()
	if layout == "" {
		return errors.NewRenderFailure(layout, j.res.Name, j.doc.Path, errors.NewMissingLayout(j.res.Name))
	}
	if err := ctx.Err(); err != nil {
		return errors.NewRenderFailure(layout, j.res.Name, j.doc.Path, err)
	}

	out, err := e.renderer.Render(ctx, layout, map[string]any{"params": j.res.Params()})
	if err != nil {
		return errors.NewRenderFailure(layout, j.res.Name, j.doc.Path, err)
	}

	j.output = Normalize(out)
	return nil
}

// splice replaces, in order, the first remaining occurrence of each job's
// marker with its output and returns the new text with the number of
// replacements. Output inserted by an earlier job is part of the text the
// later jobs search.
func splice(text string, jobs []*job) (string, int) {
	n := 0
	for _, j := range jobs {
		if !strings.Contains(text, j.res.Marker) {
			continue
		}
		text = strings.Replace(text, j.res.Marker, j.output, 1)
		n++
	}
	return text, n
}
