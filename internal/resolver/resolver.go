// Package resolver attaches component records to scanned markers.
package resolver

import (
	"context"
	"sort"

	"github.com/conneroisu/mdn/internal/document"
	"github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/internal/scanner"
)

// MarkerField is the record field the resolver sets to the originating marker.
const MarkerField = "marker"

// LayoutField names the template identifier inside a component record.
const LayoutField = "layout"

// Resolution is a marker whose component record was found.
type Resolution struct {
	Marker    string
	Name      string
	Component map[string]any
}

// Layout returns the record's template identifier, or "" when it is missing
// or not a string.
func (r Resolution) Layout() string {
	layout, _ := r.Component[LayoutField].(string)
	return layout
}

// Params returns a shallow copy of the record carrying this resolution's
// marker. Templates see the marker of the occurrence they render even when
// one record is referenced by differently spaced markers.
func (r Resolution) Params() map[string]any {
	params := make(map[string]any, len(r.Component)+1)
	for k, v := range r.Component {
		params[k] = v
	}
	params[MarkerField] = r.Marker
	return params
}

// Resolve looks up every marker of doc, in order, in doc's metadata. Found
// records get the marker attached and are returned. Missing ones produce one
// warning each and an UnresolvedComponent diagnostic; they never stop the
// remaining markers from being resolved.
func Resolve(ctx context.Context, doc *document.Document, markers []string, logger logging.Logger) ([]Resolution, []*errors.Error) {
	logger = logging.OrNop(logger)

	var (
		resolved   []Resolution
		unresolved []*errors.Error
	)
	for _, marker := range markers {
		name := scanner.ComponentName(marker)

		record, ok := Lookup(doc, name)
		if !ok {
			diag := errors.NewUnresolvedComponent(name, doc.Path).
				WithContext(MarkerField, marker).
				WithSuggestions(errors.SimilarNames(name, recordNames(doc)))
			logger.Warn(ctx, diag, diag.Message, "file", doc.Path, "name", name, "suggestions", diag.Suggestions())
			unresolved = append(unresolved, diag)
			continue
		}

		record[MarkerField] = marker
		resolved = append(resolved, Resolution{
			Marker:    marker,
			Name:      name,
			Component: record,
		})
	}

	return resolved, unresolved
}

// Lookup returns the component record stored under name in doc's metadata.
// Only non-nil maps count as records.
func Lookup(doc *document.Document, name string) (map[string]any, bool) {
	if name == "" {
		return nil, false
	}
	value, ok := doc.Lookup(name)
	if !ok {
		return nil, false
	}
	record, ok := value.(map[string]any)
	if !ok || record == nil {
		return nil, false
	}
	return record, true
}

// recordNames lists the metadata keys that hold component records, sorted.
func recordNames(doc *document.Document) []string {
	var names []string
	for key := range doc.Metadata {
		if _, ok := Lookup(doc, key); ok {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}
