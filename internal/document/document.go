// Package document models the files a build pass works on.
//
// A Document is a path, a mutable content buffer and a metadata map. Metadata
// normally comes from YAML front matter and is where component records for
// markers live. The Set type is the mapping a pass receives; the pass reads
// metadata and rewrites Contents, nothing else.
package document

import (
	"io/fs"
	"sort"
)

// DefaultMode is used when writing a document whose Mode is unset.
const DefaultMode fs.FileMode = 0o644

// Document is a single source file with its front matter split off.
type Document struct {
	Path     string
	Contents []byte
	Metadata map[string]any
	Mode     fs.FileMode
}

// New returns a document with initialized metadata.
func New(path string, contents []byte) *Document {
	return &Document{
		Path:     path,
		Contents: contents,
		Metadata: map[string]any{},
		Mode:     DefaultMode,
	}
}

// Text returns the current contents as a string.
func (d *Document) Text() string {
	return string(d.Contents)
}

// SetText replaces the contents.
func (d *Document) SetText(s string) {
	d.Contents = []byte(s)
}

// Lookup returns the metadata value stored under key.
func (d *Document) Lookup(key string) (any, bool) {
	if d == nil || d.Metadata == nil {
		return nil, false
	}
	v, ok := d.Metadata[key]
	return v, ok
}

// Set maps a document path to its document.
type Set map[string]*Document

// Paths returns the document paths in lexical order.
func (s Set) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Add stores doc under its path.
func (s Set) Add(doc *Document) {
	s[doc.Path] = doc
}
