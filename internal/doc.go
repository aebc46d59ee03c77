// Package internal contains the implementation packages behind the mdn CLI
// and the pkg/mdn plugin API.
//
// # Package Organization
//
//   - document: documents, front matter and the in-memory file set
//   - scanner: marker detection and component name extraction
//   - resolver: marker to component record lookup
//   - filters: builtin template filters and the custom filters module loader
//   - renderer: the layout environment, templ components and renderer chains
//   - build: the substitution pass, output normalization and pass metrics
//   - config: Viper-based configuration with validation
//   - watcher: debounced file system monitoring for watch mode
//   - errors: the structured error taxonomy shared by every package
//   - logging: the Logger interface over log/slog
//   - version: build and VCS information
//
// # Data Flow
//
// A pass reads the source tree into a document.Files set. For every document
// the scanner finds markers, the resolver looks their component records up in
// the document metadata, and the build engine renders each record's layout
// through a renderer.Renderer. Output is spliced back only after every render
// of the pass has succeeded, so a failed pass leaves the file set untouched.
package internal
