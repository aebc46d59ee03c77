package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/mdn/internal/errors"
)

const frontMatterDelimiter = "---"

// Parse splits optional YAML front matter off raw and returns the document.
// Front matter must start on the first line with "---" and end with a line
// holding "---" or "...".
func Parse(path string, raw []byte) (*Document, error) {
	doc := New(path, raw)

	header, body, found, err := splitFrontMatter(raw)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeFrontMatter, err.Error()).WithFile(path)
	}
	if !found {
		return doc, nil
	}

	if len(bytes.TrimSpace(header)) > 0 {
		if err := yaml.Unmarshal(header, &doc.Metadata); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeFrontMatter,
				"invalid YAML front matter").WithFile(path)
		}
		if doc.Metadata == nil {
			doc.Metadata = map[string]any{}
		}
	}
	doc.Contents = body

	return doc, nil
}

func splitFrontMatter(raw []byte) (header, body []byte, found bool, err error) {
	first, rest, _ := cutLine(raw)
	if string(trimCR(first)) != frontMatterDelimiter {
		return nil, raw, false, nil
	}

	start := len(raw) - len(rest)
	offset := start
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		switch string(trimCR(line)) {
		case frontMatterDelimiter, "...":
			return raw[start:offset], next, true, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}

	return nil, nil, false, fmt.Errorf("front matter opened with %q is never closed", frontMatterDelimiter)
}

// cutLine splits b after the first newline. ok reports whether a newline was found.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func trimCR(b []byte) []byte {
	return bytes.TrimSuffix(b, []byte("\r"))
}
