package document

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/conneroisu/mdn/internal/errors"
)

// LoadDir reads every regular file under dir into a Set keyed by its
// slash-separated path relative to dir. Files or directories whose base name
// or relative path matches one of the ignore globs are skipped.
func LoadDir(ctx context.Context, dir string, ignore []string) (Set, error) {
	set := Set{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if ignored(rel, ignore) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return errors.WrapIO(err, errors.ErrCodeFileRead, "cannot read document", path)
		}
		doc, err := Parse(rel, raw)
		if err != nil {
			return err
		}
		if info, err := d.Info(); err == nil {
			doc.Mode = info.Mode().Perm()
		}
		set.Add(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return set, nil
}

func ignored(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Write stores every document's contents under dir, keeping relative paths.
// Each file is written atomically so a failed build never leaves a half
// written output file behind.
func (s Set) Write(dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot resolve destination", dir)
	}

	for _, p := range s.Paths() {
		doc := s[p]
		target := filepath.Join(root, filepath.FromSlash(p))
		if rel, err := filepath.Rel(root, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return errors.NewValidationError(errors.ErrCodePathTraversal,
				"document path escapes the destination directory").WithFile(p)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot create output directory", filepath.Dir(target))
		}
		if err := atomic.WriteFile(target, bytes.NewReader(doc.Contents)); err != nil {
			return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot write document", target)
		}

		mode := doc.Mode
		if mode == 0 {
			mode = DefaultMode
		}
		if err := os.Chmod(target, mode); err != nil {
			return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot set document mode", target)
		}
	}

	return nil
}
