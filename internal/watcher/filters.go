package watcher

import (
	"path/filepath"
	"strings"
)

// NoHiddenFilter skips dotfiles, including editor lock files such as .#page.md.
func NoHiddenFilter(path string) bool {
	return !isHidden(path)
}

// NoBackupFilter skips editor backup and swap files.
func NoBackupFilter(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, "~") {
		return false
	}
	switch filepath.Ext(base) {
	case ".swp", ".swx", ".tmp", ".bak":
		return false
	}
	return true
}

// WithinFilter accepts paths below one of dirs or equal to one of files.
func WithinFilter(dirs []string, files []string) FileFilter {
	cleanDirs := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d != "" {
			cleanDirs = append(cleanDirs, filepath.Clean(d))
		}
	}
	cleanFiles := make(map[string]bool, len(files))
	for _, f := range files {
		if f != "" {
			cleanFiles[filepath.Clean(f)] = true
		}
	}

	return func(path string) bool {
		p := filepath.Clean(path)
		if cleanFiles[p] {
			return true
		}
		for _, d := range cleanDirs {
			if rel, err := filepath.Rel(d, p); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}
}
