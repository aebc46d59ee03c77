package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/mdn/internal/logging"
)

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors.
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String formats every issue, one per line.
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	write := func(title string, issues []ValidationError) {
		if len(issues) == 0 {
			return
		}
		builder.WriteString(title + ":\n")
		for _, issue := range issues {
			fmt.Fprintf(&builder, "  • %s: %s\n", issue.Field, issue.Message)
			for _, suggestion := range issue.Suggestions {
				fmt.Fprintf(&builder, "    💡 %s\n", suggestion)
			}
		}
	}

	write("❌ Validation Errors", vr.Errors)
	write("⚠️  Validation Warnings", vr.Warnings)

	return builder.String()
}

func (vr *ValidationResult) fail(field string, value interface{}, msg string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

func (vr *ValidationResult) warn(field string, value interface{}, msg string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: msg, Suggestions: suggestions})
}

// Validate checks cfg and reports errors and warnings.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	for _, field := range []struct {
		name     string
		value    string
		required bool
	}{
		{"source", cfg.Source, true},
		{"destination", cfg.Destination, true},
		{"templates_dir", cfg.TemplatesDir, true},
		{"custom_filters", cfg.CustomFilters, false},
	} {
		if field.value == "" {
			if field.required {
				result.fail(field.name, field.value, "must not be empty")
			}
			continue
		}
		if err := validatePath(field.value); err != nil {
			result.fail(field.name, field.value, err.Error(), "use a path inside the build directory")
		}
	}

	if cfg.Source != "" && cfg.Destination != "" {
		src, dst := absPath(cfg.SourceDir()), absPath(cfg.DestinationDir())
		switch {
		case src == dst:
			result.fail("destination", cfg.Destination, "must differ from source",
				fmt.Sprintf("try destination: %s", DefaultDestination))
		case isWithin(dst, src):
			result.fail("destination", cfg.Destination, "must not be inside source, built files would be read back as documents",
				"place source and destination side by side, e.g. src and build")
		case isWithin(src, dst):
			result.fail("destination", cfg.Destination, "must not contain source",
				"place source and destination side by side, e.g. src and build")
		}
	}

	if cfg.Concurrency < 0 {
		result.fail("concurrency", cfg.Concurrency, "must be zero (unbounded) or positive")
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		result.fail("log.level", cfg.Log.Level, err.Error(), "one of: debug, info, warn, error")
	}

	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		result.fail("log.format", cfg.Log.Format, "unknown log format", "one of: text, json")
	}

	if cfg.Watch.Debounce < 0 {
		result.fail("watch.debounce", cfg.Watch.Debounce, "must not be negative")
	}

	for _, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail("ignore", pattern, "malformed glob pattern")
		}
	}

	if src := cfg.SourceDir(); src != "" && !pathExists(src) {
		result.warn("source", cfg.Source, "directory does not exist")
	}
	if tpl := cfg.Path(cfg.TemplatesDir); tpl != "" && !pathExists(tpl) {
		result.warn("templates_dir", cfg.TemplatesDir, "directory does not exist, no layouts will be available")
	}

	result.Valid = !result.HasErrors()
	return result
}

// validatePath rejects relative paths that climb out of the build directory
// and shell metacharacters.
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	if !filepath.IsAbs(cleanPath) {
		if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("path contains traversal: %s", path)
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// isWithin reports whether path lies below dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
