package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/mdn/internal/config"
	"github.com/conneroisu/mdn/internal/document"
	"github.com/conneroisu/mdn/internal/errors"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/pkg/mdn"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"b"},
	Short:   "Build the site once",
	Long: `Read every document under the source directory, replace its component
markers with rendered layouts and write the result to the destination.

Markers whose component is missing from the front matter are left in place
and reported. Any render failure aborts the build before anything is written.

Examples:
  mdn build                         # src/ -> build/
  mdn build -s content -d public    # custom directories
  mdn build --clean -j 8            # wipe destination, 8 parallel renders`,
	RunE: runBuild,
}

var buildFlags *BuildFlags

func init() {
	rootCmd.AddCommand(buildCmd)
	buildFlags = AddBuildFlags(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "🔨 Building %s -> %s\n", cfg.SourceDir(), cfg.DestinationDir())

	report, err := buildSite(commandContext(cmd), cfg, newPlugin(cfg, logger, nil), logger)
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

func newPlugin(cfg *config.Config, logger *logging.StructuredLogger, metrics *mdn.Metrics) *mdn.Plugin {
	return mdn.New(mdn.Options{
		Directory:     cfg.Directory,
		TemplatesDir:  cfg.TemplatesDir,
		CustomFilters: cfg.CustomFilters,
		Concurrency:   cfg.Concurrency,
		Metrics:       metrics,
		Logger:        logger.Slog(),
	})
}

// buildSite loads the source tree, runs one pass and writes the destination.
// Nothing is written when the pass fails.
func buildSite(ctx context.Context, cfg *config.Config, plugin *mdn.Plugin, logger logging.Logger) (*mdn.Report, error) {
	perf := logging.StartOperation(logger, "build")

	files, err := document.LoadDir(ctx, cfg.SourceDir(), cfg.Ignore)
	if err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	report, err := plugin.Run(ctx, files)
	if err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	dest := cfg.DestinationDir()
	if cfg.Clean {
		if err := cleanDestination(cfg, dest); err != nil {
			perf.EndWithError(ctx, err)
			return nil, err
		}
	}

	if err := files.Write(dest); err != nil {
		perf.EndWithError(ctx, err)
		return nil, err
	}

	perf.End(ctx, "documents", len(files), "destination", dest)
	return report, nil
}

// cleanDestination removes dest unless it is the build root or contains the
// source directory.
func cleanDestination(cfg *config.Config, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot resolve destination", dest)
	}
	absRoot, _ := filepath.Abs(cfg.Directory)
	absSrc, _ := filepath.Abs(cfg.SourceDir())

	if absDest == absRoot || isWithin(absSrc, absDest) {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("refusing to clean %s: it contains the build root or source", dest))
	}

	if err := os.RemoveAll(dest); err != nil {
		return errors.WrapIO(err, errors.ErrCodeFileWrite, "cannot clean destination", dest)
	}
	return nil
}

// isWithin reports whether path is dir or below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func printReport(w io.Writer, report *mdn.Report) {
	fmt.Fprintf(w, "✅ %d documents, %d rewritten, %d of %d markers replaced in %s\n",
		report.Documents, report.Processed, report.Replaced, report.Markers, report.Duration.Round(time.Microsecond))
	if n := len(report.Unresolved); n > 0 {
		fmt.Fprintf(w, "⚠️  %d unresolved marker(s):\n", n)
		for _, diag := range report.Unresolved {
			line := fmt.Sprintf("   - %s: %s", diag.FilePath, diag.Component)
			if hint := errors.FormatSuggestions(diag.Suggestions()); hint != "" {
				line += " (" + hint + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
}
