package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/mdn/internal/config"
	"github.com/conneroisu/mdn/internal/logging"
	"github.com/conneroisu/mdn/internal/watcher"
	"github.com/conneroisu/mdn/pkg/mdn"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Build, then rebuild whenever sources, layouts or filters change",
	Long: `Build the site, then watch the source directory, the layouts directory and
the custom filters module and rebuild after every burst of changes.

A failed rebuild is reported and the previous output is left in place.

Examples:
  mdn watch                   # watch with the configured paths
  mdn watch --verbose         # list every changed file`,
	RunE: runWatch,
}

var (
	watchFlags   *BuildFlags
	watchVerbose bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags = AddBuildFlags(watchCmd)
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Verbose output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	metrics := mdn.NewMetrics()
	plugin := newPlugin(cfg, logger, metrics)

	rebuild := func(ctx context.Context) {
		report, err := buildSite(ctx, cfg, plugin, logger)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ Build failed: %v\n", err)
			return
		}
		printReport(out, report)
	}

	fmt.Fprintln(out, "🔨 Initial build...")
	rebuild(ctx)

	fileWatcher, err := newSiteWatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	fileWatcher.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		if watchVerbose {
			fmt.Fprintln(out, "📁 File changes detected:")
			for _, event := range events {
				fmt.Fprintf(out, "   %s: %s\n", event.Type, event.Path)
			}
		} else {
			fmt.Fprintf(out, "📁 %d file(s) changed\n", len(events))
		}

		rebuild(ctx)

		snap := metrics.Snapshot()
		logger.Debug(ctx, "Watch statistics",
			"passes", snap.TotalPasses,
			"failed", snap.FailedPasses,
			"average", snap.AverageDuration,
		)
		return nil
	})

	if err := fileWatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	fmt.Fprintln(out, "👀 Watching for changes... (Press Ctrl+C to stop)")
	<-ctx.Done()
	fmt.Fprintln(out, "\n🛑 Stopping file watcher...")

	return nil
}

// newSiteWatcher watches the source tree, the layouts and the directory of
// the custom filters module, filtered down to exactly those inputs.
func newSiteWatcher(cfg *config.Config, logger logging.Logger) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return nil, err
	}

	src := cfg.SourceDir()
	layouts := cfg.Path(cfg.TemplatesDir)
	filtersFile := cfg.Path(cfg.CustomFilters)

	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoBackupFilter)
	fw.AddFilter(watcher.WithinFilter([]string{src, layouts}, []string{filtersFile}))

	if err := fw.AddRecursive(src); err != nil {
		fw.Stop()
		return nil, fmt.Errorf("cannot watch source %s: %w", src, err)
	}
	if err := fw.AddRecursive(layouts); err != nil {
		logger.Warn(context.Background(), err, "Not watching layouts", "dir", layouts)
	}
	if cfg.CustomFilters != "" {
		if err := fw.AddPath(filepath.Dir(filtersFile)); err != nil {
			logger.Warn(context.Background(), err, "Not watching custom filters", "path", filtersFile)
		}
	}

	return fw, nil
}
