// Package cmd provides the mdn command-line interface.
//
// Configuration is read, from highest to lowest priority, from:
//  1. command-line flags
//  2. MDN_* environment variables (MDN_SOURCE, MDN_LOG_LEVEL, ...)
//  3. the file named by --config or MDN_CONFIG_FILE
//  4. .mdn.yml in the current directory
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/mdn/internal/config"
	"github.com/conneroisu/mdn/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mdn",
	Short: "Replace inline component markers with rendered layouts",
	Long: `mdn builds a static site by replacing component markers in documents
with rendered html/template layouts.

A marker such as {#mdn "hero"#} names a component record in the document's
front matter. The record's "layout" selects a template in the layouts
directory and the whole record is available to it as .params.

Quick Start:
  mdn build                 Build src/ into build/
  mdn watch                 Build, then rebuild on every change
  mdn version               Show version information`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		SetViperBindings(cmd.Root(), rootBindings, true)
		return nil
	},
}

// rootBindings maps persistent flag names to configuration keys.
var rootBindings = map[string]string{
	"directory":  "directory",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .mdn.yml, can also use MDN_CONFIG_FILE env var)")
	flags.StringP("directory", "C", config.DefaultDirectory, "build root that relative paths resolve against")
	flags.StringP("log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text, json)")
}

// initConfig selects the config file: --config, then MDN_CONFIG_FILE, then
// .mdn.yml in the current directory.
func initConfig() {
	explicit := true
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("MDN_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		explicit = false
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mdn")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if explicit {
		fmt.Fprintln(os.Stderr, "Warning: cannot read config file:", err)
	}
}

// loadConfig loads the configuration and builds the logger it describes.
func loadConfig(cmd *cobra.Command) (*config.Config, *logging.StructuredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	result := config.Validate(cfg)
	for _, w := range result.Warnings {
		logger.Warn(commandContext(cmd), &w, w.Message, "field", w.Field, "value", w.Value)
	}

	return cfg, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
