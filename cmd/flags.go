package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/conneroisu/mdn/internal/config"
)

// BuildFlags are the flags shared by build and watch.
type BuildFlags struct {
	Source        string
	Destination   string
	TemplatesDir  string
	CustomFilters string
	Concurrency   int
	Clean         bool
	Ignore        []string
}

// buildBindings maps build flag names to configuration keys.
var buildBindings = map[string]string{
	"source":      "source",
	"destination": "destination",
	"templates":   "templates_dir",
	"filters":     "custom_filters",
	"concurrency": "concurrency",
	"clean":       "clean",
	"ignore":      "ignore",
}

// AddBuildFlags registers the build flags on cmd. The flags are bound to
// their configuration keys when cmd runs, so build and watch can share keys.
func AddBuildFlags(cmd *cobra.Command) *BuildFlags {
	flags := &BuildFlags{}
	fs := cmd.Flags()

	fs.StringVarP(&flags.Source, "source", "s", config.DefaultSource, "directory holding the documents")
	fs.StringVarP(&flags.Destination, "destination", "d", config.DefaultDestination, "directory the built documents are written to")
	fs.StringVarP(&flags.TemplatesDir, "templates", "t", config.DefaultTemplatesDir, "directory holding the layouts")
	fs.StringVar(&flags.CustomFilters, "filters", config.DefaultCustomFilters, "Go file whose exported functions become template filters")
	fs.IntVarP(&flags.Concurrency, "concurrency", "j", 0, "maximum parallel renders (0 = unbounded)")
	fs.BoolVar(&flags.Clean, "clean", false, "remove the destination directory before writing")
	fs.StringSliceVar(&flags.Ignore, "ignore", nil, "glob of source files to skip (repeatable)")

	AddFlagValidation(cmd, "concurrency", ValidateConcurrency)

	prev := cmd.PreRunE
	cmd.PreRunE = func(c *cobra.Command, args []string) error {
		SetViperBindings(c, buildBindings, false)
		if prev != nil {
			return prev(c, args)
		}
		return nil
	}

	return flags
}

// SetViperBindings binds flags of cmd to viper configuration keys. Persistent
// selects the persistent flag set.
func SetViperBindings(cmd *cobra.Command, bindings map[string]string, persistent bool) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	for flagName, configKey := range bindings {
		if flag := fs.Lookup(flagName); flag != nil {
			_ = viper.BindPFlag(configKey, flag)
		}
	}
}

// AddFlagValidation validates a flag's value when it is set.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateConcurrency accepts zero or a positive integer.
func ValidateConcurrency(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid concurrency: %s", s)
	}
	if n < 0 {
		return fmt.Errorf("concurrency must be zero or positive, got %d", n)
	}
	return nil
}
