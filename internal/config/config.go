// Package config loads mdn settings with Viper from a YAML file, MDN_*
// environment variables and command-line flags, fills in defaults and
// validates the result.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/mdn/internal/errors"
)

// Defaults.
const (
	DefaultDirectory     = "."
	DefaultSource        = "src"
	DefaultDestination   = "build"
	DefaultTemplatesDir  = "layouts"
	DefaultCustomFilters = "mdn-filters.go"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultDebounce      = 300 * time.Millisecond
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// MDN_TEMPLATES_DIR or MDN_LOG_LEVEL.
const EnvPrefix = "MDN"

type Config struct {
	Directory     string      `mapstructure:"directory" yaml:"directory"`
	Source        string      `mapstructure:"source" yaml:"source"`
	Destination   string      `mapstructure:"destination" yaml:"destination"`
	TemplatesDir  string      `mapstructure:"templates_dir" yaml:"templates_dir"`
	CustomFilters string      `mapstructure:"custom_filters" yaml:"custom_filters"`
	Concurrency   int         `mapstructure:"concurrency" yaml:"concurrency"`
	Clean         bool        `mapstructure:"clean" yaml:"clean"`
	Ignore        []string    `mapstructure:"ignore" yaml:"ignore"`
	Log           LogConfig   `mapstructure:"log" yaml:"log"`
	Watch         WatchConfig `mapstructure:"watch" yaml:"watch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("directory", DefaultDirectory)
	v.SetDefault("source", DefaultSource)
	v.SetDefault("destination", DefaultDestination)
	v.SetDefault("templates_dir", DefaultTemplatesDir)
	v.SetDefault("custom_filters", DefaultCustomFilters)
	v.SetDefault("concurrency", 0)
	v.SetDefault("clean", false)
	v.SetDefault("ignore", []string{})
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("watch.debounce", DefaultDebounce)
}

// BindEnv makes MDN_* environment variables override file values.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfig(err, "cannot decode configuration")
	}

	// Comma separated lists from env or flags arrive as a single string.
	if v.IsSet("ignore") && len(cfg.Ignore) == 0 {
		cfg.Ignore = v.GetStringSlice("ignore")
	}

	if cfg.Directory == "" {
		cfg.Directory = DefaultDirectory
	}

	result := Validate(&cfg)
	if result.HasErrors() {
		issues := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			issues[i] = e.Field + ": " + e.Message
		}
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "invalid configuration: "+strings.Join(issues, "; ")).
			WithContext("validation", result)
	}

	return &cfg, nil
}

// Path resolves p against the build directory. Absolute paths are returned
// unchanged.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Directory, p)
}

// SourceDir returns the resolved source directory.
func (c *Config) SourceDir() string { return c.Path(c.Source) }

// DestinationDir returns the resolved destination directory.
func (c *Config) DestinationDir() string { return c.Path(c.Destination) }
