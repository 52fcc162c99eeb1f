// Package config resolves mailtop settings from defaults, a config file and MAILTOP_* environment
// variables. Command line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/farcloser/mailtop"
	"github.com/farcloser/mailtop/internal/render"
)

const (
	KeyTop      = "top"
	KeyVerbose  = "verbose"
	KeyFormat   = "format"
	KeyProgress = "progress"

	envPrefix = "MAILTOP"
)

// Config holds the resolved settings.
type Config struct {
	Top      int    `mapstructure:"top"`
	Verbose  bool   `mapstructure:"verbose"`
	Format   string `mapstructure:"format"`
	Progress bool   `mapstructure:"progress"`

	// ConfigPath is the file actually read, empty when none was.
	ConfigPath string `mapstructure:"-"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Top:      mailtop.DefaultTopCount,
		Format:   render.FormatAuto,
		Progress: true,
	}
}

// DefaultPath returns $HOME/.config/mailtop/config.yml, or empty when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "mailtop", "config.yml")
}

// Load resolves settings. An explicit path must exist; the default path may be absent. The result is
// not validated: flags may still override it, so callers validate once the flags are applied.
func Load(path string) (Config, error) {
	defaults := Default()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault(KeyTop, defaults.Top)
	v.SetDefault(KeyVerbose, defaults.Verbose)
	v.SetDefault(KeyFormat, defaults.Format)
	v.SetDefault(KeyProgress, defaults.Progress)

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	var (
		cfg  Config
		used string
	)

	if path != "" {
		v.SetConfigFile(path)

		err := v.ReadInConfig()
		if err == nil {
			used = v.ConfigFileUsed()
		} else {
			var configFileNotFound viper.ConfigFileNotFoundError
			if explicit || (!errors.As(err, &configFileNotFound) && !os.IsNotExist(err)) {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	cfg.ConfigPath = used

	return cfg, nil
}

// Validate reports invalid settings.
func (c Config) Validate() error {
	return c.Options().Validate()
}

// Options converts the settings into analysis options.
func (c Config) Options() mailtop.Options {
	return mailtop.Options{
		TopCount: c.Top,
		Verbose:  c.Verbose,
	}
}
