// Package config loads spellrepo settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/phobologic/spellrepo/internal/tags"
)

const (
	// AppName is the application name.
	AppName = "spellrepo"
	// FileName is the config file looked up in the config directory.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. SPELLREPO_LOG_LEVEL.
	EnvPrefix = "SPELLREPO"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested file is missing.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig is wrapped by every validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config holds every spellrepo setting.
	Config struct {
		// Roots are the directories searched for speller archives, in order.
		Roots    []string `mapstructure:"roots" toml:"roots"`
		LogLevel string   `mapstructure:"log_level" toml:"log_level"`
		// ResolveLocales canonicalises archive stems as BCP 47 tags.
		ResolveLocales bool    `mapstructure:"resolve_locales" toml:"resolve_locales"`
		Aliases        Aliases `mapstructure:"aliases" toml:"aliases"`
	}

	// Aliases configures the script and region alias table.
	Aliases struct {
		Bases   []string `mapstructure:"bases" toml:"bases"`
		Regions []string `mapstructure:"regions" toml:"regions"`
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Roots:          []string{},
		LogLevel:       "info",
		ResolveLocales: true,
		Aliases: Aliases{
			Bases:   tags.DefaultBases(),
			Regions: tags.DefaultRegions(),
		},
	}
}

// Dir returns the spellrepo configuration directory.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// Load reads the configuration from fsys. It returns the path of the file
// used, or "" when only defaults and environment were applied.
func Load(fsys afero.Fs, opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("toml")

	defaults := DefaultConfig()
	v.SetDefault("roots", defaults.Roots)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("resolve_locales", defaults.ResolveLocales)
	v.SetDefault("aliases.bases", defaults.Aliases.Bases)
	v.SetDefault("aliases.regions", defaults.Aliases.Regions)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := opts.ConfigFilePath
	if path != "" {
		if ok, _ := afero.Exists(fsys, path); !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
	} else {
		dir := opts.ConfigDirPath
		if dir == "" {
			var err error
			if dir, err = Dir(); err != nil {
				return nil, "", err
			}
		}
		candidate := filepath.Join(dir, FileName)
		if ok, _ := afero.Exists(fsys, candidate); ok {
			path = candidate
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}

// Validate checks values that the file format cannot express.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	for _, root := range c.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("%w: empty root directory", ErrInvalidConfig)
		}
	}
	for _, b := range c.Aliases.Bases {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("%w: empty alias base", ErrInvalidConfig)
		}
	}
	for _, r := range c.Aliases.Regions {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty alias region", ErrInvalidConfig)
		}
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Expander builds the tag expander described by the configuration.
func (c *Config) Expander() *tags.Expander {
	resolve := tags.NoResolver
	if c.ResolveLocales {
		resolve = tags.CanonicalResolver
	}
	return tags.NewExpander(resolve, tags.NewAliasTable(c.Aliases.Bases, c.Aliases.Regions))
}

// Encode renders c as a TOML document.
func Encode(c *Config) ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
