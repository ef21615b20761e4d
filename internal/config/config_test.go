package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(afero.NewMemMapFs(), LoadOptions{ConfigDirPath: "/cfg"})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Empty(t, cfg.Roots)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.ResolveLocales)
	assert.Equal(t, []string{"se", "sma", "smn", "sms", "smj"}, cfg.Aliases.Bases)
	assert.Equal(t, []string{"NO", "SE", "FI"}, cfg.Aliases.Regions)
}

func TestLoadFromConfigDir(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg/config.toml", `
roots = ["/usr/share/voikko", "/opt/dicts"]
log_level = "debug"
resolve_locales = false

[aliases]
regions = ["NO"]
`)

	cfg, path, err := Load(fsys, LoadOptions{ConfigDirPath: "/cfg"})
	require.NoError(t, err)
	assert.Equal(t, "/cfg/config.toml", path)
	assert.Equal(t, []string{"/usr/share/voikko", "/opt/dicts"}, cfg.Roots)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.False(t, cfg.ResolveLocales)
	assert.Equal(t, []string{"NO"}, cfg.Aliases.Regions)
	// Unset keys keep their defaults.
	assert.Len(t, cfg.Aliases.Bases, 5)

	got := cfg.Expander().Expand("se")
	assert.Equal(t, []string{"se", "se-Latn-NO", "se-NO"}, got)
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/etc/spellrepo.toml", `roots = ["/dicts"]`)
	writeConfig(t, fsys, "/cfg/config.toml", `roots = ["/ignored"]`)

	cfg, path, err := Load(fsys, LoadOptions{ConfigFilePath: "/etc/spellrepo.toml", ConfigDirPath: "/cfg"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/spellrepo.toml", path)
	assert.Equal(t, []string{"/dicts"}, cfg.Roots)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, _, err := Load(afero.NewMemMapFs(), LoadOptions{ConfigFilePath: "/nope.toml"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg/config.toml", `roots = [`)

	_, _, err := Load(fsys, LoadOptions{ConfigDirPath: "/cfg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/cfg/config.toml")
}

func TestLoadInvalidLogLevel(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg/config.toml", `log_level = "chatty"`)

	_, _, err := Load(fsys, LoadOptions{ConfigDirPath: "/cfg"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SPELLREPO_LOG_LEVEL", "warn")
	t.Setenv("SPELLREPO_ROOTS", "/a,/b")

	cfg, _, err := Load(afero.NewMemMapFs(), LoadOptions{ConfigDirPath: "/cfg"})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, cfg.Level())
	assert.Equal(t, []string{"/a", "/b"}, cfg.Roots)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"blank root", func(c *Config) { c.Roots = []string{"/a", " "} }, false},
		{"blank base", func(c *Config) { c.Aliases.Bases = []string{""} }, false},
		{"blank region", func(c *Config) { c.Aliases.Regions = []string{"NO", ""} }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"no aliases", func(c *Config) { c.Aliases = Aliases{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestEncodeLoadsBack(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Roots = []string{"/dicts"}
	data, err := Encode(cfg)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	writeConfig(t, fsys, "/cfg/config.toml", string(data))

	loaded, _, err := Load(fsys, LoadOptions{ConfigDirPath: "/cfg"})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func writeConfig(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}
