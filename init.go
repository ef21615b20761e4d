package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phobologic/spellrepo/internal/config"
)

// initCommand implements `spellrepo init`, which writes a default config
// file seeded with any --root flags.
func (a *app) initCommand() *cobra.Command {
	var dryRun, force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Long: `Write a spellrepo config file holding the default settings and the roots
given with --root. An existing file is left alone unless --force is set.

path defaults to <user config dir>/spellrepo/config.toml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := generateConfig(a.roots, a.logLevel)
			if err != nil {
				return err
			}

			// --dry-run with no path: just print the document itself.
			if dryRun && len(args) == 0 {
				_, err = a.stdout.Write(data)
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			} else {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, config.FileName)
			}

			if dryRun {
				_, _ = fmt.Fprintf(a.stdout, "# %s\n", path)
				_, err = a.stdout.Write(data)
				return err
			}

			return writeConfig(a.fs, path, data, force, a.stderr)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying any file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

// generateConfig renders the default config with roots and logLevel applied.
func generateConfig(roots []string, logLevel string) ([]byte, error) {
	cfg := config.DefaultConfig()
	if len(roots) > 0 {
		cfg.Roots = roots
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return config.Encode(cfg)
}

func writeConfig(fsys afero.Fs, path string, data []byte, force bool, stderr io.Writer) error {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if exists && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote config to %s\n", path)
	return nil
}
