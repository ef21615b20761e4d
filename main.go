// spellrepo locates speller archives and reports the languages they serve.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/phobologic/spellrepo/internal/config"
	"github.com/phobologic/spellrepo/internal/repository"
	"github.com/phobologic/spellrepo/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries global flags and the objects built from them.
type app struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	configPath string
	roots      []string
	logLevel   string
	plain      bool
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{fs: afero.NewOsFs(), stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "spellrepo",
		Short: "Locate speller archives and the languages they serve",
		Long: `spellrepo scans dictionary roots for speller archives (.zhfst and .bhfst
files) and maps locale tags such as se-Latn-NO to the archive serving them.

Roots come from --root flags or from the "roots" list of the config file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default <user config dir>/spellrepo/config.toml)")
	flags.StringArrayVarP(&a.roots, "root", "r", nil, "dictionary root directory (repeatable, replaces configured roots)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&a.plain, "plain", false, "print one value per line instead of TOON tables")

	root.AddCommand(
		a.archivesCommand(),
		a.languagesCommand(),
		a.lookupCommand(),
		a.checkCommand(),
		a.aliasesCommand(),
		a.initCommand(),
	)
	return root
}

// loadConfig reads the config file and applies command-line overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, _, err := config.Load(a.fs, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if len(a.roots) > 0 {
		cfg.Roots = a.roots
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (a *app) repository() (*repository.Repository, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "spellrepo",
		Level:  cfg.Level(),
	})
	repo := repository.New(cfg.Roots,
		repository.WithFs(a.fs),
		repository.WithExpander(cfg.Expander()),
		repository.WithLogger(logger),
	)
	if len(repo.Roots()) == 0 {
		logger.Warn("no dictionary roots configured")
	}
	return repo, nil
}

func (a *app) archivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archives",
		Short: "List every speller archive under the roots",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if a.plain {
				return a.printLines(repo.SpellerArchives())
			}
			_, err = fmt.Fprintln(a.stdout, toon.EncodeArchives(repo.Archives()))
			return err
		},
	}
}

func (a *app) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the locale tags served by the archives",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			if a.plain {
				return a.printLines(repo.SupportedLanguages())
			}
			_, err = fmt.Fprintln(a.stdout, toon.EncodeLanguages(repo.LanguageIndex()))
			return err
		},
	}
}

func (a *app) lookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup TAG",
		Short: "Print the archive serving a locale tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			tag := args[0]
			path, ok := repo.SpellerArchive(tag)
			if !ok {
				return fmt.Errorf("no archive for tag %q", tag)
			}
			if a.plain {
				_, err = fmt.Fprintln(a.stdout, path)
				return err
			}
			_, err = fmt.Fprintln(a.stdout, toon.EncodeField("archive", path))
			return err
		},
	}
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Scan the roots and report unreadable directories",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			repo, err := a.repository()
			if err != nil {
				return err
			}
			res := repo.Scan()
			if a.plain {
				lines := make([]string, len(res.Diagnostics))
				for i, d := range res.Diagnostics {
					lines[i] = d.String()
				}
				if err := a.printLines(lines); err != nil {
					return err
				}
			} else if err := a.printLines([]string{
				toon.EncodeField("roots", fmt.Sprint(len(repo.Roots()))),
				toon.EncodeField("archives", fmt.Sprint(len(res.Archives))),
				toon.EncodeDiagnostics(res.Diagnostics),
			}); err != nil {
				return err
			}
			if n := len(res.Diagnostics); n > 0 {
				return fmt.Errorf("%d problem(s) found while scanning", n)
			}
			return nil
		},
	}
}

func (a *app) aliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "Show the alias table applied to archive names",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			table := cfg.Expander().Aliases()
			if !a.plain {
				_, err = fmt.Fprintln(a.stdout, toon.EncodeAliases(table))
				return err
			}
			var lines []string
			for _, base := range table.Bases() {
				aliases, _ := table.Lookup(base)
				lines = append(lines, base+" "+strings.Join(aliases, " "))
			}
			return a.printLines(lines)
		},
	}
}

func (a *app) printLines(lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(a.stdout, l); err != nil {
			return err
		}
	}
	return nil
}
