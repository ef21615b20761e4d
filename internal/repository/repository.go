// Package repository answers which speller archives exist under a fixed set
// of root directories and which archive serves a given locale tag.
//
// Every query performs a fresh scan of the roots; nothing is cached between
// calls. A Repository is safe for concurrent use since its roots never change
// after construction.
package repository

import (
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/phobologic/spellrepo/internal/discover"
	"github.com/phobologic/spellrepo/internal/model"
	"github.com/phobologic/spellrepo/internal/tags"
)

// Repository locates speller archives under an ordered list of roots.
type Repository struct {
	roots    []string
	fs       afero.Fs
	expander *tags.Expander
	logger   *log.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithFs scans fsys instead of the operating system's filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(r *Repository) { r.fs = fsys }
}

// WithExpander sets the tag expander applied to archive stems.
func WithExpander(e *tags.Expander) Option {
	return func(r *Repository) { r.expander = e }
}

// WithLogger sets the logger used for scan progress and failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// New creates a Repository over roots, searched in the given order.
func New(roots []string, opts ...Option) *Repository {
	r := &Repository{
		roots:    append([]string(nil), roots...),
		fs:       afero.NewOsFs(),
		expander: tags.DefaultExpander(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Roots returns a copy of the configured root directories.
func (r *Repository) Roots() []string {
	return append([]string(nil), r.roots...)
}

// ScanResult is the outcome of scanning every root.
type ScanResult struct {
	Archives    []discover.FileEntry
	Diagnostics []discover.Diagnostic
}

// Scan walks every root in order. Roots and directories that cannot be read
// are reported in Diagnostics and contribute no archives.
func (r *Repository) Scan() ScanResult {
	var res ScanResult
	for _, root := range r.roots {
		r.logger.Info("enumerating dictionaries", "root", root)
		entries, diags := discover.Archives(r.fs, root, r.logger)
		res.Archives = append(res.Archives, entries...)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}
	return res
}

// SpellerArchives returns the path of every archive under the roots, in root
// order. An archive reachable through two roots is listed twice.
func (r *Repository) SpellerArchives() []string {
	entries := r.Scan().Archives
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// SupportedLanguages returns every tag served by some archive, sorted and
// without duplicates.
func (r *Repository) SupportedLanguages() []string {
	r.logger.Info("resolving supported languages")
	var all []string
	for _, e := range r.Scan().Archives {
		all = append(all, r.expander.Expand(e.Stem)...)
	}
	return sortUnique(all)
}

// SpellerArchive returns the first archive, in discovery order, whose stem
// expands to tag. It reports false when no archive serves tag.
func (r *Repository) SpellerArchive(tag string) (string, bool) {
	r.logger.Info("looking up speller archive", "tag", tag)
	for _, e := range r.Scan().Archives {
		if r.expander.Matches(e.Stem, tag) {
			r.logger.Debug("found speller archive", "tag", tag, "path", e.Path)
			return e.Path, true
		}
	}
	return "", false
}

// Archives returns every discovered archive together with its expanded tags.
func (r *Repository) Archives() []model.Archive {
	entries := r.Scan().Archives
	archives := make([]model.Archive, len(entries))
	for i, e := range entries {
		archives[i] = model.Archive{
			Path: e.Path,
			Root: e.Root,
			Stem: e.Stem,
			Tags: r.expander.Expand(e.Stem),
		}
	}
	return archives
}

// LanguageIndex maps each supported tag to the archive SpellerArchive would
// return for it, sorted by tag.
func (r *Repository) LanguageIndex() []model.Language {
	served := make(map[string]string)
	for _, a := range r.Archives() {
		for _, tag := range a.Tags {
			if _, ok := served[tag]; !ok {
				served[tag] = a.Path
			}
		}
	}

	index := make([]model.Language, 0, len(served))
	for tag, path := range served {
		index = append(index, model.Language{Tag: tag, Path: path})
	}
	sort.Slice(index, func(i, j int) bool {
		return index[i].Tag < index[j].Tag
	})
	return index
}

func sortUnique(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	sort.Strings(items)
	out := items[:1]
	for _, s := range items[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
