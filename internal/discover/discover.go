// Package discover finds speller bundle files under a root directory.
package discover

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// IgnoreFileName is the optional gitignore-style file at the top of a root
// listing paths to leave out of discovery.
const IgnoreFileName = ".spellerignore"

var extensions = []string{".zhfst", ".bhfst"}

// Extensions returns the file extensions of speller bundles.
func Extensions() []string {
	return append([]string(nil), extensions...)
}

// FileEntry represents a discovered bundle file.
type FileEntry struct {
	Path string // root joined with the path below it
	Root string
	Stem string // file name without directory and extension
}

// IsBundle reports whether name is the file name of a speller bundle.
func IsBundle(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" || strings.TrimSuffix(name, ext) == "" {
		return false
	}
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stem returns the base identifier of a bundle path.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

type node struct {
	path string
	info os.FileInfo
	// chain holds the directories from the root down to this one.
	chain []os.FileInfo
}

func (n node) child(path string, info os.FileInfo) node {
	c := node{path: path, info: info}
	if info.IsDir() {
		dir := info
		if l, ok := info.(linkInfo); ok {
			dir = l.FileInfo
		}
		c.chain = append(slices.Clone(n.chain), dir)
	}
	return c
}

// onChain reports whether dir is this node or one of its ancestors.
func (n node) onChain(dir os.FileInfo) bool {
	for _, d := range n.chain {
		if os.SameFile(d, dir) {
			return true
		}
	}
	return false
}

// Archives walks root depth-first and returns every bundle file in visit
// order. Directory entries are visited in name order. A directory that cannot
// be read contributes nothing; the failure is logged and reported as a
// diagnostic and the walk carries on with the rest of the tree.
//
// Symbolic links are followed. A link to a directory that is already being
// walked above it is skipped, so link cycles terminate.
func Archives(fsys afero.Fs, root string, logger *log.Logger) ([]FileEntry, []Diagnostic) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var (
		results     []FileEntry
		diagnostics []Diagnostic
	)

	info, err := fsys.Stat(root)
	if err != nil {
		code, sev := CodeDirUnreadable, SeverityError
		if errors.Is(err, fs.ErrNotExist) {
			code, sev = CodeRootMissing, SeverityWarning
		}
		logger.Warn("cannot open dictionary root", "root", root, "err", err)
		diagnostics = append(diagnostics, Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  fmt.Sprintf("cannot open root %s: %v", root, err),
			Path:     root,
			Cause:    err,
		})
		return nil, diagnostics
	}
	if !info.IsDir() {
		diagnostics = append(diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeRootNotDirectory,
			Message:  fmt.Sprintf("root %s is not a directory", root),
			Path:     root,
		})
		return nil, diagnostics
	}

	gi, diag := loadIgnore(fsys, root)
	if diag != nil {
		logger.Warn("cannot read ignore file", "path", diag.Path, "err", diag.Cause)
		diagnostics = append(diagnostics, *diag)
	}

	stack := []node{{path: root, info: info, chain: []os.FileInfo{info}}}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.path != root && gi != nil && gi.MatchesPath(relPath(root, n.path)) {
			continue
		}

		if !n.info.IsDir() {
			if IsBundle(n.info.Name()) {
				results = append(results, FileEntry{
					Path: n.path,
					Root: root,
					Stem: Stem(n.path),
				})
			}
			continue
		}

		entries, err := afero.ReadDir(fsys, n.path)
		if err != nil {
			logger.Warn("cannot list directory", "dir", n.path, "err", err)
			diagnostics = append(diagnostics, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDirUnreadable,
				Message:  fmt.Sprintf("cannot list directory %s: %v", n.path, err),
				Path:     n.path,
				Cause:    err,
			})
			continue
		}

		// Push in reverse so entries pop in name order.
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			path := filepath.Join(n.path, entry.Name())

			switch {
			case entry.Mode()&os.ModeSymlink != 0:
				target, err := fsys.Stat(path)
				if err != nil {
					if !IsBundle(entry.Name()) {
						continue
					}
					logger.Debug("skipping dangling link", "path", path, "err", err)
					diagnostics = append(diagnostics, Diagnostic{
						Severity: SeverityWarning,
						Code:     CodeEntryUnreadable,
						Message:  fmt.Sprintf("cannot resolve link %s: %v", path, err),
						Path:     path,
						Cause:    err,
					})
					continue
				}
				switch {
				case target.IsDir():
					if n.onChain(target) {
						logger.Debug("skipping link cycle", "path", path)
						continue
					}
					stack = append(stack, n.child(path, linkInfo{target, entry.Name()}))
				case target.Mode().IsRegular():
					stack = append(stack, n.child(path, linkInfo{target, entry.Name()}))
				}
			case entry.IsDir(), entry.Mode().IsRegular():
				stack = append(stack, n.child(path, entry))
			}
		}
	}

	return results, diagnostics
}

// linkInfo reports the target's metadata under the link's own name.
type linkInfo struct {
	os.FileInfo
	name string
}

func (l linkInfo) Name() string { return l.name }

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func loadIgnore(fsys afero.Fs, root string) (*ignore.GitIgnore, *Diagnostic) {
	path := filepath.Join(root, IgnoreFileName)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeIgnoreUnreadable,
			Message:  fmt.Sprintf("cannot read %s: %v", path, err),
			Path:     path,
			Cause:    err,
		}
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...), nil
}
