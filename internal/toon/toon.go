// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/spellrepo/internal/discover"
	"github.com/phobologic/spellrepo/internal/model"
	"github.com/phobologic/spellrepo/internal/tags"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeArchives renders discovered archives as a TOON table.
func EncodeArchives(archives []model.Archive) string {
	rows := make([][]string, 0, len(archives))
	for i := range archives {
		a := &archives[i]
		rows = append(rows, []string{a.Path, a.Root, a.Stem, strings.Join(a.Tags, " ")})
	}
	return formatTabular("archives", []string{"path", "root", "stem", "tags"}, rows)
}

// EncodeLanguages renders each supported tag with the archive serving it.
func EncodeLanguages(langs []model.Language) string {
	rows := make([][]string, 0, len(langs))
	for _, l := range langs {
		rows = append(rows, []string{l.Tag, l.Path})
	}
	return formatTabular("languages", []string{"tag", "archive"}, rows)
}

// EncodeAliases renders an alias table, one row per base tag.
func EncodeAliases(table tags.AliasTable) string {
	bases := table.Bases()
	rows := make([][]string, 0, len(bases))
	for _, base := range bases {
		aliases, _ := table.Lookup(base)
		rows = append(rows, []string{base, strings.Join(aliases, " ")})
	}
	return formatTabular("aliases", []string{"base", "tags"}, rows)
}

// EncodeDiagnostics renders scan diagnostics as a TOON table.
func EncodeDiagnostics(diags []discover.Diagnostic) string {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{string(d.Severity), d.Code, d.Path, d.Message})
	}
	return formatTabular("diagnostics", []string{"severity", "code", "path", "message"}, rows)
}

// EncodeField renders a single "key: value" line.
func EncodeField(key, value string) string {
	return fmt.Sprintf("%s: %s", key, encodeValue(value))
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
