// Package tags maps a bundle's base identifier to the locale tags it answers to.
package tags

import (
	"sort"

	"golang.org/x/text/language"
)

// The Sámi languages are published as a single bundle per language but
// requested with script and region qualifiers.
var (
	defaultBases   = []string{"se", "sma", "smn", "sms", "smj"}
	defaultRegions = []string{"NO", "SE", "FI"}
)

// DefaultBases returns the base tags of the default alias table.
func DefaultBases() []string {
	return append([]string(nil), defaultBases...)
}

// DefaultRegions returns the regions of the default alias table, in order.
func DefaultRegions() []string {
	return append([]string(nil), defaultRegions...)
}

// Resolver returns the canonical locale tag for a base identifier, if known.
type Resolver func(base string) (string, bool)

// NoResolver never knows a canonical tag.
func NoResolver(string) (string, bool) {
	return "", false
}

// CanonicalResolver returns the canonical BCP 47 form of base when it is a
// well-formed tag made of known subtags.
func CanonicalResolver(base string) (string, bool) {
	tag, err := language.Parse(base)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

// AliasTable maps base tags to additional script and region tags.
// The zero value is an empty table. A table is never modified after construction.
type AliasTable struct {
	aliases map[string][]string
}

// NewAliasTable builds a table where every base answers to
// "{base}-Latn-{region}" and "{base}-{region}" for each region, in order.
func NewAliasTable(bases, regions []string) AliasTable {
	aliases := make(map[string][]string, len(bases))
	for _, base := range bases {
		tags := make([]string, 0, 2*len(regions))
		for _, region := range regions {
			tags = append(tags, base+"-Latn-"+region, base+"-"+region)
		}
		aliases[base] = tags
	}
	return AliasTable{aliases: aliases}
}

// DefaultAliasTable returns the table for DefaultBases and DefaultRegions.
func DefaultAliasTable() AliasTable {
	return NewAliasTable(defaultBases, defaultRegions)
}

// Lookup returns a copy of the aliases for base in table order.
func (t AliasTable) Lookup(base string) ([]string, bool) {
	tags, ok := t.aliases[base]
	if !ok {
		return nil, false
	}
	return append([]string(nil), tags...), true
}

// Bases returns the table's base tags, sorted.
func (t AliasTable) Bases() []string {
	bases := make([]string, 0, len(t.aliases))
	for base := range t.aliases {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	return bases
}

// Expander produces the full tag set for a base identifier.
type Expander struct {
	resolve Resolver
	aliases AliasTable
}

// NewExpander creates an Expander. A nil resolver behaves like NoResolver.
func NewExpander(resolve Resolver, aliases AliasTable) *Expander {
	if resolve == nil {
		resolve = NoResolver
	}
	return &Expander{resolve: resolve, aliases: aliases}
}

// DefaultExpander uses CanonicalResolver and the default alias table.
func DefaultExpander() *Expander {
	return NewExpander(CanonicalResolver, DefaultAliasTable())
}

// Expand returns the resolved tag (or base itself) followed by the aliases
// for base. The result is never empty and is not de-duplicated.
func (e *Expander) Expand(base string) []string {
	var tags []string
	if tag, ok := e.resolve(base); ok {
		tags = append(tags, tag)
	} else {
		tags = append(tags, base)
	}

	if extra, ok := e.aliases.Lookup(base); ok {
		tags = append(tags, extra...)
	}
	return tags
}

// Aliases returns the alias table the Expander was built with.
func (e *Expander) Aliases() AliasTable {
	return e.aliases
}

// Matches reports whether tag is one of the tags base expands to.
func (e *Expander) Matches(base, tag string) bool {
	for _, t := range e.Expand(base) {
		if t == tag {
			return true
		}
	}
	return false
}
