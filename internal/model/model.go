// Package model defines core data structures for spellrepo.
package model

// Archive is a discovered speller bundle and the locale tags it serves.
type Archive struct {
	Path string
	Root string // configured root the archive was found under
	Stem string // base identifier
	Tags []string
}

// Language pairs a supported locale tag with the archive that serves it.
type Language struct {
	Tag  string
	Path string
}
