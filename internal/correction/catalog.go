// Package correction supplies alternative spellings for a word and drives
// the click-to-correct menu that offers them.
package correction

import (
	"fmt"

	"deasciifier/internal/datafile"
)

// Catalog returns ordered alternative spellings for a word. Implementations
// are immutable and safe for concurrent use.
type Catalog interface {
	// Lookup returns the alternatives for word, best first. An unknown word
	// yields nil.
	Lookup(word string) []string
	// HasCorrections reports whether Lookup would return anything.
	HasCorrections(word string) bool
}

// Static is a Catalog built from fixed entries.
type Static struct {
	entries map[string][]string
	folded  map[string][]string
}

// NewStatic builds a catalog from word → alternatives. Keys are matched
// exactly first, then by their Turkish lowercase form.
func NewStatic(entries map[string][]string) *Static {
	s := &Static{
		entries: make(map[string][]string, len(entries)),
		folded:  make(map[string][]string, len(entries)),
	}
	for word, alts := range entries {
		alts = dedupe(word, alts)
		if len(alts) == 0 {
			continue
		}
		s.entries[word] = alts
	}
	// Lowercase keys win the folded slot over cased spellings of the same word.
	for word, alts := range s.entries {
		key := lower(word)
		if _, taken := s.folded[key]; taken && word != key {
			continue
		}
		s.folded[key] = alts
	}
	return s
}

// LoadFile reads a catalog from a JSON, YAML or TOML file mapping each word
// to a list of alternatives.
func LoadFile(path string) (*Static, error) {
	var entries map[string][]string
	if err := datafile.Load(path, &entries); err != nil {
		return nil, fmt.Errorf("load corrections: %w", err)
	}
	return NewStatic(entries), nil
}

// Lookup implements Catalog.
func (s *Static) Lookup(word string) []string {
	if alts, ok := s.entries[word]; ok {
		return append([]string(nil), alts...)
	}
	alts, ok := s.folded[lower(word)]
	if !ok {
		return nil
	}
	shape := shapeOf(word)
	out := make([]string, 0, len(alts))
	for _, a := range alts {
		out = append(out, recase(a, shape))
	}
	return dedupe(word, out)
}

// HasCorrections implements Catalog.
func (s *Static) HasCorrections(word string) bool {
	return len(s.Lookup(word)) > 0
}

// Len returns the number of entries.
func (s *Static) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entries.
func (s *Static) Entries() map[string][]string {
	out := make(map[string][]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Merge returns a new catalog holding base's entries with overlay's entries
// replacing any of the same word. Neither input is modified.
func Merge(base *Static, overlay map[string][]string) *Static {
	entries := map[string][]string{}
	if base != nil {
		entries = base.Entries()
	}
	for k, v := range overlay {
		entries[k] = v
	}
	return NewStatic(entries)
}

// Chain queries catalogs in order and concatenates their answers.
type Chain []Catalog

// Lookup implements Catalog.
func (c Chain) Lookup(word string) []string {
	var out []string
	for _, cat := range c {
		if cat == nil {
			continue
		}
		out = append(out, cat.Lookup(word)...)
	}
	return dedupe(word, out)
}

// HasCorrections implements Catalog.
func (c Chain) HasCorrections(word string) bool {
	for _, cat := range c {
		if cat != nil && cat.HasCorrections(word) {
			return true
		}
	}
	return false
}

// dedupe drops empty strings, the word itself and repeats, keeping order.
func dedupe(word string, alts []string) []string {
	if len(alts) == 0 {
		return nil
	}
	seen := map[string]bool{word: true, "": true}
	out := make([]string, 0, len(alts))
	for _, a := range alts {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
