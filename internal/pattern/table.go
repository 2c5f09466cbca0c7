package pattern

import (
	"fmt"
	"sort"
	"strings"

	"deasciifier/internal/boundary"
	"deasciifier/internal/turkish"
)

// Rule is the ordered list of alternatives for one ambiguous letter.
type Rule struct {
	Letter   rune
	Patterns []Pattern
	// Default is the polarity used when no alternative matches.
	Default bool
	source  string
}

// String returns the rule in source form.
func (r *Rule) String() string {
	return r.source
}

// Table is a compiled, immutable set of rules keyed by lowercase letter.
// It is safe for concurrent use.
type Table struct {
	rules  map[rune]*Rule
	radius int
}

// Option configures Compile.
type Option func(*Table)

// WithRadius sets the context window radius.
func WithRadius(radius int) Option {
	return func(t *Table) {
		if radius > 0 {
			t.radius = radius
		}
	}
}

// Compile builds a Table from a letter → rule-string mapping.
func Compile(src map[string]string, opts ...Option) (*Table, error) {
	t := &Table{rules: make(map[rune]*Rule, len(src)), radius: DefaultRadius}
	for _, opt := range opts {
		opt(t)
	}

	for key, ruleSrc := range src {
		letter, err := ruleKey(key)
		if err != nil {
			return nil, err
		}
		patterns, err := parseRule(ruleSrc, t.radius)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", key, err)
		}
		t.rules[letter] = &Rule{Letter: letter, Patterns: patterns, Default: true, source: ruleSrc}
	}
	return t, nil
}

// MustCompile is Compile for tables known to be valid.
func MustCompile(src map[string]string, opts ...Option) *Table {
	t, err := Compile(src, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func ruleKey(key string) (rune, error) {
	rs := []rune(key)
	if len(rs) != 1 || !strings.ContainsRune(turkish.Letters, rs[0]) {
		return 0, fmt.Errorf("%w: key %q is not one of %q", ErrPatternSyntax, key, turkish.Letters)
	}
	return rs[0], nil
}

// Radius returns the context window radius.
func (t *Table) Radius() int {
	return t.radius
}

// Rule returns the rule filed under the lowercase letter.
func (t *Table) Rule(letter rune) (*Rule, bool) {
	r, ok := t.rules[letter]
	return r, ok
}

// Letters returns the letters that have a rule, sorted.
func (t *Table) Letters() []rune {
	letters := make([]rune, 0, len(t.rules))
	for l := range t.rules {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// Decide reports whether src[i] should take its accented form. ok is false
// when src[i] is not an ambiguous letter or has no rule; such runes are never
// converted.
func (t *Table) Decide(src []rune, i int) (convert bool, ok bool) {
	if i < 0 || i >= len(src) {
		return false, false
	}
	key, ok := turkish.Key(src[i])
	if !ok {
		return false, false
	}
	rule, ok := t.rules[key]
	if !ok {
		return false, false
	}
	for _, p := range rule.Patterns {
		if p.matches(src, i) {
			return !p.Negative, true
		}
	}
	return rule.Default, true
}

func (p Pattern) matches(src []rune, i int) bool {
	for _, tok := range p.tokens {
		j := i + tok.offset
		inBounds := j >= 0 && j < len(src)
		var c rune
		if inBounds {
			c = turkish.Asciify(src[j])
		}
		switch tok.kind {
		case tokWildcard:
		case tokLiteral:
			if !inBounds || c != tok.ch {
				return false
			}
		case tokNegated:
			if inBounds && c == tok.ch {
				return false
			}
		case tokBoundary:
			if inBounds && !boundary.IsSeparator(src[j]) {
				return false
			}
		}
	}
	return true
}
