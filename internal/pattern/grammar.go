package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRadius is the number of context runes considered on each side of
// the target.
const DefaultRadius = 5

// ErrPatternSyntax is returned for malformed rule strings.
var ErrPatternSyntax = errors.New("pattern syntax error")

type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokWildcard
	tokNegated
	tokBoundary
)

type token struct {
	kind   tokenKind
	ch     rune
	offset int
}

// Pattern is one compiled alternative of a rule.
type Pattern struct {
	Negative bool
	tokens   []token
	source   string
}

// String returns the alternative in source form.
func (p Pattern) String() string {
	return p.source
}

// Width returns the span of the pattern in runes, target included.
func (p Pattern) Width() int {
	lo, hi := 0, 0
	for _, t := range p.tokens {
		if t.offset < lo {
			lo = t.offset
		}
		if t.offset > hi {
			hi = t.offset
		}
	}
	return hi - lo + 1
}

// parseRule splits a rule string on unescaped '|' and parses every
// alternative.
func parseRule(src string, radius int) ([]Pattern, error) {
	var patterns []Pattern
	for _, alt := range splitAlternatives(src) {
		p, err := parsePattern(alt, radius)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: empty rule", ErrPatternSyntax)
	}
	return patterns, nil
}

func splitAlternatives(src string) []string {
	var (
		out     []string
		cur     strings.Builder
		escaped bool
	)
	for _, r := range src {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '|':
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	out = append(out, cur.String())
	return out
}

func parsePattern(src string, radius int) (Pattern, error) {
	rs := []rune(src)
	p := Pattern{source: src}
	if len(rs) > 0 && rs[0] == '-' {
		p.Negative = true
		rs = rs[1:]
	}

	anchor := -1
	var raw []token
	for i := 0; i < len(rs); i++ {
		switch c := rs[i]; c {
		case 'X':
			if anchor >= 0 {
				return Pattern{}, fmt.Errorf("%w: %q has more than one X", ErrPatternSyntax, src)
			}
			anchor = len(raw)
			raw = append(raw, token{})
		case '.':
			raw = append(raw, token{kind: tokWildcard})
		case ' ':
			raw = append(raw, token{kind: tokBoundary})
		case '!', '\\':
			i++
			if i >= len(rs) {
				return Pattern{}, fmt.Errorf("%w: %q ends with a dangling %q", ErrPatternSyntax, src, c)
			}
			kind := tokLiteral
			if c == '!' {
				kind = tokNegated
			}
			raw = append(raw, token{kind: kind, ch: rs[i]})
		default:
			raw = append(raw, token{kind: tokLiteral, ch: c})
		}
	}
	if anchor < 0 {
		return Pattern{}, fmt.Errorf("%w: %q has no X", ErrPatternSyntax, src)
	}

	for i, t := range raw {
		if i == anchor {
			continue
		}
		t.offset = i - anchor
		if t.offset < -radius || t.offset > radius {
			return Pattern{}, fmt.Errorf("%w: %q reaches offset %d beyond radius %d", ErrPatternSyntax, src, t.offset, radius)
		}
		p.tokens = append(p.tokens, t)
	}
	return p, nil
}
