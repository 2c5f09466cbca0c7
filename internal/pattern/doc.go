// Package pattern compiles and evaluates the context rules that decide
// whether an ambiguous Latin letter should take its Turkish accented form.
//
// A table maps each ambiguous letter (c g i o s u) to one rule string made of
// '|'-separated alternatives:
//
//	"aXa|-bXb|-aX|-Xa"
//
// Each alternative is a token sequence anchored on X, the letter being
// decided. Tokens are:
//
//	c    literal rune, compared case-sensitively
//	.    wildcard, matches anything including the buffer edge
//	!c   negated literal, holds unless c is at that offset
//	' '  word boundary, matches any separator or the buffer edge
//	\c   escaped literal for . ! X | \ and a leading -
//
// A leading '-' gives the alternative negative polarity: when it matches the
// letter stays Latin. Alternatives are tried in order and the first match
// decides. When none matches the rule default applies, which is to convert;
// a trailing "-X" alternative turns that around.
//
// Context is read from the original buffer, never from partially converted
// output, within a window of Radius runes on each side of the target.
// Context runes are asciified before comparison so accented neighbours still
// match ASCII patterns. Literal tokens past the buffer edge fail, negated
// tokens hold.
package pattern
