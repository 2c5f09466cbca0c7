// Package boundary classifies separator characters and locates word
// boundaries around a cursor. A word is a maximal run of non-separator runes.
package boundary

import (
	"fmt"
	"unicode"

	"deasciifier/internal/textrange"
)

// IsSeparator reports whether r ends a word: whitespace, punctuation,
// symbols and control characters. Letters, digits and combining marks are
// word characters.
func IsSeparator(r rune) bool {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
		return false
	case unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsControl(r):
		return true
	}
	return false
}

// IsCursorInsideWord reports whether the cursor at pos sits strictly inside
// a word: both the rune before and the rune after it are word characters.
// A cursor on a word's outer edge, or inside a separator run, is not inside.
func IsCursorInsideWord(text []rune, pos int) bool {
	if pos <= 0 || pos >= len(text) {
		return false
	}
	return !IsSeparator(text[pos-1]) && !IsSeparator(text[pos])
}

// WordAtCursor returns the bounds of the word enclosing pos.
func WordAtCursor(text []rune, pos int) (textrange.Range, error) {
	if !IsCursorInsideWord(text, pos) {
		return textrange.Point(pos), fmt.Errorf("%w: cursor %d is not inside a word", textrange.ErrPrecondition, pos)
	}
	start := pos
	for start > 0 && !IsSeparator(text[start-1]) {
		start--
	}
	end := pos
	for end < len(text) && !IsSeparator(text[end]) {
		end++
	}
	return textrange.New(start, end), nil
}

// WordBeforeCursor finds the word completed by a separator typed at pos-1.
// Separators immediately before pos-1 are skipped, then the preceding word
// is walked back to its start. The result is [wordStart, pos-1): the typed
// rune and anything at or after the cursor are never included. When no word
// precedes the cursor the result is empty.
func WordBeforeCursor(text []rune, pos int) (textrange.Range, error) {
	if pos < 0 || pos > len(text) {
		return textrange.Point(pos), fmt.Errorf("%w: cursor %d outside text of length %d", textrange.ErrInvalidRange, pos, len(text))
	}
	if pos == 0 {
		return textrange.Point(0), nil
	}
	end := pos - 1
	i := end
	for i >= 0 && IsSeparator(text[i]) {
		i--
	}
	if i < 0 {
		return textrange.Point(pos), nil
	}
	for i >= 0 && !IsSeparator(text[i]) {
		i--
	}
	return textrange.New(i+1, end), nil
}

// WordAtCursorString is WordAtCursor over a string.
func WordAtCursorString(text string, pos int) (textrange.Range, error) {
	return WordAtCursor([]rune(text), pos)
}

// WordBeforeCursorString is WordBeforeCursor over a string.
func WordBeforeCursorString(text string, pos int) (textrange.Range, error) {
	return WordBeforeCursor([]rune(text), pos)
}
