// Package editor defines the capability the engine needs from a hosting
// text surface, plus an in-memory implementation of it.
//
// Indices are rune offsets. Hosts with other coordinate systems convert at
// their boundary.
package editor

import "deasciifier/internal/textrange"

// Highlight styles used by the engine.
const (
	StyleChange     = "deasciifier-highlight"
	StyleCorrection = "correction-menu-selection"
)

// Position is the screen anchor of a character, in host units.
type Position struct {
	X int
	Y int
}

// Mark is a highlight handle.
type Mark interface {
	Clear()
}

// TextEditor is implemented once per host environment.
type TextEditor interface {
	// Text returns the whole buffer.
	Text() string
	// SetText replaces [r.Start, r.End) with text, or the whole buffer when
	// r is nil.
	SetText(text string, r *textrange.Range)

	Selection() textrange.Range
	SetSelection(r textrange.Range)

	Highlight(r textrange.Range, style string) Mark
	HighlightMultiple(ranges []textrange.Range, style string)
	// ClearHighlights removes every highlight overlapping r.
	ClearHighlights(r textrange.Range)

	// Position returns the anchor of the character at index.
	Position(index int) Position
	LineHeight() int

	// PutAtCursor types text over the selection.
	PutAtCursor(text string)
	// DeleteCursor behaves like backspace.
	DeleteCursor()
	Focus()
}
