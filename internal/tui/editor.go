// Package tui hosts a deasciifier session in a terminal.
package tui

import (
	"github.com/rivo/uniseg"

	"deasciifier/internal/editor"
)

// TabWidth is the number of cells a tab occupies.
const TabWidth = 4

// RuneWidth returns the number of terminal cells r occupies. Tabs take
// TabWidth, other control characters none.
func RuneWidth(r rune) int {
	if r == '\t' {
		return TabWidth
	}
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// Editor is an editor.Memory whose positions are terminal cells.
type Editor struct {
	*editor.Memory
}

// NewEditor returns an editor holding text.
func NewEditor(text string) *Editor {
	return &Editor{Memory: editor.NewMemory(text)}
}

// Position returns the cell of the rune at index, counting display widths.
func (e *Editor) Position(index int) editor.Position {
	runes := []rune(e.Text())
	if index > len(runes) {
		index = len(runes)
	}
	x, y := 0, 0
	for _, r := range runes[:index] {
		if r == '\n' {
			x, y = 0, y+e.LineHeight()
			continue
		}
		x += RuneWidth(r)
	}
	return editor.Position{X: x, Y: y}
}

// IndexAt maps a cell to the rune index a click there places the caret at.
// Clicks past a line's end land at the end of that line; clicks below the
// text land at its end.
func (e *Editor) IndexAt(x, y int) int {
	runes := []rune(e.Text())
	line, col := 0, 0
	for i, r := range runes {
		if line == y {
			if r == '\n' {
				return i
			}
			w := RuneWidth(r)
			if x < col+w || (w == 0 && x <= col) {
				return i
			}
			col += w
			continue
		}
		if r == '\n' {
			line++
		}
	}
	return len(runes)
}

var _ editor.TextEditor = (*Editor)(nil)
