package tui

import "deasciifier/internal/editor"

// Menu is the correction popup. It implements session.Menu.
type Menu struct {
	visible     bool
	at          editor.Position
	word        string
	suggestions []string
	selected    int
}

func (m *Menu) Show(at editor.Position, word string, suggestions []string) {
	m.visible = true
	m.at = at
	m.word = word
	m.suggestions = append([]string(nil), suggestions...)
	m.selected = 0
}

func (m *Menu) Hide() {
	m.visible = false
	m.suggestions = nil
	m.selected = 0
}

// Visible reports whether the popup is open.
func (m *Menu) Visible() bool { return m.visible }

// Selected returns the highlighted suggestion.
func (m *Menu) Selected() (string, bool) {
	if !m.visible || len(m.suggestions) == 0 {
		return "", false
	}
	return m.suggestions[m.selected], true
}

// Move shifts the highlighted row by delta, wrapping around.
func (m *Menu) Move(delta int) {
	n := len(m.suggestions)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

// width is the popup's inner width in cells.
func (m *Menu) width() int {
	w := 0
	for _, s := range m.suggestions {
		sw := 0
		for _, r := range s {
			sw += RuneWidth(r)
		}
		if sw > w {
			w = sw
		}
	}
	return w + 2
}

// ItemAt returns the suggestion row under a cell, given the popup origin.
func (m *Menu) ItemAt(originX, originY, x, y int) (int, bool) {
	if !m.visible {
		return 0, false
	}
	row := y - originY
	if row < 0 || row >= len(m.suggestions) || x < originX || x >= originX+m.width() {
		return 0, false
	}
	return row, true
}
