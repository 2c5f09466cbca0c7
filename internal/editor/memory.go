package editor

import (
	"sync"

	"deasciifier/internal/textrange"
)

// Highlight is an active mark in a Memory editor.
type Highlight struct {
	Range textrange.Range
	Style string
}

type memoryMark struct {
	owner   *Memory
	rng     textrange.Range
	style   string
	cleared bool
}

func (m *memoryMark) Clear() {
	m.owner.mu.Lock()
	defer m.owner.mu.Unlock()
	m.cleared = true
	m.owner.pruneLocked()
}

// Memory is a TextEditor over an in-memory rune buffer. Positions are cell
// coordinates: X is the column, Y the line times LineHeight. It is safe for
// concurrent use, but change callbacks run with no lock held on the caller's
// goroutine.
type Memory struct {
	mu         sync.Mutex
	text       []rune
	selection  textrange.Range
	marks      []*memoryMark
	focused    bool
	lineHeight int
	onChange   []func()
}

// MemoryOption configures a Memory editor.
type MemoryOption func(*Memory)

// WithLineHeight sets the value reported by LineHeight.
func WithLineHeight(h int) MemoryOption {
	return func(m *Memory) {
		if h > 0 {
			m.lineHeight = h
		}
	}
}

// NewMemory returns an editor holding text with the cursor at its end.
func NewMemory(text string, opts ...MemoryOption) *Memory {
	m := &Memory{text: []rune(text), lineHeight: 1}
	m.selection = textrange.Point(len(m.text))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers a callback run after every text mutation.
func (m *Memory) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

func (m *Memory) notify() {
	m.mu.Lock()
	callbacks := append([]func(){}, m.onChange...)
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// Text implements TextEditor.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.text)
}

// Len returns the buffer length in runes.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.text)
}

// SetText implements TextEditor. Ranges are clamped to the buffer; invalid
// ranges are ignored.
func (m *Memory) SetText(text string, r *textrange.Range) {
	m.mu.Lock()
	if r == nil {
		m.text = []rune(text)
		m.marks = nil
		m.selection, _ = m.selection.Clamp(len(m.text))
		m.mu.Unlock()
		m.notify()
		return
	}
	rng, err := r.Clamp(len(m.text))
	if err != nil {
		m.mu.Unlock()
		return
	}
	m.replaceLocked(rng, []rune(text))
	m.mu.Unlock()
	m.notify()
}

// replaceLocked swaps rng for repl, shifting marks and the selection that lie
// after the edit.
func (m *Memory) replaceLocked(rng textrange.Range, repl []rune) {
	out := make([]rune, 0, len(m.text)-rng.Len()+len(repl))
	out = append(out, m.text[:rng.Start]...)
	out = append(out, repl...)
	out = append(out, m.text[rng.End:]...)
	m.text = out

	delta := len(repl) - rng.Len()
	shift := func(pos int) int {
		if pos >= rng.End {
			return pos + delta
		}
		if pos > rng.Start+len(repl) {
			return rng.Start + len(repl)
		}
		return pos
	}
	for _, mk := range m.marks {
		mk.rng = textrange.New(shift(mk.rng.Start), shift(mk.rng.End))
	}
	m.selection = textrange.New(shift(m.selection.Start), shift(m.selection.End))
}

// Selection implements TextEditor.
func (m *Memory) Selection() textrange.Range {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selection
}

// SetSelection implements TextEditor. The range is clamped; invalid ranges
// are ignored.
func (m *Memory) SetSelection(r textrange.Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rng, err := r.Clamp(len(m.text)); err == nil {
		m.selection = rng
	}
}

// Highlight implements TextEditor.
func (m *Memory) Highlight(r textrange.Range, style string) Mark {
	m.mu.Lock()
	defer m.mu.Unlock()
	mk := &memoryMark{owner: m, rng: r, style: style}
	m.marks = append(m.marks, mk)
	return mk
}

// HighlightMultiple implements TextEditor.
func (m *Memory) HighlightMultiple(ranges []textrange.Range, style string) {
	for _, r := range ranges {
		m.Highlight(r, style)
	}
}

// ClearHighlights implements TextEditor.
func (m *Memory) ClearHighlights(r textrange.Range) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mk := range m.marks {
		if mk.rng.Overlaps(r) || (r.IsEmpty() && mk.rng.Contains(r.Start)) {
			mk.cleared = true
		}
	}
	m.pruneLocked()
}

func (m *Memory) pruneLocked() {
	live := m.marks[:0]
	for _, mk := range m.marks {
		if !mk.cleared {
			live = append(live, mk)
		}
	}
	m.marks = live
}

// Highlights returns the active highlights in creation order.
func (m *Memory) Highlights() []Highlight {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Highlight, 0, len(m.marks))
	for _, mk := range m.marks {
		out = append(out, Highlight{Range: mk.rng, Style: mk.style})
	}
	return out
}

// HighlightsWithStyle returns the active highlight ranges of one style.
func (m *Memory) HighlightsWithStyle(style string) []textrange.Range {
	var out []textrange.Range
	for _, h := range m.Highlights() {
		if h.Style == style {
			out = append(out, h.Range)
		}
	}
	return out
}

// Position implements TextEditor.
func (m *Memory) Position(index int) Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index > len(m.text) {
		index = len(m.text)
	}
	line, col := 0, 0
	for i := 0; i < index; i++ {
		if m.text[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return Position{X: col, Y: line * m.lineHeight}
}

// LineHeight implements TextEditor.
func (m *Memory) LineHeight() int {
	return m.lineHeight
}

// PutAtCursor implements TextEditor.
func (m *Memory) PutAtCursor(text string) {
	m.mu.Lock()
	sel := m.selection
	repl := []rune(text)
	m.replaceLocked(sel, repl)
	m.selection = textrange.Point(sel.Start + len(repl))
	m.mu.Unlock()
	m.notify()
}

// DeleteCursor implements TextEditor.
func (m *Memory) DeleteCursor() {
	m.mu.Lock()
	sel := m.selection
	if sel.IsEmpty() {
		if sel.Start == 0 {
			m.mu.Unlock()
			return
		}
		sel = textrange.New(sel.Start-1, sel.Start)
	}
	m.replaceLocked(sel, nil)
	m.selection = textrange.Point(sel.Start)
	m.mu.Unlock()
	m.notify()
}

// Focus implements TextEditor.
func (m *Memory) Focus() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focused = true
}

// Focused reports whether Focus has been called.
func (m *Memory) Focused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

var _ TextEditor = (*Memory)(nil)
