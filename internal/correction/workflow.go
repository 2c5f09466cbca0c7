package correction

import (
	"fmt"
	"log/slog"
	"slices"

	"deasciifier/internal/boundary"
	"deasciifier/internal/editor"
	"deasciifier/internal/textrange"
)

// Surface is the part of the host editor the workflow writes to.
type Surface interface {
	SetText(text string, r *textrange.Range)
	Highlight(r textrange.Range, style string) editor.Mark
	ClearHighlights(r textrange.Range)
}

// State of the correction menu.
type State uint8

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// MenuState describes what the menu shows. Anchor is nil while hidden.
type MenuState struct {
	Visible     bool
	Anchor      *textrange.Range
	Word        string
	Suggestions []string
}

// Workflow tracks the click-to-correct menu for one editing session. It is
// not safe for concurrent use.
type Workflow struct {
	catalog Catalog
	surface Surface
	logger  *slog.Logger

	state       State
	anchor      textrange.Range
	word        string
	suggestions []string
	mark        editor.Mark
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(l *slog.Logger) WorkflowOption {
	return func(w *Workflow) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorkflow returns a hidden workflow offering suggestions from catalog.
func NewWorkflow(catalog Catalog, surface Surface, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		catalog: catalog,
		surface: surface,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "correction")
	return w
}

// OnPointerSelect reacts to a click that left selection in text. The menu is
// hidden first; it is shown again only for a caret strictly inside a word
// the catalog knows.
func (w *Workflow) OnPointerSelect(text string, selection textrange.Range) (MenuState, error) {
	w.Hide()
	if !selection.IsEmpty() {
		return w.State(), fmt.Errorf("%w: correction menu needs a caret, got %s", textrange.ErrPrecondition, selection)
	}
	runes := []rune(text)
	if !boundary.IsCursorInsideWord(runes, selection.Start) {
		return w.State(), nil
	}
	rng, err := boundary.WordAtCursor(runes, selection.Start)
	if err != nil {
		return w.State(), err
	}
	word := string(runes[rng.Start:rng.End])
	if w.catalog == nil || !w.catalog.HasCorrections(word) {
		return w.State(), nil
	}

	w.state = Visible
	w.anchor = rng
	w.word = word
	w.suggestions = w.catalog.Lookup(word)
	w.mark = w.surface.Highlight(rng, editor.StyleCorrection)
	w.logger.Debug("menu shown", "word", word, "range", rng.String(), "suggestions", len(w.suggestions))
	return w.State(), nil
}

// OnSuggestionChosen replaces the anchored word with choice. It returns
// false while the menu is hidden.
func (w *Workflow) OnSuggestionChosen(choice string) (bool, error) {
	if w.state != Visible {
		return false, nil
	}
	if !slices.Contains(w.suggestions, choice) {
		return false, fmt.Errorf("%w: %q was not offered for %q", textrange.ErrPrecondition, choice, w.word)
	}
	anchor := w.anchor
	w.Hide()
	w.surface.SetText(choice, &anchor)
	w.logger.Debug("suggestion applied", "word", choice, "range", anchor.String())
	return true, nil
}

// OnExternalMutation must be called before the text changes from outside the
// workflow. The anchor would go stale, so the menu is hidden.
func (w *Workflow) OnExternalMutation() {
	w.Hide()
}

// Hide closes the menu and drops its highlight. Hiding a hidden menu does
// nothing.
func (w *Workflow) Hide() {
	if w.state == Hidden {
		return
	}
	if w.mark != nil {
		w.mark.Clear()
	}
	w.surface.ClearHighlights(w.anchor)
	w.state = Hidden
	w.anchor = textrange.Range{}
	w.word = ""
	w.suggestions = nil
	w.mark = nil
}

// State returns a copy of the menu state.
func (w *Workflow) State() MenuState {
	if w.state != Visible {
		return MenuState{}
	}
	anchor := w.anchor
	return MenuState{
		Visible:     true,
		Anchor:      &anchor,
		Word:        w.word,
		Suggestions: append([]string(nil), w.suggestions...),
	}
}
