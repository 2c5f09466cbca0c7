// Package session binds the conversion engine and the correction menu to one
// hosted text editor. It is the entry point hosts talk to: they forward key
// and click events and invoke explicit conversions.
package session

import (
	"log/slog"

	"deasciifier/internal/boundary"
	"deasciifier/internal/correction"
	"deasciifier/internal/editor"
	"deasciifier/internal/rangeproc"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
	"deasciifier/pkg/options"
)

// Menu displays correction suggestions. Hosts without a menu leave it unset.
type Menu interface {
	Show(at editor.Position, word string, suggestions []string)
	Hide()
}

type noMenu struct{}

func (noMenu) Show(editor.Position, string, []string) {}
func (noMenu) Hide()                                  {}

// changeNotifier is implemented by editors that report text edits, such as
// editor.Memory.
type changeNotifier interface {
	OnChange(fn func())
}

// Session is not safe for concurrent use; each editor gets its own.
type Session struct {
	editor    editor.TextEditor
	processor *transform.Processor
	workflow  *correction.Workflow
	menu      Menu
	options   options.SessionOptions
	logger    *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithMenu sets the view that shows suggestions.
func WithMenu(m Menu) Option {
	return func(s *Session) {
		if m != nil {
			s.menu = m
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOptions applies editing options on top of the defaults.
func WithOptions(opts ...options.Options) Option {
	return func(s *Session) {
		for _, o := range opts {
			if o != nil {
				o.Apply(&s.options)
			}
		}
	}
}

// New returns a session editing ed. catalog may be nil, which disables
// suggestions.
func New(ed editor.TextEditor, processor *transform.Processor, catalog correction.Catalog, opts ...Option) *Session {
	s := &Session{
		editor:    ed,
		processor: processor,
		menu:      noMenu{},
		options:   options.DefaultOptions,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	s.workflow = correction.NewWorkflow(catalog, ed, correction.WithLogger(s.logger))
	// Any edit leaves the menu anchor stale, including ones made straight on
	// the editor.
	if n, ok := ed.(changeNotifier); ok {
		n.OnChange(s.HideCorrectionMenu)
	}
	return s
}

// Editor returns the hosted editor.
func (s *Session) Editor() editor.TextEditor {
	return s.editor
}

// ProcessSelection converts the selection, or the whole text when nothing
// is selected, and writes the fragment back in place.
func (s *Session) ProcessSelection(mode transform.Mode) (textrange.Result, error) {
	out, err := rangeproc.Run(s.processor, rangeproc.SelectionPolicy, mode, s.editor.Text(), s.editor.Selection())
	if err != nil {
		return textrange.Result{}, err
	}
	if out.NoOp() {
		return out.Result, nil
	}
	s.write(out)
	s.logger.Debug("selection converted", "mode", mode.String(), "range", out.Range.String(), "changed", len(out.Result.ChangedPositions))
	return out.Result, nil
}

// DeasciifySelection is ProcessSelection in deasciify mode.
func (s *Session) DeasciifySelection() (textrange.Result, error) {
	return s.ProcessSelection(transform.Deasciify)
}

// AsciifySelection is ProcessSelection in asciify mode.
func (s *Session) AsciifySelection() (textrange.Result, error) {
	return s.ProcessSelection(transform.Asciify)
}

// OnKeyUp is called after key has been inserted. A separator completes the
// word before the cursor, which is deasciified when auto convert is on.
func (s *Session) OnKeyUp(key rune) error {
	if !s.options.EnableAutoConvert || !boundary.IsSeparator(key) {
		return nil
	}
	selection := s.editor.Selection()
	out, err := rangeproc.Run(s.processor, rangeproc.CursorPolicy, transform.Deasciify, s.editor.Text(), selection)
	if err != nil {
		return err
	}
	if out.NoOp() {
		return nil
	}
	s.write(out)
	s.editor.SetSelection(selection)
	if out.Result.Changed() {
		s.logger.Debug("typed word converted", "range", out.Range.String(), "changed", len(out.Result.ChangedPositions))
	}
	return nil
}

// write invalidates the menu, since its anchor would go stale, and then
// writes the converted fragment back.
func (s *Session) write(out rangeproc.Outcome) {
	s.menu.Hide()
	s.workflow.OnExternalMutation()
	rng := out.Range
	s.editor.SetText(out.Result.Text, &rng)
	s.highlightChanges(out.Result)
}

func (s *Session) highlightChanges(res textrange.Result) {
	if !s.options.HighlightChanges || !res.Changed() {
		return
	}
	s.editor.HighlightMultiple(res.HighlightRanges(), editor.StyleChange)
}

// OnClick is called after a pointer click moved the caret. It shows the
// correction menu when the caret is inside a word with suggestions. A click
// that leaves a non-empty selection is a precondition error.
func (s *Session) OnClick() error {
	s.HideCorrectionMenu()
	if !s.options.EnableCorrectionMenu {
		return nil
	}
	st, err := s.workflow.OnPointerSelect(s.editor.Text(), s.editor.Selection())
	if err != nil {
		return err
	}
	if !st.Visible {
		return nil
	}
	start := s.editor.Position(st.Anchor.Start)
	end := s.editor.Position(st.Anchor.End)
	at := editor.Position{
		X: (start.X + end.X) / 2,
		Y: start.Y + s.editor.LineHeight(),
	}
	s.menu.Show(at, st.Word, st.Suggestions)
	return nil
}

// ChooseSuggestion replaces the word under the menu with choice. It returns
// false when no menu is shown.
func (s *Session) ChooseSuggestion(choice string) (bool, error) {
	ok, err := s.workflow.OnSuggestionChosen(choice)
	if ok {
		s.menu.Hide()
	}
	return ok, err
}

// HideCorrectionMenu closes the menu if it is open.
func (s *Session) HideCorrectionMenu() {
	s.menu.Hide()
	s.workflow.Hide()
}

// MenuState reports what the correction menu shows.
func (s *Session) MenuState() correction.MenuState {
	return s.workflow.State()
}

// Options returns the current editing options.
func (s *Session) Options() options.SessionOptions {
	return s.options
}

// SetOptions applies opts immediately. Disabling the menu hides it.
func (s *Session) SetOptions(opts ...options.Options) {
	for _, o := range opts {
		if o != nil {
			o.Apply(&s.options)
		}
	}
	if !s.options.EnableCorrectionMenu {
		s.HideCorrectionMenu()
	}
	s.logger.Debug("options updated",
		"highlight", s.options.HighlightChanges,
		"menu", s.options.EnableCorrectionMenu,
		"auto_convert", s.options.EnableAutoConvert)
}

// OnVirtualKey types key as an on-screen keyboard would. "backspace"
// deletes before the cursor.
func (s *Session) OnVirtualKey(key string) {
	s.HideCorrectionMenu()
	s.editor.Focus()
	if key == "backspace" {
		s.editor.DeleteCursor()
		return
	}
	s.editor.PutAtCursor(key)
}
