package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"deasciifier/internal/correction"
	"deasciifier/internal/editor"
	"deasciifier/internal/session"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
	"deasciifier/pkg/options"
)

var (
	styleText       = tcell.StyleDefault
	styleSelection  = tcell.StyleDefault.Reverse(true)
	styleChanged    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleCorrection = tcell.StyleDefault.Underline(true)
	styleMenu       = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleMenuActive = tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorNavy)
	styleStatus     = tcell.StyleDefault.Reverse(true)
)

// optionsEvent carries options from another goroutine into the event loop.
type optionsEvent struct {
	options options.SessionOptions
}

// App is an interactive terminal editor with live deasciification.
type App struct {
	screen  tcell.Screen
	editor  *Editor
	menu    *Menu
	session *session.Session
	logger  *slog.Logger
	status  string
}

// New builds an app drawing on screen, which must already be initialized.
func New(screen tcell.Screen, processor *transform.Processor, catalog correction.Catalog, logger *slog.Logger, opts ...options.Options) *App {
	if logger == nil {
		logger = slog.Default()
	}
	ed := NewEditor("")
	menu := &Menu{}
	return &App{
		screen: screen,
		editor: ed,
		menu:   menu,
		session: session.New(ed, processor, catalog,
			session.WithMenu(menu),
			session.WithLogger(logger),
			session.WithOptions(opts...)),
		logger: logger.With("component", "tui"),
	}
}

// Editor returns the edited buffer.
func (a *App) Editor() *Editor { return a.editor }

// Session returns the underlying session.
func (a *App) Session() *session.Session { return a.session }

// SetOptions may be called from any goroutine; the change is applied by the
// event loop.
func (a *App) SetOptions(so options.SessionOptions) {
	_ = a.screen.PostEvent(tcell.NewEventInterrupt(optionsEvent{options: so}))
}

// Run draws and handles events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
	}()
	for {
		a.Draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ie, ok := ev.(*tcell.EventInterrupt); ok {
			if err, isErr := ie.Data().(error); isErr {
				return err
			}
		}
		if a.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent applies one event and reports whether the app should quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(e)
	case *tcell.EventMouse:
		a.handleMouse(e)
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		if oe, ok := e.Data().(optionsEvent); ok {
			a.session.SetOptions(options.WithSessionOptions(oe.options))
			a.status = "options reloaded"
		}
	}
	return false
}

func (a *App) handleKey(e *tcell.EventKey) bool {
	if a.menu.Visible() {
		switch e.Key() {
		case tcell.KeyUp:
			a.menu.Move(-1)
			return false
		case tcell.KeyDown:
			a.menu.Move(1)
			return false
		case tcell.KeyEnter:
			if choice, ok := a.menu.Selected(); ok {
				a.choose(choice)
			}
			return false
		case tcell.KeyEscape:
			a.session.HideCorrectionMenu()
			return false
		}
	}

	switch e.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return true
	case tcell.KeyCtrlD:
		a.convert(transform.Deasciify)
	case tcell.KeyCtrlA:
		a.convert(transform.Asciify)
	case tcell.KeyCtrlT:
		a.toggle("auto convert", func(so *options.SessionOptions) *bool { return &so.EnableAutoConvert })
	case tcell.KeyCtrlL:
		a.toggle("highlight", func(so *options.SessionOptions) *bool { return &so.HighlightChanges })
	case tcell.KeyCtrlK:
		a.toggle("correction menu", func(so *options.SessionOptions) *bool { return &so.EnableCorrectionMenu })
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.session.OnVirtualKey("backspace")
	case tcell.KeyEnter:
		a.typeRune('\n')
	case tcell.KeyTab:
		a.typeRune('\t')
	case tcell.KeyLeft:
		a.moveCursor(-1, e.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyRight:
		a.moveCursor(1, e.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyHome:
		a.session.HideCorrectionMenu()
		a.editor.SetSelection(textrange.Point(0))
	case tcell.KeyEnd:
		a.session.HideCorrectionMenu()
		a.editor.SetSelection(textrange.Point(a.editor.Len()))
	case tcell.KeyRune:
		a.typeRune(e.Rune())
	}
	return false
}

func (a *App) typeRune(r rune) {
	a.session.OnVirtualKey(string(r))
	if err := a.session.OnKeyUp(r); err != nil {
		a.fail(err)
	}
}

func (a *App) convert(mode transform.Mode) {
	res, err := a.session.ProcessSelection(mode)
	if err != nil {
		a.fail(err)
		return
	}
	a.status = fmt.Sprintf("%s: %d changed", mode, len(res.ChangedPositions))
}

func (a *App) choose(choice string) {
	if _, err := a.session.ChooseSuggestion(choice); err != nil {
		a.fail(err)
	}
}

func (a *App) toggle(name string, field func(*options.SessionOptions) *bool) {
	a.session.SetOptions(options.NewFuncOption(func(so *options.SessionOptions) {
		p := field(so)
		*p = !*p
	}))
	so := a.session.Options()
	state := "off"
	if *field(&so) {
		state = "on"
	}
	a.status = name + " " + state
}

// moveCursor moves the caret by delta runes. With extend the selection
// grows from its anchor at Start.
func (a *App) moveCursor(delta int, extend bool) {
	a.session.HideCorrectionMenu()
	sel := a.editor.Selection()
	end := sel.End + delta
	if end < 0 {
		end = 0
	}
	if end > a.editor.Len() {
		end = a.editor.Len()
	}
	if !extend {
		a.editor.SetSelection(textrange.Point(end))
		return
	}
	if end < sel.Start {
		end = sel.Start
	}
	a.editor.SetSelection(textrange.New(sel.Start, end))
}

func (a *App) handleMouse(e *tcell.EventMouse) {
	if e.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := e.Position()
	if a.menu.Visible() {
		ox, oy := a.menuOrigin()
		if row, ok := a.menu.ItemAt(ox, oy, x, y); ok {
			a.choose(a.menu.suggestions[row])
			return
		}
	}
	a.editor.SetSelection(textrange.Point(a.editor.IndexAt(x, y)))
	if err := a.session.OnClick(); err != nil {
		a.fail(err)
	}
}

func (a *App) fail(err error) {
	a.status = "error: " + err.Error()
	a.logger.Warn("operation failed", "err", err)
}

// menuOrigin centres the popup under the word, kept on screen.
func (a *App) menuOrigin() (int, int) {
	w, _ := a.screen.Size()
	x := a.menu.at.X - a.menu.width()/2
	if x+a.menu.width() > w {
		x = w - a.menu.width()
	}
	if x < 0 {
		x = 0
	}
	return x, a.menu.at.Y
}

// Draw renders the buffer, popup and status line.
func (a *App) Draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	styles := map[int]tcell.Style{}
	for _, hl := range a.editor.Highlights() {
		st := styleChanged
		if hl.Style == editor.StyleCorrection {
			st = styleCorrection
		}
		for i := hl.Range.Start; i < hl.Range.End; i++ {
			styles[i] = st
		}
	}
	sel := a.editor.Selection()

	x, y := 0, 0
	for i, r := range []rune(a.editor.Text()) {
		if r == '\n' {
			x, y = 0, y+1
			continue
		}
		st := styleText
		if s, ok := styles[i]; ok {
			st = s
		}
		if sel.Contains(i) {
			st = styleSelection
		}
		if y < h-1 {
			if r == '\t' {
				for i := 0; i < TabWidth && x+i < w; i++ {
					a.screen.SetContent(x+i, y, ' ', nil, st)
				}
			} else if x < w {
				a.screen.SetContent(x, y, r, nil, st)
			}
		}
		x += RuneWidth(r)
	}

	cur := a.editor.Position(sel.End)
	a.screen.ShowCursor(cur.X, cur.Y)

	if a.menu.Visible() {
		a.drawMenu()
	}
	a.drawStatus(w, h)
	a.screen.Show()
}

func (a *App) drawMenu() {
	ox, oy := a.menuOrigin()
	width := a.menu.width()
	for row, s := range a.menu.suggestions {
		st := styleMenu
		if row == a.menu.selected {
			st = styleMenuActive
		}
		for i := 0; i < width; i++ {
			a.screen.SetContent(ox+i, oy+row, ' ', nil, st)
		}
		cx := ox + 1
		for _, r := range s {
			a.screen.SetContent(cx, oy+row, r, nil, st)
			cx += RuneWidth(r)
		}
	}
}

func (a *App) drawStatus(w, h int) {
	so := a.session.Options()
	line := fmt.Sprintf(" auto:%s highlight:%s menu:%s  ^D deasciify ^A asciify ^T ^L ^K toggle ^Q quit  %s",
		onOff(so.EnableAutoConvert), onOff(so.HighlightChanges), onOff(so.EnableCorrectionMenu), a.status)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		a.screen.SetContent(x, h-1, r, nil, styleStatus)
		x += RuneWidth(r)
	}
	for ; x < w; x++ {
		a.screen.SetContent(x, h-1, ' ', nil, styleStatus)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
