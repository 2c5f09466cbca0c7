package relay

import (
	"context"
	"fmt"

	"deasciifier/internal/editor"
)

// Host is the page side as seen from the background.
type Host interface {
	Exchange(ctx context.Context, m Message) (Message, error)
}

type exchange struct {
	payload []byte
	reply   chan result
}

type result struct {
	payload []byte
	err     error
}

// ChanHost connects a background to a page over Go channels. Messages cross
// it encoded, the way they would cross a process boundary.
type ChanHost struct {
	requests chan exchange
}

// NewChanHost returns an unconnected host; run Serve on the page side.
func NewChanHost() *ChanHost {
	return &ChanHost{requests: make(chan exchange)}
}

// Exchange implements Host.
func (h *ChanHost) Exchange(ctx context.Context, m Message) (Message, error) {
	payload, err := Encode(m)
	if err != nil {
		return Message{}, err
	}
	ex := exchange{payload: payload, reply: make(chan result, 1)}
	select {
	case h.requests <- ex:
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
	select {
	case res := <-ex.reply:
		if res.err != nil {
			return Message{}, res.err
		}
		return Decode(res.payload)
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Serve answers exchanges with handler until ctx is done.
func (h *ChanHost) Serve(ctx context.Context, handler func(Message) (Message, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ex := <-h.requests:
			ex.reply <- serveOne(ex.payload, handler)
		}
	}
}

func serveOne(payload []byte, handler func(Message) (Message, error)) result {
	m, err := Decode(payload)
	if err != nil {
		return result{err: err}
	}
	reply, err := handler(m)
	if err != nil {
		return result{err: err}
	}
	out, err := Encode(reply)
	return result{payload: out, err: err}
}

// Page answers relay messages for one text box.
type Page struct {
	editor editor.TextEditor
}

// NewPage returns a page backed by ed.
func NewPage(ed editor.TextEditor) *Page {
	return &Page{editor: ed}
}

// Handle answers a request with the text box contents, or replaces them
// with delivered text and echoes the delivery back.
func (p *Page) Handle(m Message) (Message, error) {
	switch m.Kind {
	case RequestText:
		sel := p.editor.Selection()
		return Message{
			Kind:           DeliverText,
			Text:           p.editor.Text(),
			SelectionStart: sel.Start,
			SelectionEnd:   sel.End,
		}, nil
	case DeliverText:
		p.editor.SetText(m.Text, nil)
		if m.Selection().Validate() == nil {
			p.editor.SetSelection(m.Selection())
		}
		return m, nil
	}
	return Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
}
