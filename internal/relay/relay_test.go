package relay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deasciifier/internal/editor"
	"deasciifier/internal/pattern"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
)

func newBackground(t *testing.T) *Background {
	t.Helper()
	table, err := pattern.Compile(map[string]string{
		"c": "aXa|-bXb|-aX|-Xa",
		"g": "aXa|-bX|-Xb",
		"i": "Xk",
	})
	require.NoError(t, err)
	return NewBackground(transform.NewProcessor(table), nil)
}

func TestPeekKind(t *testing.T) {
	kind, err := PeekKind([]byte(`{"message":"REQUEST_TEXT"}`))
	require.NoError(t, err)
	assert.Equal(t, RequestText, kind)

	_, err = PeekKind([]byte(`{"message":`))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = PeekKind([]byte(`{"text":"x"}`))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = PeekKind([]byte(`{"message":7}`))
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = PeekKind([]byte(`{"message":"DEASCIIFY_HANDLER_ON"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestEncodeDecode(t *testing.T) {
	m := Message{Kind: DeliverText, Text: "Ağaça", SelectionStart: 1, SelectionEnd: 3, Mode: transform.Asciify}
	data, err := Encode(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"DELIVER_TEXT","text":"Ağaça","selection_start":1,"selection_end":3,"mode":"asciify"}`, string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, m, got)
	assert.Equal(t, textrange.New(1, 3), got.Selection())

	_, err = Encode(Message{Kind: "TEXT"})
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = Decode([]byte(`{"message":"DELIVER_TEXT","mode":"rot13"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestHandle(t *testing.T) {
	bg := newBackground(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Message
		want string
	}{
		{"whole text", Message{Kind: DeliverText, Text: "Agaca ciktik"}, "Ağaça çıktık"},
		{"selection", Message{Kind: DeliverText, Text: "Agaca ciktik", SelectionStart: 0, SelectionEnd: 5}, "Ağaça ciktik"},
		{"asciify", Message{Kind: DeliverText, Text: "Ağaça çıktık", Mode: transform.Asciify}, "Agaca ciktik"},
		{"typed word", Message{Kind: DeliverText, Text: "Agaca ciktik ", SelectionStart: 13, SelectionEnd: 13, Typed: true}, "Agaca çıktık "},
		{"typed ignores mode", Message{Kind: DeliverText, Text: "Agaca ", SelectionStart: 6, SelectionEnd: 6, Typed: true, Mode: transform.Asciify}, "Ağaça "},
		{"empty text", Message{Kind: DeliverText}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := bg.Handle(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, DeliverText, out.Kind)
			assert.Equal(t, tt.want, out.Text)
			assert.Equal(t, tt.in.Selection(), out.Selection())
		})
	}
}

func TestHandleErrors(t *testing.T) {
	bg := newBackground(t)

	_, err := bg.Handle(context.Background(), Message{Kind: RequestText})
	assert.ErrorIs(t, err, ErrUnexpectedMessage)

	_, err = bg.Handle(context.Background(), Message{Kind: DeliverText, Text: "abc", SelectionStart: 2, SelectionEnd: 1})
	assert.ErrorIs(t, err, textrange.ErrInvalidRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bg.Handle(ctx, Message{Kind: DeliverText, Text: "abc"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConvertOverChanHost(t *testing.T) {
	bg := newBackground(t)
	ed := editor.NewMemory("Agaca ciktik")
	ed.SetSelection(textrange.New(0, 5))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	host := NewChanHost()
	done := make(chan error, 1)
	go func() { done <- host.Serve(ctx, NewPage(ed).Handle) }()

	require.NoError(t, bg.Convert(ctx, host, transform.Deasciify))
	assert.Equal(t, "Ağaça ciktik", ed.Text())
	assert.Equal(t, textrange.New(0, 5), ed.Selection())

	ed.SetSelection(textrange.Point(0))
	require.NoError(t, bg.Convert(ctx, host, transform.Deasciify))
	assert.Equal(t, "Ağaça çıktık", ed.Text())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestExchangeCancelled(t *testing.T) {
	host := NewChanHost()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := host.Exchange(ctx, Message{Kind: RequestText})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestServePropagatesHandlerErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	bg := newBackground(t)
	host := NewChanHost()
	go func() {
		_ = host.Serve(ctx, func(m Message) (Message, error) { return bg.Handle(ctx, m) })
	}()

	_, err := host.Exchange(ctx, Message{Kind: RequestText})
	assert.ErrorIs(t, err, ErrUnexpectedMessage)
}
