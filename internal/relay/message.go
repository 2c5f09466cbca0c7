// Package relay carries conversion requests between a page that owns a text
// box and a background process that owns the engine. Messages are JSON; the
// engine is never loaded on the page side.
package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
)

// Kind names a message.
type Kind string

const (
	// RequestText asks the page for its text and selection.
	RequestText Kind = "REQUEST_TEXT"
	// DeliverText carries text and selection in either direction.
	DeliverText Kind = "DELIVER_TEXT"
)

var (
	ErrMalformed         = errors.New("malformed message")
	ErrUnknownKind       = errors.New("unknown message kind")
	ErrUnexpectedMessage = errors.New("unexpected message")
)

// Message is the wire form of every relay exchange.
type Message struct {
	Kind           Kind           `json:"message"`
	Text           string         `json:"text,omitempty"`
	SelectionStart int            `json:"selection_start"`
	SelectionEnd   int            `json:"selection_end"`
	Mode           transform.Mode `json:"mode"`
	// Typed marks text sent after a separator was typed; only the word
	// before the cursor is converted.
	Typed bool `json:"typed,omitempty"`
}

// Selection returns the carried selection as a range.
func (m Message) Selection() textrange.Range {
	return textrange.New(m.SelectionStart, m.SelectionEnd)
}

// PeekKind reads the kind of an encoded message without decoding the rest.
func PeekKind(data []byte) (Kind, error) {
	if !gjson.ValidBytes(data) {
		return "", ErrMalformed
	}
	v := gjson.GetBytes(data, "message")
	if !v.Exists() || v.Type != gjson.String {
		return "", fmt.Errorf("%w: missing message field", ErrMalformed)
	}
	kind := Kind(v.String())
	switch kind {
	case RequestText, DeliverText:
		return kind, nil
	}
	return kind, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Decode parses an encoded message.
func Decode(data []byte) (Message, error) {
	if _, err := PeekKind(data); err != nil {
		return Message{}, err
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return m, nil
}

// Encode serializes a message.
func Encode(m Message) ([]byte, error) {
	switch m.Kind {
	case RequestText, DeliverText:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}
	return json.Marshal(m)
}
