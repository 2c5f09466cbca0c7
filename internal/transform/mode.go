package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned for modes other than Deasciify and Asciify.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects which transformer a call uses.
type Mode uint8

const (
	Deasciify Mode = iota
	Asciify
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case Deasciify:
		return "deasciify"
	case Asciify:
		return "asciify"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses "deasciify" or "asciify", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deasciify", "":
		return Deasciify, nil
	case "asciify":
		return Asciify, nil
	}
	return Deasciify, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != Deasciify && m != Asciify {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
