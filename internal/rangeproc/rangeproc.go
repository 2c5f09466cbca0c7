// Package rangeproc resolves which range a call site converts and runs the
// transformer over it. Every call site goes through Resolve so the range
// contract is the same for whole-text, selection and typing conversions.
package rangeproc

import (
	"fmt"

	"deasciifier/internal/boundary"
	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
)

// Policy selects how an empty selection is interpreted.
type Policy uint8

const (
	// SelectionPolicy serves user-invoked conversions: an empty selection
	// means the whole text.
	SelectionPolicy Policy = iota
	// CursorPolicy serves conversion while typing: an empty selection means
	// the word completed just before the cursor.
	CursorPolicy
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case SelectionPolicy:
		return "selection"
	case CursorPolicy:
		return "cursor"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Resolve returns the effective range for selection under policy. A
// non-empty selection is used as-is after clamping. The result may be empty,
// which means there is nothing to convert.
func Resolve(policy Policy, text []rune, selection textrange.Range) (textrange.Range, error) {
	if err := selection.Validate(); err != nil {
		return selection, err
	}
	if !selection.IsEmpty() {
		return selection.Clamp(len(text))
	}
	switch policy {
	case SelectionPolicy:
		return textrange.Whole(len(text)), nil
	case CursorPolicy:
		pos := selection.Start
		if pos > len(text) {
			pos = len(text)
		}
		return boundary.WordBeforeCursor(text, pos)
	}
	return selection, fmt.Errorf("unknown policy %s", policy)
}

// Outcome is a resolved range together with its conversion.
type Outcome struct {
	Range  textrange.Range
	Result textrange.Result
}

// NoOp reports whether the resolved range was empty.
func (o Outcome) NoOp() bool {
	return o.Range.IsEmpty()
}

// Run resolves the range for selection and converts it in mode.
func Run(p *transform.Processor, policy Policy, mode transform.Mode, text string, selection textrange.Range) (Outcome, error) {
	runes := []rune(text)
	rng, err := Resolve(policy, runes, selection)
	if err != nil {
		return Outcome{}, err
	}
	if rng.IsEmpty() {
		return Outcome{Range: rng}, nil
	}
	res, err := p.ProcessRange(mode, text, rng)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Range: rng, Result: res}, nil
}
