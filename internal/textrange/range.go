// Package textrange holds the value types shared by every conversion call
// site: the half-open Range and the Result of transforming one.
//
// All indices are codepoint (rune) offsets, never byte offsets.
package textrange

import (
	"errors"
	"fmt"
)

// Errors shared by the engine packages.
var (
	// ErrInvalidRange reports a negative index or Start > End.
	ErrInvalidRange = errors.New("invalid range")
	// ErrPrecondition reports a call made in a state the operation is not
	// defined for, e.g. asking for the word at a cursor that is not inside one.
	ErrPrecondition = errors.New("precondition violated")
)

// Range is a half-open interval [Start, End) over rune indices.
type Range struct {
	Start int
	End   int
}

// New creates a Range from start and end.
func New(start, end int) Range {
	return Range{Start: start, End: end}
}

// Whole returns [0, length).
func Whole(length int) Range {
	return Range{Start: 0, End: length}
}

// Point returns the empty range at pos.
func Point(pos int) Range {
	return Range{Start: pos, End: pos}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if pos is within the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Start && pos < r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Validate reports ErrInvalidRange for negative indices or Start > End.
// An End past the text is not checked here; see Clamp.
func (r Range) Validate() error {
	if r.Start < 0 || r.End < 0 || r.Start > r.End {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	return nil
}

// Clamp validates the range and pulls an oversized End (and Start) down to
// length. Oversized ends are expected from callers holding stale selections
// and are never an error.
func (r Range) Clamp(length int) (Range, error) {
	if err := r.Validate(); err != nil {
		return r, err
	}
	if r.End > length {
		r.End = length
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r, nil
}
