// Package transform converts ranges of text between ASCII-typed and
// accented Turkish.
//
// Both transformers share one range contract: ranges are half-open rune
// intervals, an oversized End is clamped to the text length, and a negative
// or inverted range is an error. The returned fragment covers exactly the
// clamped range; changed positions are document indices.
package transform

import (
	"golang.org/x/text/unicode/norm"

	"deasciifier/internal/pattern"
	"deasciifier/internal/textrange"
	"deasciifier/internal/turkish"
)

// Transformer converts a text or a range of it.
type Transformer interface {
	Process(text string) (textrange.Result, error)
	ProcessRange(text string, r textrange.Range) (textrange.Result, error)
}

// Asciifier strips Turkish diacritics. It consults no context, so it is
// total and idempotent.
type Asciifier struct{}

// NewAsciifier returns an Asciifier.
func NewAsciifier() *Asciifier {
	return &Asciifier{}
}

// Process asciifies the whole text.
func (a *Asciifier) Process(text string) (textrange.Result, error) {
	return a.ProcessRange(text, textrange.Whole(len([]rune(text))))
}

// ProcessRange asciifies text[r.Start:r.End].
func (a *Asciifier) ProcessRange(text string, r textrange.Range) (textrange.Result, error) {
	src := []rune(text)
	r, err := r.Clamp(len(src))
	if err != nil {
		return textrange.Result{}, err
	}
	out := make([]rune, r.Len())
	var changed []int
	for i := r.Start; i < r.End; i++ {
		out[i-r.Start] = turkish.Asciify(src[i])
		if out[i-r.Start] != src[i] {
			changed = append(changed, i)
		}
	}
	return textrange.Result{Text: string(out), ChangedPositions: changed}, nil
}

// Deasciifier restores Turkish accents using a pattern table.
type Deasciifier struct {
	table *pattern.Table
}

// NewDeasciifier returns a Deasciifier over table.
func NewDeasciifier(table *pattern.Table) *Deasciifier {
	return &Deasciifier{table: table}
}

// Table returns the pattern table in use.
func (d *Deasciifier) Table() *pattern.Table {
	return d.table
}

// Process deasciifies the whole text.
func (d *Deasciifier) Process(text string) (textrange.Result, error) {
	return d.ProcessRange(text, textrange.Whole(len([]rune(text))))
}

// ProcessRange deasciifies text[r.Start:r.End]. Every decision reads the
// untouched source, so converting position i never influences i+1. Context
// outside the range is still consulted.
func (d *Deasciifier) ProcessRange(text string, r textrange.Range) (textrange.Result, error) {
	src := []rune(text)
	r, err := r.Clamp(len(src))
	if err != nil {
		return textrange.Result{}, err
	}
	out := make([]rune, r.Len())
	copy(out, src[r.Start:r.End])
	var changed []int
	for i := r.Start; i < r.End; i++ {
		convert, ok := d.table.Decide(src, i)
		if !ok || !convert {
			continue
		}
		if accented, ok := turkish.Accent(src[i]); ok {
			out[i-r.Start] = accented
			changed = append(changed, i)
		}
	}
	return textrange.Result{Text: string(out), ChangedPositions: changed}, nil
}

// Normalize composes decomposed accents (NFC) so each Turkish letter is one
// rune. Hosts apply it to incoming text before computing any range.
func Normalize(text string) string {
	return norm.NFC.String(text)
}
