package textrange

// Result is the outcome of transforming one Range of a document.
//
// Text is the converted fragment covering exactly the requested range; the
// caller writes it back at the range's start. ChangedPositions are strictly
// increasing document indices of runes that differ from the source. They are
// meant for highlighting only.
type Result struct {
	Text             string
	ChangedPositions []int
}

// Changed reports whether any rune differs from the source.
func (r Result) Changed() bool {
	return len(r.ChangedPositions) > 0
}

// HighlightRanges returns one single-rune range per changed position.
func (r Result) HighlightRanges() []Range {
	if len(r.ChangedPositions) == 0 {
		return nil
	}
	ranges := make([]Range, len(r.ChangedPositions))
	for i, p := range r.ChangedPositions {
		ranges[i] = Range{Start: p, End: p + 1}
	}
	return ranges
}

// Apply splices the fragment into doc at rng. rng is clamped to doc first;
// invalid ranges are returned as errors.
func (r Result) Apply(doc string, rng Range) (string, error) {
	runes := []rune(doc)
	rng, err := rng.Clamp(len(runes))
	if err != nil {
		return doc, err
	}
	out := make([]rune, 0, len(runes)-rng.Len()+len(r.Text))
	out = append(out, runes[:rng.Start]...)
	out = append(out, []rune(r.Text)...)
	out = append(out, runes[rng.End:]...)
	return string(out), nil
}
