package transform

import (
	"fmt"

	"deasciifier/internal/pattern"
	"deasciifier/internal/textrange"
)

// Processor dispatches to the transformer for an explicit Mode. It holds no
// mode of its own and is safe for concurrent use.
type Processor struct {
	deasciifier *Deasciifier
	asciifier   *Asciifier
}

// NewProcessor returns a Processor deasciifying with table.
func NewProcessor(table *pattern.Table) *Processor {
	return &Processor{
		deasciifier: NewDeasciifier(table),
		asciifier:   NewAsciifier(),
	}
}

// Transformer returns the transformer for mode.
func (p *Processor) Transformer(mode Mode) (Transformer, error) {
	switch mode {
	case Deasciify:
		return p.deasciifier, nil
	case Asciify:
		return p.asciifier, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
}

// Process converts the whole text in mode.
func (p *Processor) Process(mode Mode, text string) (textrange.Result, error) {
	t, err := p.Transformer(mode)
	if err != nil {
		return textrange.Result{}, err
	}
	return t.Process(text)
}

// ProcessRange converts text[r.Start:r.End] in mode.
func (p *Processor) ProcessRange(mode Mode, text string, r textrange.Range) (textrange.Result, error) {
	t, err := p.Transformer(mode)
	if err != nil {
		return textrange.Result{}, err
	}
	return t.ProcessRange(text, r)
}
