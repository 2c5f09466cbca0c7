package relay

import (
	"context"
	"fmt"
	"log/slog"

	"deasciifier/internal/rangeproc"
	"deasciifier/internal/transform"
)

// Background owns the engine and converts text delivered by pages.
type Background struct {
	processor *transform.Processor
	logger    *slog.Logger
}

// NewBackground returns a background converting with processor.
func NewBackground(processor *transform.Processor, logger *slog.Logger) *Background {
	if logger == nil {
		logger = slog.Default()
	}
	return &Background{processor: processor, logger: logger.With("component", "relay")}
}

// Convert asks host for its text, converts the selection in mode and
// delivers the result back.
func (b *Background) Convert(ctx context.Context, host Host, mode transform.Mode) error {
	reply, err := host.Exchange(ctx, Message{Kind: RequestText})
	if err != nil {
		return fmt.Errorf("request text: %w", err)
	}
	if reply.Kind != DeliverText {
		return fmt.Errorf("%w: got %s in reply to %s", ErrUnexpectedMessage, reply.Kind, RequestText)
	}
	reply.Mode = mode
	reply.Typed = false
	out, err := b.Handle(ctx, reply)
	if err != nil {
		return err
	}
	if _, err := host.Exchange(ctx, out); err != nil {
		return fmt.Errorf("deliver text: %w", err)
	}
	return nil
}

// Handle converts one delivered text and returns the delivery to send back,
// carrying the whole converted text and the original selection. Typed
// deliveries deasciify the word before the cursor only.
func (b *Background) Handle(ctx context.Context, m Message) (Message, error) {
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}
	if m.Kind != DeliverText {
		return Message{}, fmt.Errorf("%w: cannot convert %s", ErrUnexpectedMessage, m.Kind)
	}
	policy, mode := rangeproc.SelectionPolicy, m.Mode
	if m.Typed {
		policy, mode = rangeproc.CursorPolicy, transform.Deasciify
	}
	out, err := rangeproc.Run(b.processor, policy, mode, m.Text, m.Selection())
	if err != nil {
		return Message{}, err
	}
	text := m.Text
	if !out.NoOp() {
		if text, err = out.Result.Apply(m.Text, out.Range); err != nil {
			return Message{}, err
		}
	}
	b.logger.Debug("relay conversion", "mode", mode.String(), "policy", policy.String(), "range", out.Range.String(), "changed", len(out.Result.ChangedPositions))
	return Message{
		Kind:           DeliverText,
		Text:           text,
		SelectionStart: m.SelectionStart,
		SelectionEnd:   m.SelectionEnd,
		Mode:           mode,
		Typed:          m.Typed,
	}, nil
}
