package notify

import (
	"context"
	"log/slog"
)

// Message is one outbound notification after payload rendering.
type Message struct {
	To   string
	Body string
}

// Sender delivers one message and returns the provider's message reference,
// used later to correlate delivery-status callbacks.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NopSender logs instead of delivering. Used when no messaging credentials
// are configured.
type NopSender struct{}

func (NopSender) Send(_ context.Context, msg Message) (string, error) {
	slog.Info("notification delivery disabled, dropping message", "to", msg.To)
	return "", nil
}
