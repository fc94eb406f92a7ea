package mailer

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// ConsoleTransport logs messages instead of delivering them. It is used when
// no mail API key is configured.
type ConsoleTransport struct {
	log *zerolog.Logger
}

func NewConsoleTransport(log *zerolog.Logger) *ConsoleTransport {
	return &ConsoleTransport{log: log}
}

func (t *ConsoleTransport) Name() string { return "console" }

func (t *ConsoleTransport) Send(_ context.Context, msg Message) error {
	t.log.Info().
		Str("from", msg.From).
		Str("to", strings.Join(msg.To, ",")).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("📧 email (console fallback, not delivered)")
	return nil
}
