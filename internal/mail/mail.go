// Package mail delivers outbound email through SMTP or the Resend API.
package mail

import (
	"context"
	"log/slog"
)

// Email is one outbound message.
type Email struct {
	ToEmail  string
	ToName   string
	Subject  string
	BodyHTML string
	BodyText string
}

// Sender delivers a single email synchronously.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// NoopSender drops email on the floor. Used when no transport is
// configured so the rest of the system behaves identically.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, email Email) error {
	slog.InfoContext(ctx, "mail transport not configured, dropping email",
		"to", email.ToEmail, "subject", email.Subject)
	return nil
}
