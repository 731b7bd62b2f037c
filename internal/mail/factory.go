package mail

import (
	"github.com/conley21p/alpine-outdoor-living/internal/config"
)

// NewSenderFromConfig picks the configured transport. Falling back to the
// noop sender keeps lead intake working on a box with no mail credentials.
func NewSenderFromConfig(cfg *config.Config) Sender {
	switch {
	case cfg.EmailProvider == "resend" && cfg.ResendEnabled():
		return NewResendClient(cfg.ResendAPIKey, cfg.ResendFrom, cfg.Site.BusinessName)
	case cfg.SMTPEnabled():
		return NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.Site.BusinessName)
	default:
		return NoopSender{}
	}
}
