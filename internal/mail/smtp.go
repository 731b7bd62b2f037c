package mail

import (
	"context"
	"fmt"
	"net/smtp"
)

// smtpSendMail is stubbed in tests.
var smtpSendMail = smtp.SendMail

// SMTPClient wraps net/smtp to provide a simple interface for sending emails.
type SMTPClient struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
}

// NewSMTPClient creates a new SMTPClient with the given SMTP server configuration.
func NewSMTPClient(host string, port int, user, pass, from, fromName string) *SMTPClient {
	return &SMTPClient{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
	}
}

// Send delivers a multipart email to the recipient using SMTP with PlainAuth.
func (c *SMTPClient) Send(_ context.Context, email Email) error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	var auth smtp.Auth
	if c.user != "" || c.pass != "" {
		auth = smtp.PlainAuth("", c.user, c.pass, c.host)
	}

	to := email.ToEmail
	if email.ToName != "" {
		to = fmt.Sprintf("%q <%s>", email.ToName, email.ToEmail)
	}

	headers := fmt.Sprintf(
		"From: %q <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		c.fromName, c.from, to, email.Subject,
	)

	msg := []byte(headers + email.BodyHTML)

	return smtpSendMail(addr, auth, c.from, []string{email.ToEmail}, msg)
}
