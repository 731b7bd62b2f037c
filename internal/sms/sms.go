// Package sms sends text alerts through the Twilio Messages API.
package sms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sender delivers a single SMS to one recipient.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// NoopSender drops messages. Used when Twilio is not configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to, body string) error {
	slog.InfoContext(ctx, "sms transport not configured, dropping message", "to", to)
	return nil
}

// TwilioClient posts messages to the Twilio REST API.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	client     *http.Client
	baseURL    string
}

// NewTwilioClient creates a TwilioClient with a short request timeout.
func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

// Send creates a message via form POST with HTTP basic auth.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)

	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio rejected message: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
