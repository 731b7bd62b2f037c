package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendClient sends email through the Resend transactional API.
type ResendClient struct {
	apiKey   string
	from     string
	fromName string
	client   *http.Client
	endpoint string
}

// NewResendClient creates a ResendClient with a short request timeout.
func NewResendClient(apiKey, from, fromName string) *ResendClient {
	return &ResendClient{
		apiKey:   apiKey,
		from:     from,
		fromName: fromName,
		client:   &http.Client{Timeout: 10 * time.Second},
		endpoint: resendEndpoint,
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

// Send posts the email to the Resend API.
func (c *ResendClient) Send(ctx context.Context, email Email) error {
	payload := resendPayload{
		From:    fmt.Sprintf("%q <%s>", c.fromName, c.from),
		To:      []string{email.ToEmail},
		Subject: email.Subject,
		HTML:    email.BodyHTML,
		Text:    email.BodyText,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend rejected email: status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
