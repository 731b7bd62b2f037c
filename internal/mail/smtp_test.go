package mail

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
)

func withStubSendMail(t *testing.T, stub func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) {
	t.Helper()
	orig := smtpSendMail
	smtpSendMail = stub
	t.Cleanup(func() {
		smtpSendMail = orig
	})
}

func TestSMTPClientSend(t *testing.T) {
	client := NewSMTPClient("smtp.example.com", 587, "user", "pass", "no-reply@example.com", "Alpine Outdoor Living")

	var called bool
	withStubSendMail(t, func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		if addr != "smtp.example.com:587" {
			t.Errorf("addr = %q", addr)
		}
		if a == nil {
			t.Error("expected PlainAuth when credentials are set")
		}
		if from != "no-reply@example.com" {
			t.Errorf("envelope from = %q", from)
		}
		if len(to) != 1 || to[0] != "customer@example.com" {
			t.Errorf("recipients = %v", to)
		}
		body := string(msg)
		if !strings.Contains(body, "Subject: Your quote\r\n") {
			t.Errorf("missing subject header in %q", body)
		}
		if !strings.Contains(body, `To: "Ana Flores" <customer@example.com>`) {
			t.Errorf("missing named recipient header in %q", body)
		}
		if !strings.Contains(body, "<p>Hi</p>") {
			t.Errorf("missing body in %q", body)
		}
		return nil
	})

	err := client.Send(context.Background(), Email{
		ToEmail:  "customer@example.com",
		ToName:   "Ana Flores",
		Subject:  "Your quote",
		BodyHTML: "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !called {
		t.Fatal("sendmail was never invoked")
	}
}

func TestSMTPClientSendNoAuthWhenCredentialsBlank(t *testing.T) {
	client := NewSMTPClient("smtp.example.com", 25, "", "", "no-reply@example.com", "Alpine")

	withStubSendMail(t, func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		if a != nil {
			t.Error("expected nil auth when credentials are blank")
		}
		return nil
	})

	if err := client.Send(context.Background(), Email{ToEmail: "a@example.com", Subject: "s", BodyHTML: "b"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
}
