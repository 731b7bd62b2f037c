package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

func newTestEmailService() (*EmailService, *mockEmailQueueStore, *captureSender, *mockAgentLogStore) {
	queue := newMockEmailQueueStore()
	sender := &captureSender{}
	auditor, logs := testAuditor()
	svc := NewEmailService(queue, sender, testTemplates(), auditor, "owner@example.com", "http://localhost:8080")
	return svc, queue, sender, logs
}

func TestEmailQueueValidation(t *testing.T) {
	svc, _, _, _ := newTestEmailService()

	cases := []models.QueuedEmailCreateParams{
		{ToEmail: "", Subject: "s", BodyText: "b"},
		{ToEmail: "not-an-address", Subject: "s", BodyText: "b"},
		{ToEmail: "a@example.com", Subject: "", BodyText: "b"},
		{ToEmail: "a@example.com", Subject: "s"},
	}
	for _, p := range cases {
		if _, err := svc.Queue(context.Background(), p); err == nil {
			t.Errorf("Queue(%+v) succeeded, want validation error", p)
		}
	}
}

func TestEmailQueueHoldsForApproval(t *testing.T) {
	svc, _, sender, logs := newTestEmailService()

	queued, err := svc.Queue(context.Background(), models.QueuedEmailCreateParams{
		ToEmail:  "Customer@Example.com",
		Subject:  "Your quote",
		BodyText: "Quote attached.",
	})
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if queued.Status != models.EmailPendingApproval {
		t.Errorf("status = %q, want pending_approval", queued.Status)
	}
	if queued.ToEmail != "customer@example.com" {
		t.Errorf("recipient = %q, want lowercased", queued.ToEmail)
	}
	// Only the owner alert goes out at queue time, never the draft itself.
	if sender.count() != 1 || sender.sent[0].ToEmail != "owner@example.com" {
		t.Errorf("queue-time email went to %v, want one alert to the owner", sender.sent)
	}
	if got := logs.actions(); len(got) != 1 || got[0] != "email_queued" {
		t.Errorf("audit actions = %v, want [email_queued]", got)
	}
}

func TestEmailApproveSends(t *testing.T) {
	svc, _, sender, logs := newTestEmailService()

	queued, err := svc.Queue(context.Background(), models.QueuedEmailCreateParams{
		ToEmail:  "customer@example.com",
		Subject:  "Your quote",
		BodyText: "Quote attached.",
	})
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}

	sent, err := svc.Approve(context.Background(), queued.PublicID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if sent.Status != models.EmailSent {
		t.Errorf("status = %q, want sent", sent.Status)
	}
	if sent.SentAt == nil {
		t.Error("SentAt not set")
	}
	last := sender.sent[sender.count()-1]
	if last.ToEmail != "customer@example.com" {
		t.Errorf("delivery went to %q, want the customer", last.ToEmail)
	}
	got := logs.actions()
	if len(got) != 2 || got[1] != "email_sent" {
		t.Errorf("audit actions = %v, want [email_queued email_sent]", got)
	}
}

func TestEmailApproveTwiceConflicts(t *testing.T) {
	svc, _, _, _ := newTestEmailService()

	queued, err := svc.Queue(context.Background(), models.QueuedEmailCreateParams{
		ToEmail:  "customer@example.com",
		Subject:  "s",
		BodyText: "b",
	})
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), queued.PublicID); err != nil {
		t.Fatalf("first Approve failed: %v", err)
	}
	if _, err := svc.Approve(context.Background(), queued.PublicID); !errors.Is(err, store.ErrConflict) {
		t.Errorf("second Approve: err = %v, want ErrConflict", err)
	}
}

func TestEmailApproveDeliveryFailureMarksFailed(t *testing.T) {
	svc, queue, sender, logs := newTestEmailService()

	queued, err := svc.Queue(context.Background(), models.QueuedEmailCreateParams{
		ToEmail:  "customer@example.com",
		Subject:  "s",
		BodyText: "b",
	})
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}

	sender.sendErr = errors.New("smtp: connection refused")
	if _, err := svc.Approve(context.Background(), queued.PublicID); err == nil {
		t.Fatal("Approve succeeded despite delivery failure")
	}

	row := queue.emails[queued.ID]
	if row.Status != models.EmailFailed {
		t.Errorf("status = %q, want failed", row.Status)
	}
	if row.ErrorMessage == "" {
		t.Error("error message not recorded")
	}
	got := logs.actions()
	if len(got) != 2 || got[1] != "email_send_failed" {
		t.Errorf("audit actions = %v, want [email_queued email_send_failed]", got)
	}

	// A failed email can be approved again once the transport recovers.
	sender.sendErr = nil
	sent, err := svc.Approve(context.Background(), queued.PublicID)
	if err != nil {
		t.Fatalf("retry Approve failed: %v", err)
	}
	if sent.Status != models.EmailSent {
		t.Errorf("retry status = %q, want sent", sent.Status)
	}
}

func TestEmailCancel(t *testing.T) {
	svc, queue, _, logs := newTestEmailService()

	queued, err := svc.Queue(context.Background(), models.QueuedEmailCreateParams{
		ToEmail:  "customer@example.com",
		Subject:  "s",
		BodyText: "b",
	})
	if err != nil {
		t.Fatalf("Queue failed: %v", err)
	}
	if err := svc.Cancel(context.Background(), queued.PublicID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if queue.emails[queued.ID].Status != models.EmailCancelled {
		t.Errorf("status = %q, want cancelled", queue.emails[queued.ID].Status)
	}
	// Cancelling twice conflicts.
	if err := svc.Cancel(context.Background(), queued.PublicID); !errors.Is(err, store.ErrConflict) {
		t.Errorf("second Cancel: err = %v, want ErrConflict", err)
	}
	got := logs.actions()
	if len(got) != 2 || got[1] != "email_cancelled" {
		t.Errorf("audit actions = %v, want [email_queued email_cancelled]", got)
	}
}
