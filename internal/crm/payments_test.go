package crm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/approval"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

func newTestPaymentService(payments *mockPaymentStore, secret string) (*PaymentService, *captureSender, *captureTexter, *mockAgentLogStore) {
	sender := &captureSender{}
	texter := &captureTexter{}
	auditor, logs := testAuditor()
	svc := NewPaymentService(payments, approval.NewSigner(secret), sender, testTemplates(), texter, auditor,
		"owner@example.com", "+15550100000", "http://localhost:8080", "Alpine Outdoor Living")
	return svc, sender, texter, logs
}

func TestPaymentRequestNotifiesOwner(t *testing.T) {
	payments := newMockPaymentStore()
	svc, sender, texter, logs := newTestPaymentService(payments, "secret")

	req, err := svc.Request(context.Background(), RequestParams{
		Amount: 450.00,
		Vendor: "Mulch Depot",
		Reason: "materials for the Hendersons",
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if req.Status != models.PaymentPending {
		t.Errorf("status = %q, want pending", req.Status)
	}
	if req.ApprovalToken == "" {
		t.Error("expected an approval token")
	}
	until := time.Until(req.ExpiresAt)
	if until < 47*time.Hour || until > 49*time.Hour {
		t.Errorf("expiry %v not close to 48h", until)
	}
	if sender.count() != 1 {
		t.Errorf("sent %d emails, want 1", sender.count())
	}
	if len(texter.sent) != 1 {
		t.Errorf("sent %d texts, want 1", len(texter.sent))
	}
	if got := logs.actions(); len(got) != 1 || got[0] != "payment_requested" {
		t.Errorf("audit actions = %v, want [payment_requested]", got)
	}

	// Approval links carry a signature when a secret is configured.
	if !strings.Contains(sender.sent[0].BodyHTML, "sig=") {
		t.Error("expected signed approval links in the email body")
	}
}

func TestPaymentRequestValidation(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, _ := newTestPaymentService(payments, "")

	cases := []RequestParams{
		{Amount: 0, Vendor: "v", Reason: "r"},
		{Amount: -5, Vendor: "v", Reason: "r"},
		{Amount: 10, Vendor: "", Reason: "r"},
		{Amount: 10, Vendor: "v", Reason: ""},
	}
	for _, p := range cases {
		if _, err := svc.Request(context.Background(), p); err == nil {
			t.Errorf("Request(%+v) succeeded, want validation error", p)
		}
	}
}

func TestPaymentResolveApprove(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, logs := newTestPaymentService(payments, "secret")

	req, err := svc.Request(context.Background(), RequestParams{Amount: 100, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	signer := approval.NewSigner("secret")
	sig := signer.Sign(req.ApprovalToken, approval.ActionApprove)

	outcome, resolved, err := svc.Resolve(context.Background(), req.ApprovalToken, approval.ActionApprove, sig)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if outcome != ResolutionApproved {
		t.Errorf("outcome = %q, want approved", outcome)
	}
	if resolved.Status != models.PaymentApproved {
		t.Errorf("status = %q, want approved", resolved.Status)
	}
	if resolved.ApprovedAt == nil {
		t.Error("ApprovedAt not set")
	}
	got := logs.actions()
	if len(got) != 2 || got[1] != "payment_approved" {
		t.Errorf("audit actions = %v, want [payment_requested payment_approved]", got)
	}
}

func TestPaymentResolveSecondClickIsNoop(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, logs := newTestPaymentService(payments, "")

	req, err := svc.Request(context.Background(), RequestParams{Amount: 100, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if _, _, err := svc.Resolve(context.Background(), req.ApprovalToken, approval.ActionDeny, ""); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	outcome, _, err := svc.Resolve(context.Background(), req.ApprovalToken, approval.ActionApprove, "")
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if outcome != ResolutionAlreadyProcessed {
		t.Errorf("outcome = %q, want already_processed", outcome)
	}
	if payments.payments[req.ID].Status != models.PaymentDenied {
		t.Errorf("status = %q, the first decision must stand", payments.payments[req.ID].Status)
	}
	// One entry for the request, one for the deny. The replay logs nothing.
	if got := logs.actions(); len(got) != 2 {
		t.Errorf("audit actions = %v, want exactly 2 entries", got)
	}
}

func TestPaymentResolveRejectsBadInput(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, _ := newTestPaymentService(payments, "secret")

	req, err := svc.Request(context.Background(), RequestParams{Amount: 100, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if _, _, err := svc.Resolve(context.Background(), req.ApprovalToken, "execute", ""); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("bad action: err = %v, want ErrInvalidAction", err)
	}
	if _, _, err := svc.Resolve(context.Background(), req.ApprovalToken, approval.ActionApprove, "deadbeef"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("bad signature: err = %v, want ErrBadSignature", err)
	}
	if payments.payments[req.ID].Status != models.PaymentPending {
		t.Error("request must stay pending after rejected attempts")
	}
}

func TestPaymentResolveAfterExpiry(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, logs := newTestPaymentService(payments, "")

	req, err := payments.CreatePaymentRequest(context.Background(), models.PaymentRequestCreateParams{
		Amount:        75,
		Vendor:        "v",
		Reason:        "r",
		RequestedBy:   "agent",
		ApprovalToken: "expiredtoken",
		ExpiresAt:     time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreatePaymentRequest failed: %v", err)
	}

	outcome, resolved, err := svc.Resolve(context.Background(), req.ApprovalToken, approval.ActionApprove, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if outcome != ResolutionExpired {
		t.Errorf("outcome = %q, want expired", outcome)
	}
	if resolved.Status != models.PaymentExpired {
		t.Errorf("status = %q, want expired", resolved.Status)
	}
	if got := logs.actions(); len(got) != 1 || got[0] != "payment_expired" {
		t.Errorf("audit actions = %v, want [payment_expired]", got)
	}
}

func TestPaymentResolveByID(t *testing.T) {
	payments := newMockPaymentStore()
	svc, _, _, _ := newTestPaymentService(payments, "")

	req, err := svc.Request(context.Background(), RequestParams{Amount: 100, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	outcome, resolved, err := svc.ResolveByID(context.Background(), req.PublicID, true)
	if err != nil {
		t.Fatalf("ResolveByID failed: %v", err)
	}
	if outcome != ResolutionApproved || resolved.Status != models.PaymentApproved {
		t.Errorf("outcome = %q status = %q, want approved", outcome, resolved.Status)
	}

	outcome, _, err = svc.ResolveByID(context.Background(), req.PublicID, false)
	if err != nil {
		t.Fatalf("second ResolveByID failed: %v", err)
	}
	if outcome != ResolutionAlreadyProcessed {
		t.Errorf("outcome = %q, want already_processed", outcome)
	}
}
