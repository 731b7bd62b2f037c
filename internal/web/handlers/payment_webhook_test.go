package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/approval"
	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

func newTestWebhook(secret string) (*PaymentWebhookHandler, *crm.PaymentService, *mockPaymentStore) {
	payments := newMockPaymentStore()
	svc := crm.NewPaymentService(payments, approval.NewSigner(secret), discardSender{}, testTemplates(),
		discardTexter{}, testAuditor(), "owner@example.com", "", "http://localhost:8080", "Alpine Outdoor Living")
	return NewPaymentWebhookHandler(svc, testSite()), svc, payments
}

func getApprovalLink(h *PaymentWebhookHandler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/webhooks/payment-approval?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	h.HandleApprovalLink(rec, req)
	return rec
}

func TestApprovalLinkApproves(t *testing.T) {
	handler, svc, payments := newTestWebhook("secret")

	req, err := svc.Request(context.Background(), crm.RequestParams{Amount: 120, Vendor: "Mulch Depot", Reason: "materials"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	sig := approval.NewSigner("secret").Sign(req.ApprovalToken, approval.ActionApprove)

	rec := getApprovalLink(handler, url.Values{
		"token":  {req.ApprovalToken},
		"action": {approval.ActionApprove},
		"sig":    {sig},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want html", ct)
	}
	if payments.payments[req.ID].Status != models.PaymentApproved {
		t.Errorf("status = %q, want approved", payments.payments[req.ID].Status)
	}
}

func TestApprovalLinkReplayConflicts(t *testing.T) {
	handler, svc, _ := newTestWebhook("")

	req, err := svc.Request(context.Background(), crm.RequestParams{Amount: 120, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	params := url.Values{"token": {req.ApprovalToken}, "action": {approval.ActionDeny}}

	if rec := getApprovalLink(handler, params); rec.Code != http.StatusOK {
		t.Fatalf("first click: status = %d, want 200", rec.Code)
	}
	if rec := getApprovalLink(handler, params); rec.Code != http.StatusConflict {
		t.Errorf("replay: status = %d, want 409", rec.Code)
	}
}

func TestApprovalLinkErrorStatuses(t *testing.T) {
	handler, svc, _ := newTestWebhook("secret")

	req, err := svc.Request(context.Background(), crm.RequestParams{Amount: 120, Vendor: "v", Reason: "r"})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	goodSig := approval.NewSigner("secret").Sign(req.ApprovalToken, approval.ActionApprove)

	cases := []struct {
		name   string
		params url.Values
		want   int
	}{
		{"missing token", url.Values{"action": {approval.ActionApprove}}, http.StatusBadRequest},
		{"bad action", url.Values{"token": {req.ApprovalToken}, "action": {"execute"}, "sig": {goodSig}}, http.StatusBadRequest},
		{"bad signature", url.Values{"token": {req.ApprovalToken}, "action": {approval.ActionApprove}, "sig": {"deadbeef"}}, http.StatusUnauthorized},
		{"unknown token", url.Values{"token": {"nosuchtoken"}, "action": {approval.ActionApprove}, "sig": {approval.NewSigner("secret").Sign("nosuchtoken", approval.ActionApprove)}}, http.StatusNotFound},
	}
	for _, c := range cases {
		if rec := getApprovalLink(handler, c.params); rec.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.want)
		}
	}
}

func TestApprovalLinkExpired(t *testing.T) {
	handler, _, payments := newTestWebhook("")

	req, err := payments.CreatePaymentRequest(context.Background(), models.PaymentRequestCreateParams{
		Amount:        75,
		Vendor:        "v",
		Reason:        "r",
		ApprovalToken: "expiredtoken",
		ExpiresAt:     time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreatePaymentRequest failed: %v", err)
	}

	rec := getApprovalLink(handler, url.Values{"token": {req.ApprovalToken}, "action": {approval.ActionApprove}})
	if rec.Code != http.StatusGone {
		t.Errorf("status = %d, want 410", rec.Code)
	}
	if payments.payments[req.ID].Status != models.PaymentExpired {
		t.Errorf("status = %q, want expired", payments.payments[req.ID].Status)
	}
}
