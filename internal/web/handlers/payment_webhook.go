package handlers

import (
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/config"
	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// PaymentWebhookHandler serves the approve and deny links the owner
// receives by email. Responses are self-contained HTML pages so they read
// cleanly in a phone browser.
type PaymentWebhookHandler struct {
	payments *crm.PaymentService
	site     config.Site
}

// NewPaymentWebhookHandler creates a PaymentWebhookHandler.
func NewPaymentWebhookHandler(payments *crm.PaymentService, site config.Site) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{payments: payments, site: site}
}

// HandleApprovalLink serves GET /api/webhooks/payment-approval.
func (h *PaymentWebhookHandler) HandleApprovalLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	action := q.Get("action")
	signature := q.Get("sig")

	if token == "" {
		h.page(w, http.StatusBadRequest, "Missing Token", "This approval link is incomplete. Use the link from your email.")
		return
	}

	resolution, req, err := h.payments.Resolve(r.Context(), token, action, signature)
	switch {
	case errors.Is(err, crm.ErrInvalidAction):
		h.page(w, http.StatusBadRequest, "Invalid Action", "This approval link is malformed. Use the link from your email.")
		return
	case errors.Is(err, crm.ErrBadSignature):
		h.page(w, http.StatusUnauthorized, "Invalid Signature", "This approval link failed verification and was ignored.")
		return
	case errors.Is(err, store.ErrNotFound):
		h.page(w, http.StatusNotFound, "Not Found", "No payment request matches this link.")
		return
	case err != nil:
		h.page(w, http.StatusInternalServerError, "Something Went Wrong", "The request could not be processed. Try again in a moment.")
		return
	}

	amount := fmt.Sprintf("$%.2f to %s", req.Amount, req.Vendor)
	switch resolution {
	case crm.ResolutionApproved:
		h.page(w, http.StatusOK, "Payment Approved",
			fmt.Sprintf("The payment of %s has been approved. It will be executed shortly.", amount))
	case crm.ResolutionDenied:
		h.page(w, http.StatusOK, "Payment Denied",
			fmt.Sprintf("The payment of %s has been denied. Nothing will be charged.", amount))
	case crm.ResolutionExpired:
		h.page(w, http.StatusGone, "Link Expired",
			fmt.Sprintf("This approval link for %s expired before it was used. Ask for a new request if the payment is still needed.", amount))
	case crm.ResolutionAlreadyProcessed:
		h.page(w, http.StatusConflict, "Already Processed",
			fmt.Sprintf("This payment request was already %s. No further action was taken.", html.EscapeString(statusLabel(req.Status))))
	}
}

func statusLabel(status string) string {
	switch status {
	case models.PaymentApproved:
		return "approved"
	case models.PaymentDenied:
		return "denied"
	case models.PaymentExecuted:
		return "approved and executed"
	case models.PaymentExpired:
		return "marked expired"
	}
	return "processed"
}

func (h *PaymentWebhookHandler) page(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
</head>
<body style="margin:0;font-family:Arial,Helvetica,sans-serif;background:#f4f4f0;">
  <div style="max-width:480px;margin:80px auto;background:#fff;border-radius:12px;padding:32px;text-align:center;box-shadow:0 2px 8px rgba(0,0,0,.08);">
    <h1 style="color:%s;font-size:22px;margin:0 0 16px;">%s</h1>
    <p style="color:#444;line-height:1.5;">%s</p>
    <p style="color:#999;font-size:12px;margin-top:24px;">%s</p>
  </div>
</body>
</html>`,
		html.EscapeString(title),
		h.site.BrandPrimary,
		html.EscapeString(title),
		body,
		html.EscapeString(h.site.BusinessName),
	)
}
