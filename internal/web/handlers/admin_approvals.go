package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// ShowEmailQueue renders the outbound email approval queue.
func (h *AdminHandler) ShowEmailQueue(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	status := r.URL.Query().Get("status")
	emails, total, err := h.emails.List(r.Context(), status, 100, 0)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load email queue", "error", err)
	}
	data["Emails"] = emails
	data["Total"] = total
	data["Status"] = status

	h.render.Render(w, r, "emails.html", data)
}

// HandleApproveEmail approves a queued email and sends it immediately.
func (h *AdminHandler) HandleApproveEmail(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	_, err = h.emails.Approve(r.Context(), publicID)
	switch {
	case err == nil:
		setFlashSuccess(w, "Email approved and sent.", h.secureCookies)
	case errors.Is(err, store.ErrConflict):
		setFlashError(w, "That email was already handled.", h.secureCookies)
	default:
		setFlashError(w, err.Error(), h.secureCookies)
	}
	http.Redirect(w, r, "/admin/emails", http.StatusSeeOther)
}

// HandleCancelEmail drops a pending email from the queue.
func (h *AdminHandler) HandleCancelEmail(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	err = h.emails.Cancel(r.Context(), publicID)
	switch {
	case err == nil:
		setFlashSuccess(w, "Email cancelled.", h.secureCookies)
	case errors.Is(err, store.ErrConflict):
		setFlashError(w, "That email was already handled.", h.secureCookies)
	default:
		setFlashError(w, err.Error(), h.secureCookies)
	}
	http.Redirect(w, r, "/admin/emails", http.StatusSeeOther)
}

// ShowPayments renders the payment approval queue.
func (h *AdminHandler) ShowPayments(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r)

	status := r.URL.Query().Get("status")
	payments, total, err := h.payments.List(r.Context(), status, 100, 0)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load payments", "error", err)
	}
	data["Payments"] = payments
	data["Total"] = total
	data["Status"] = status

	h.render.Render(w, r, "payments.html", data)
}

// HandleResolvePayment approves or denies a pending payment from the
// dashboard.
func (h *AdminHandler) HandleResolvePayment(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlashError(w, "Invalid form data.", h.secureCookies)
		http.Redirect(w, r, "/admin/payments", http.StatusSeeOther)
		return
	}

	approve := r.FormValue("decision") == "approve"
	resolution, _, err := h.payments.ResolveByID(r.Context(), publicID, approve)
	switch {
	case err != nil:
		setFlashError(w, err.Error(), h.secureCookies)
	case resolution == crm.ResolutionAlreadyProcessed:
		setFlashError(w, "That payment was already handled.", h.secureCookies)
	case approve:
		setFlashSuccess(w, "Payment approved.", h.secureCookies)
	default:
		setFlashSuccess(w, "Payment denied.", h.secureCookies)
	}
	http.Redirect(w, r, "/admin/payments", http.StatusSeeOther)
}
