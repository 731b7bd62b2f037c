package handlers

import (
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
)

// PublicAPIHandler serves the unauthenticated endpoints behind the public
// website.
type PublicAPIHandler struct {
	leads *crm.LeadService
}

// NewPublicAPIHandler creates a PublicAPIHandler.
func NewPublicAPIHandler(leads *crm.LeadService) *PublicAPIHandler {
	return &PublicAPIHandler{leads: leads}
}

// HandleContactForm accepts a contact-form submission from the website.
//
// Expected form fields:
//
//	first_name  (required)
//	last_name   (optional)
//	email       (required unless phone given)
//	phone       (required unless email given)
//	service     (optional)
//	preferred_date (optional)
//	message     (optional)
//	_gotcha     (honeypot -- if filled in, silently accept)
func (h *PublicAPIHandler) HandleContactForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	// Honeypot: if the hidden field is filled, silently accept.
	if r.FormValue("_gotcha") != "" {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}

	lead, err := h.leads.SubmitInquiry(r.Context(), crm.InquiryParams{
		FirstName:     r.FormValue("first_name"),
		LastName:      r.FormValue("last_name"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		ServiceNeeded: r.FormValue("service"),
		PreferredDate: r.FormValue("preferred_date"),
		Message:       r.FormValue("message"),
		Source:        "website",
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"leadId":  lead.PublicID.String(),
	})
}
