package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type queueEmailRequest struct {
	ToEmail  string `json:"toEmail"`
	ToName   string `json:"toName"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
	BodyText string `json:"bodyText"`
	Type     string `json:"type"`
}

// HandleListQueuedEmails serves GET /api/agent/emails.
func (h *AgentHandler) HandleListQueuedEmails(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	emails, total, err := h.emails.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]queuedEmailJSON, 0, len(emails))
	for i := range emails {
		items = append(items, toQueuedEmailJSON(&emails[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleQueueEmail serves POST /api/agent/emails. The email is held for
// owner approval, never sent directly.
func (h *AgentHandler) HandleQueueEmail(w http.ResponseWriter, r *http.Request) {
	var req queueEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	queued, err := h.emails.Queue(r.Context(), models.QueuedEmailCreateParams{
		ToEmail:  req.ToEmail,
		ToName:   req.ToName,
		Subject:  req.Subject,
		BodyHTML: req.BodyHTML,
		BodyText: req.BodyText,
		Type:     req.Type,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toQueuedEmailJSON(queued))
}
