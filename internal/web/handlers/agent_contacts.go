package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type contactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Source    string `json:"source"`
	Notes     string `json:"notes"`
}

// HandleListContacts serves GET /api/agent/contacts.
func (h *AgentHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	q := models.ContactQuery{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	contacts, total, err := h.contacts.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]contactJSON, 0, len(contacts))
	for i := range contacts {
		items = append(items, toContactJSON(&contacts[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset})
}

// HandleGetContact serves GET /api/agent/contacts/{id}.
func (h *AgentHandler) HandleGetContact(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	contact, err := h.contacts.Get(r.Context(), publicID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactJSON(contact))
}

// HandleCreateContact serves POST /api/agent/contacts.
func (h *AgentHandler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	contact, err := h.contacts.Create(r.Context(), models.ContactCreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Source:    req.Source,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toContactJSON(contact))
}

// HandleUpdateContact serves PATCH /api/agent/contacts/{id}.
func (h *AgentHandler) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	contact, err := h.contacts.Update(r.Context(), publicID, models.ContactCreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Source:    req.Source,
		Notes:     req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactJSON(contact))
}
