package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type leadCreateRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ServiceNeeded string `json:"serviceNeeded"`
	PreferredDate string `json:"preferredDate"`
	Message       string `json:"message"`
	Source        string `json:"source"`
	AgentNotes    string `json:"agentNotes"`
}

type leadUpdateRequest struct {
	Status     string `json:"status"`
	AgentNotes string `json:"agentNotes"`
	OwnerNotes string `json:"ownerNotes"`
	AssignedTo string `json:"assignedTo"`
}

// HandleListLeads serves GET /api/agent/leads.
func (h *AgentHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	leads, total, err := h.leads.List(r.Context(), models.LeadQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]leadJSON, 0, len(leads))
	for i := range leads {
		items = append(items, toLeadJSON(&leads[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleGetLead serves GET /api/agent/leads/{id}.
func (h *AgentHandler) HandleGetLead(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	lead, err := h.leads.Get(r.Context(), publicID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadJSON(lead))
}

// HandleCreateLead serves POST /api/agent/leads. The contact is
// deduplicated by email then phone, same as the public contact form.
func (h *AgentHandler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req leadCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	source := req.Source
	if source == "" {
		source = "agent"
	}

	lead, err := h.leads.SubmitInquiry(r.Context(), crm.InquiryParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		ServiceNeeded: req.ServiceNeeded,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
		Source:        source,
		AgentNotes:    req.AgentNotes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeadJSON(lead))
}

// HandleUpdateLead serves PATCH /api/agent/leads/{id}.
func (h *AgentHandler) HandleUpdateLead(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	var req leadUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lead, err := h.leads.Update(r.Context(), publicID, models.LeadUpdateParams{
		Status:     req.Status,
		AgentNotes: req.AgentNotes,
		OwnerNotes: req.OwnerNotes,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeadJSON(lead))
}
