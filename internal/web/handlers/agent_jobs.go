package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type jobCreateRequest struct {
	ContactID     string   `json:"contactId"`
	Title         string   `json:"title"`
	Service       string   `json:"service"`
	AssignedTo    string   `json:"assignedTo"`
	ScheduledDate string   `json:"scheduledDate"`
	InvoiceAmount *float64 `json:"invoiceAmount"`
	Notes         string   `json:"notes"`
}

type jobUpdateRequest struct {
	Status        string   `json:"status"`
	AssignedTo    string   `json:"assignedTo"`
	ScheduledDate string   `json:"scheduledDate"`
	CompletedDate string   `json:"completedDate"`
	InvoiceAmount *float64 `json:"invoiceAmount"`
	PaidAmount    *float64 `json:"paidAmount"`
	Notes         string   `json:"notes"`
	AddPhoto      string   `json:"addPhoto"`
}

// HandleListJobs serves GET /api/agent/jobs.
func (h *AgentHandler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	jobs, total, err := h.jobs.List(r.Context(), models.JobQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]jobJSON, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobJSON(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleCreateJob serves POST /api/agent/jobs.
func (h *AgentHandler) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "contactId must be a valid UUID")
		return
	}

	job, err := h.jobs.Create(r.Context(), crm.JobParams{
		ContactPublicID: contactID,
		Title:           req.Title,
		Service:         req.Service,
		AssignedTo:      req.AssignedTo,
		ScheduledDate:   req.ScheduledDate,
		InvoiceAmount:   req.InvoiceAmount,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobJSON(job))
}

// HandleUpdateJob serves PATCH /api/agent/jobs/{id}.
func (h *AgentHandler) HandleUpdateJob(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	var req jobUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	job, err := h.jobs.Update(r.Context(), publicID, models.JobUpdateParams{
		Status:        req.Status,
		AssignedTo:    req.AssignedTo,
		ScheduledDate: req.ScheduledDate,
		CompletedDate: req.CompletedDate,
		InvoiceAmount: req.InvoiceAmount,
		PaidAmount:    req.PaidAmount,
		Notes:         req.Notes,
		AddPhoto:      req.AddPhoto,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobJSON(job))
}
