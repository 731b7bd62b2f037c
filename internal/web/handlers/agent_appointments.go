package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type appointmentCreateRequest struct {
	ContactID  string     `json:"contactId"`
	LeadID     string     `json:"leadId"`
	Title      string     `json:"title"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	Address    string     `json:"address"`
	Service    string     `json:"service"`
	AssignedTo string     `json:"assignedTo"`
	Notes      string     `json:"notes"`
}

type appointmentUpdateRequest struct {
	Title      string     `json:"title"`
	StartTime  *time.Time `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	Address    string     `json:"address"`
	Service    string     `json:"service"`
	AssignedTo string     `json:"assignedTo"`
	Status     string     `json:"status"`
	Notes      string     `json:"notes"`
}

// HandleListAppointments serves GET /api/agent/appointments.
func (h *AgentHandler) HandleListAppointments(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	appts, total, err := h.appointments.List(r.Context(), models.AppointmentQuery{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]appointmentJSON, 0, len(appts))
	for i := range appts {
		items = append(items, toAppointmentJSON(&appts[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleCreateAppointment serves POST /api/agent/appointments.
func (h *AgentHandler) HandleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "contactId must be a valid UUID")
		return
	}
	leadID := uuid.Nil
	if req.LeadID != "" {
		if leadID, err = uuid.Parse(req.LeadID); err != nil {
			writeError(w, http.StatusBadRequest, "leadId must be a valid UUID")
			return
		}
	}

	appt, err := h.appointments.Schedule(r.Context(), crm.ScheduleParams{
		ContactPublicID: contactID,
		LeadPublicID:    leadID,
		Title:           req.Title,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Address:         req.Address,
		Service:         req.Service,
		AssignedTo:      req.AssignedTo,
		Notes:           req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAppointmentJSON(appt))
}

// HandleUpdateAppointment serves PATCH /api/agent/appointments/{id}.
func (h *AgentHandler) HandleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	var req appointmentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	appt, err := h.appointments.Update(r.Context(), publicID, models.AppointmentUpdateParams{
		Title:      req.Title,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Address:    req.Address,
		Service:    req.Service,
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
		Notes:      req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentJSON(appt))
}
