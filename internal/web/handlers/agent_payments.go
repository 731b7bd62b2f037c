package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/crm"
)

type paymentRequestBody struct {
	Amount      float64 `json:"amount"`
	Vendor      string  `json:"vendor"`
	Reason      string  `json:"reason"`
	Notes       string  `json:"notes"`
	RequestedBy string  `json:"requestedBy"`
}

// HandleListPaymentRequests serves GET /api/agent/payments.
func (h *AgentHandler) HandleListPaymentRequests(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	payments, total, err := h.payments.List(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]paymentRequestJSON, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentRequestJSON(&payments[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleCreatePaymentRequest serves POST /api/agent/payments. The owner
// decides by email link or from the dashboard; the agent only asks.
func (h *AgentHandler) HandleCreatePaymentRequest(w http.ResponseWriter, r *http.Request) {
	var req paymentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payment, err := h.payments.Request(r.Context(), crm.RequestParams{
		Amount:      req.Amount,
		Vendor:      req.Vendor,
		Reason:      req.Reason,
		Notes:       req.Notes,
		RequestedBy: req.RequestedBy,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentRequestJSON(payment))
}

// HandleGetPaymentRequest serves GET /api/agent/payments/{id} so the agent
// can poll for the owner's decision.
func (h *AgentHandler) HandleGetPaymentRequest(w http.ResponseWriter, r *http.Request) {
	publicID, err := urlParamUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return
	}

	payment, err := h.payments.Get(r.Context(), publicID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentRequestJSON(payment))
}
