package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type logEntryRequest struct {
	Action      string         `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
	Status      string         `json:"status"`
}

// HandleListAgentLog serves GET /api/agent/log.
func (h *AgentHandler) HandleListAgentLog(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := h.logs.ListAgentLogs(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]agentLogJSON, 0, len(entries))
	for i := range entries {
		items = append(items, toAgentLogJSON(&entries[i]))
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

// HandleWriteAgentLog serves POST /api/agent/log. The entry is recorded
// against the entity type the agent names, with free-form metadata.
func (h *AgentHandler) HandleWriteAgentLog(w http.ResponseWriter, r *http.Request) {
	var req logEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Action = strings.TrimSpace(req.Action)
	req.Description = strings.TrimSpace(req.Description)
	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action: is required")
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description: is required")
		return
	}
	if req.EntityType != "" && !models.ValidLogEntity(req.EntityType) {
		writeError(w, http.StatusBadRequest, "entityType: unknown entity type")
		return
	}
	if req.Status != "" && req.Status != models.LogSuccess &&
		req.Status != models.LogError && req.Status != models.LogPending {
		writeError(w, http.StatusBadRequest, "status: must be success, error or pending")
		return
	}

	var meta audit.Metadata
	if len(req.Metadata) > 0 {
		meta = audit.GeneralMetadata(req.Metadata)
	}
	if _, err := h.audit.Write(r.Context(), audit.Entry{
		Action:      req.Action,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Description: req.Description,
		Metadata:    meta,
		Status:      req.Status,
	}); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
