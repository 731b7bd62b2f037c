// Package audit writes the append-only agent activity log. Every mutating
// operation in the CRM records exactly one entry here.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// Metadata is the typed payload attached to a log entry. Each variant is
// keyed to the entity type it describes, so the stored JSON always has a
// known shape for a given entity_type.
type Metadata interface {
	EntityType() string
}

// PaymentMetadata annotates payment lifecycle entries.
type PaymentMetadata struct {
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	TokenUsed bool      `json:"tokenUsed,omitempty"`
}

func (PaymentMetadata) EntityType() string { return models.EntityPayment }

// LeadMetadata annotates lead entries.
type LeadMetadata struct {
	ContactID string            `json:"contactId,omitempty"`
	Source    string            `json:"source,omitempty"`
	Updates   map[string]string `json:"updates,omitempty"`
}

func (LeadMetadata) EntityType() string { return models.EntityLead }

// AppointmentMetadata annotates appointment entries.
type AppointmentMetadata struct {
	CalendarEventID string            `json:"calendarEventId,omitempty"`
	Updates         map[string]string `json:"updates,omitempty"`
}

func (AppointmentMetadata) EntityType() string { return models.EntityAppointment }

// JobMetadata annotates job entries.
type JobMetadata struct {
	Updates map[string]string `json:"updates,omitempty"`
}

func (JobMetadata) EntityType() string { return models.EntityJob }

// EmailMetadata annotates email queue entries.
type EmailMetadata struct {
	ToEmail string `json:"toEmail,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (EmailMetadata) EntityType() string { return models.EntityEmail }

// ContactMetadata annotates contact entries.
type ContactMetadata struct {
	Source string `json:"source,omitempty"`
}

func (ContactMetadata) EntityType() string { return models.EntityContact }

// GeneralMetadata carries free-form key/value pairs for entries the agent
// logs directly through the API.
type GeneralMetadata map[string]any

func (GeneralMetadata) EntityType() string { return models.EntityGeneral }

// Entry describes one log row to be written.
type Entry struct {
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Metadata    Metadata
	Status      string // defaults to success
}

// Writer records entries through an AgentLogStore.
type Writer struct {
	logs store.AgentLogStore
}

// NewWriter creates an audit Writer.
func NewWriter(logs store.AgentLogStore) *Writer {
	return &Writer{logs: logs}
}

// Write inserts one log row and returns its id. Typed metadata must agree
// with the entry's entity type; a mismatch is a programming error. Free-form
// GeneralMetadata is accepted on any entity type, since entries the agent
// logs directly carry whatever payload it chose to record.
func (w *Writer) Write(ctx context.Context, e Entry) (int64, error) {
	if e.Status == "" {
		e.Status = models.LogSuccess
	}
	if e.EntityType == "" {
		e.EntityType = models.EntityGeneral
	}

	raw := json.RawMessage("{}")
	if e.Metadata != nil {
		if got := e.Metadata.EntityType(); got != models.EntityGeneral && got != e.EntityType {
			return 0, fmt.Errorf("audit: metadata entity type %q does not match entry entity type %q", got, e.EntityType)
		}
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return 0, fmt.Errorf("audit: failed to marshal metadata: %w", err)
		}
		raw = b
	}

	entry, err := w.logs.CreateAgentLog(ctx, models.AgentLogEntry{
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    raw,
		Status:      e.Status,
	})
	if err != nil {
		return 0, fmt.Errorf("audit: failed to write log entry: %w", err)
	}
	return entry.ID, nil
}

// MustWrite is Write for best-effort call sites: failures are logged and
// swallowed so the primary mutation is never rolled back by its audit trail.
func (w *Writer) MustWrite(ctx context.Context, e Entry) {
	if _, err := w.Write(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to write audit entry", "action", e.Action, "error", err)
	}
}
