package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type recordingLogStore struct {
	entries []models.AgentLogEntry
}

func (r *recordingLogStore) CreateAgentLog(_ context.Context, entry models.AgentLogEntry) (*models.AgentLogEntry, error) {
	entry.ID = int64(len(r.entries) + 1)
	entry.PublicID = uuid.New()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, entry)
	return &entry, nil
}

func (r *recordingLogStore) ListAgentLogs(_ context.Context, _, _ int) ([]models.AgentLogEntry, int, error) {
	return r.entries, len(r.entries), nil
}

func TestWriteDefaults(t *testing.T) {
	logs := &recordingLogStore{}
	w := NewWriter(logs)

	id, err := w.Write(context.Background(), Entry{Action: "noted"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got := logs.entries[0]
	assert.Equal(t, models.LogSuccess, got.Status)
	assert.Equal(t, models.EntityGeneral, got.EntityType)
	assert.Equal(t, json.RawMessage("{}"), got.Metadata)
}

func TestWriteMarshalsTypedMetadata(t *testing.T) {
	logs := &recordingLogStore{}
	w := NewWriter(logs)

	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := w.Write(context.Background(), Entry{
		Action:     "payment_expired",
		EntityType: models.EntityPayment,
		Metadata:   PaymentMetadata{ExpiresAt: expires, TokenUsed: true},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(logs.entries[0].Metadata, &decoded))
	assert.Equal(t, true, decoded["tokenUsed"])
	assert.Contains(t, decoded, "expiresAt")
}

func TestWriteAllowsGeneralMetadataOnAnyEntity(t *testing.T) {
	logs := &recordingLogStore{}
	w := NewWriter(logs)

	_, err := w.Write(context.Background(), Entry{
		Action:     "follow_up_sent",
		EntityType: models.EntityLead,
		Metadata:   GeneralMetadata{"channel": "sms"},
	})
	require.NoError(t, err)

	got := logs.entries[0]
	assert.Equal(t, models.EntityLead, got.EntityType)
	assert.JSONEq(t, `{"channel":"sms"}`, string(got.Metadata))
}

func TestWriteRejectsMismatchedMetadata(t *testing.T) {
	logs := &recordingLogStore{}
	w := NewWriter(logs)

	_, err := w.Write(context.Background(), Entry{
		Action:     "lead_created",
		EntityType: models.EntityLead,
		Metadata:   PaymentMetadata{TokenUsed: true},
	})
	require.Error(t, err)
	assert.Empty(t, logs.entries, "mismatched entries must not be written")
}
