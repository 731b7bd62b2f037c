package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type AgentLogStore struct {
	db *sql.DB
}

func NewAgentLogStore(db *sql.DB) *AgentLogStore {
	return &AgentLogStore{db: db}
}

// CreateAgentLog appends one row. The table is append-only: nothing in the
// application updates or deletes agent_logs.
func (s *AgentLogStore) CreateAgentLog(ctx context.Context, entry models.AgentLogEntry) (*models.AgentLogEntry, error) {
	e := entry
	e.PublicID = uuid.New()
	metadata := e.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO agent_logs (public_id, action, entity_type, entity_id, description, metadata, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.PublicID, e.Action, e.EntityType, e.EntityID, e.Description, []byte(metadata), e.Status,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *AgentLogStore) ListAgentLogs(ctx context.Context, limit, offset int) ([]models.AgentLogEntry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agent_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, public_id, action, entity_type, entity_id, description, metadata, status, created_at
		 FROM agent_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []models.AgentLogEntry
	for rows.Next() {
		var e models.AgentLogEntry
		var metadata []byte
		if err := rows.Scan(&e.ID, &e.PublicID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Description, &metadata, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Metadata = metadata
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
