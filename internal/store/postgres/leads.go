package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

type LeadStore struct {
	db *sql.DB
}

func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `l.id, l.public_id, l.contact_id, l.service_needed, l.preferred_date,
	l.message, l.status, l.source, l.agent_notes, l.owner_notes, l.assigned_to,
	l.created_at, l.updated_at`

func scanLead(row interface{ Scan(...any) error }) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(&l.ID, &l.PublicID, &l.ContactID, &l.ServiceNeeded, &l.PreferredDate,
		&l.Message, &l.Status, &l.Source, &l.AgentNotes, &l.OwnerNotes, &l.AssignedTo,
		&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LeadStore) CreateLead(ctx context.Context, params models.LeadCreateParams) (*models.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO leads (public_id, contact_id, service_needed, preferred_date, message, source, agent_notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, public_id, contact_id, service_needed, preferred_date,
		 message, status, source, agent_notes, owner_notes, assigned_to, created_at, updated_at`,
		uuid.New(), params.ContactID, params.ServiceNeeded, params.PreferredDate,
		params.Message, params.Source, params.AgentNotes, models.LeadNew,
	)
	return scanLead(row)
}

func (s *LeadStore) GetLeadByID(ctx context.Context, id int64) (*models.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads l WHERE l.id = $1`, id)
	return scanLead(row)
}

func (s *LeadStore) GetLeadByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads l WHERE l.public_id = $1`, publicID)
	return scanLead(row)
}

func (s *LeadStore) UpdateLead(ctx context.Context, id int64, params models.LeadUpdateParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE leads
		 SET status      = CASE WHEN $2 <> '' THEN $2 ELSE status END,
		     agent_notes = CASE WHEN $3 <> '' THEN $3 ELSE agent_notes END,
		     owner_notes = CASE WHEN $4 <> '' THEN $4 ELSE owner_notes END,
		     assigned_to = CASE WHEN $5 <> '' THEN $5 ELSE assigned_to END,
		     updated_at  = NOW()
		 WHERE id = $1`,
		id, params.Status, params.AgentNotes, params.OwnerNotes, params.AssignedTo,
	)
	return err
}

func (s *LeadStore) ListLeads(ctx context.Context, q models.LeadQuery) ([]models.Lead, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(` AND l.status = $%d`, len(args))
	}
	if q.ContactID != 0 {
		args = append(args, q.ContactID)
		where += fmt.Sprintf(` AND l.contact_id = $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads l `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leadColumns+`,
		        COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''), COALESCE(c.phone, ''), COALESCE(c.email, '')
		 FROM leads l
		 LEFT JOIN contacts c ON c.id = l.contact_id `+where+
			fmt.Sprintf(` ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.PublicID, &l.ContactID, &l.ServiceNeeded, &l.PreferredDate,
			&l.Message, &l.Status, &l.Source, &l.AgentNotes, &l.OwnerNotes, &l.AssignedTo,
			&l.CreatedAt, &l.UpdatedAt,
			&l.ContactName, &l.ContactPhone, &l.ContactEmail); err != nil {
			return nil, 0, err
		}
		leads = append(leads, l)
	}
	return leads, total, rows.Err()
}

func (s *LeadStore) CountLeadsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE status = $1`, status,
	).Scan(&count)
	return count, err
}
