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

type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, public_id, first_name, last_name, phone, email, source, notes, status, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(&c.ID, &c.PublicID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
		&c.Source, &c.Notes, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactStore) CreateContact(ctx context.Context, params models.ContactCreateParams) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO contacts (public_id, first_name, last_name, phone, email, source, notes, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+contactColumns,
		uuid.New(), params.FirstName, params.LastName, params.Phone, params.Email,
		params.Source, params.Notes, models.ContactActive,
	)
	return scanContact(row)
}

func (s *ContactStore) UpdateContact(ctx context.Context, id int64, params models.ContactCreateParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = CASE WHEN $2 <> '' THEN $2 ELSE first_name END,
		     last_name  = CASE WHEN $3 <> '' THEN $3 ELSE last_name END,
		     phone      = CASE WHEN $4 <> '' THEN $4 ELSE phone END,
		     email      = CASE WHEN $5 <> '' THEN $5 ELSE email END,
		     source     = CASE WHEN $6 <> '' THEN $6 ELSE source END,
		     notes      = CASE WHEN $7 <> '' THEN $7 ELSE notes END,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, params.FirstName, params.LastName, params.Phone, params.Email, params.Source, params.Notes,
	)
	return err
}

func (s *ContactStore) GetContactByID(ctx context.Context, id int64) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	return scanContact(row)
}

func (s *ContactStore) GetContactByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE public_id = $1`, publicID)
	return scanContact(row)
}

func (s *ContactStore) FindContactByEmail(ctx context.Context, email string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE email = $1 ORDER BY created_at LIMIT 1`, email)
	return scanContact(row)
}

func (s *ContactStore) FindContactByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE phone = $1 ORDER BY created_at LIMIT 1`, phone)
	return scanContact(row)
}

func (s *ContactStore) ListContacts(ctx context.Context, q models.ContactQuery) ([]models.Contact, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)`, n, n, n, n)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.PublicID, &c.FirstName, &c.LastName, &c.Phone, &c.Email,
			&c.Source, &c.Notes, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, c)
	}
	return contacts, total, rows.Err()
}
