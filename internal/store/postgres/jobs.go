package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

type JobStore struct {
	db *sql.DB
}

func NewJobStore(db *sql.DB) *JobStore {
	return &JobStore{db: db}
}

func scanJob(row interface{ Scan(...any) error }) (*models.Job, error) {
	j := &models.Job{}
	var photos pq.StringArray
	err := row.Scan(&j.ID, &j.PublicID, &j.ContactID, &j.AppointmentID, &j.Title,
		&j.Status, &j.Service, &j.AssignedTo, &j.ScheduledDate, &j.CompletedDate,
		&j.InvoiceAmount, &j.PaidAmount, &j.Notes, &photos, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	j.Photos = photos
	return j, nil
}

func (s *JobStore) CreateJob(ctx context.Context, params models.JobCreateParams) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO jobs
		   (public_id, contact_id, appointment_id, title, service, assigned_to, scheduled_date, invoice_amount, notes, status)
		 VALUES ($1, NULLIF($2, 0), NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, public_id, COALESCE(contact_id, 0), COALESCE(appointment_id, 0), title,
		           status, service, assigned_to, scheduled_date, completed_date,
		           invoice_amount, paid_amount, notes, photos, created_at, updated_at`,
		uuid.New(), params.ContactID, params.AppointmentID, params.Title, params.Service,
		params.AssignedTo, params.ScheduledDate, params.InvoiceAmount, params.Notes, models.JobPending,
	)
	return scanJob(row)
}

func (s *JobStore) GetJobByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, public_id, COALESCE(contact_id, 0), COALESCE(appointment_id, 0), title,
		        status, service, assigned_to, scheduled_date, completed_date,
		        invoice_amount, paid_amount, notes, photos, created_at, updated_at
		 FROM jobs WHERE public_id = $1`, publicID)
	return scanJob(row)
}

func (s *JobStore) UpdateJob(ctx context.Context, id int64, params models.JobUpdateParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs
		 SET status         = CASE WHEN $2 <> '' THEN $2 ELSE status END,
		     assigned_to    = CASE WHEN $3 <> '' THEN $3 ELSE assigned_to END,
		     scheduled_date = CASE WHEN $4 <> '' THEN $4 ELSE scheduled_date END,
		     completed_date = CASE WHEN $5 <> '' THEN $5 ELSE completed_date END,
		     invoice_amount = COALESCE($6, invoice_amount),
		     paid_amount    = COALESCE($7, paid_amount),
		     notes          = CASE WHEN $8 <> '' THEN $8 ELSE notes END,
		     photos         = CASE WHEN $9 <> '' THEN array_append(photos, $9) ELSE photos END,
		     updated_at     = NOW()
		 WHERE id = $1`,
		id, params.Status, params.AssignedTo, params.ScheduledDate, params.CompletedDate,
		params.InvoiceAmount, params.PaidAmount, params.Notes, params.AddPhoto,
	)
	return err
}

func (s *JobStore) ListJobs(ctx context.Context, q models.JobQuery) ([]models.Job, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(` AND j.status = $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs j `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.public_id, COALESCE(j.contact_id, 0), COALESCE(j.appointment_id, 0), j.title,
		        j.status, j.service, j.assigned_to, j.scheduled_date, j.completed_date,
		        j.invoice_amount, j.paid_amount, j.notes, j.photos, j.created_at, j.updated_at,
		        COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''), COALESCE(c.phone, ''), COALESCE(c.email, '')
		 FROM jobs j
		 LEFT JOIN contacts c ON c.id = j.contact_id `+where+
			fmt.Sprintf(` ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		var photos pq.StringArray
		if err := rows.Scan(&j.ID, &j.PublicID, &j.ContactID, &j.AppointmentID, &j.Title,
			&j.Status, &j.Service, &j.AssignedTo, &j.ScheduledDate, &j.CompletedDate,
			&j.InvoiceAmount, &j.PaidAmount, &j.Notes, &photos, &j.CreatedAt, &j.UpdatedAt,
			&j.ContactName, &j.ContactPhone, &j.ContactEmail); err != nil {
			return nil, 0, err
		}
		j.Photos = photos
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (s *JobStore) CountOpenJobs(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status IN ($1, $2)`,
		models.JobPending, models.JobInProgress,
	).Scan(&count)
	return count, err
}
