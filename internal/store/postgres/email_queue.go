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

type EmailQueueStore struct {
	db *sql.DB
}

func NewEmailQueueStore(db *sql.DB) *EmailQueueStore {
	return &EmailQueueStore{db: db}
}

const emailColumns = `id, public_id, to_email, to_name, subject, body_html, body_text,
	status, type, COALESCE(contact_id, 0), approved_at, sent_at, error_message, created_at, updated_at`

func scanQueuedEmail(row interface{ Scan(...any) error }) (*models.QueuedEmail, error) {
	e := &models.QueuedEmail{}
	err := row.Scan(&e.ID, &e.PublicID, &e.ToEmail, &e.ToName, &e.Subject, &e.BodyHTML,
		&e.BodyText, &e.Status, &e.Type, &e.ContactID, &e.ApprovedAt, &e.SentAt,
		&e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmailQueueStore) CreateQueuedEmail(ctx context.Context, params models.QueuedEmailCreateParams) (*models.QueuedEmail, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO email_queue (public_id, to_email, to_name, subject, body_html, body_text, type, contact_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, 0), $9)
		 RETURNING `+emailColumns,
		uuid.New(), params.ToEmail, params.ToName, params.Subject, params.BodyHTML,
		params.BodyText, params.Type, params.ContactID, models.EmailPendingApproval,
	)
	return scanQueuedEmail(row)
}

func (s *EmailQueueStore) GetQueuedEmailByPublicID(ctx context.Context, publicID uuid.UUID) (*models.QueuedEmail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+emailColumns+` FROM email_queue WHERE public_id = $1`, publicID)
	return scanQueuedEmail(row)
}

func (s *EmailQueueStore) ListQueuedEmails(ctx context.Context, status string, limit, offset int) ([]models.QueuedEmail, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_queue `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+emailColumns+` FROM email_queue `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var emails []models.QueuedEmail
	for rows.Next() {
		var e models.QueuedEmail
		if err := rows.Scan(&e.ID, &e.PublicID, &e.ToEmail, &e.ToName, &e.Subject, &e.BodyHTML,
			&e.BodyText, &e.Status, &e.Type, &e.ContactID, &e.ApprovedAt, &e.SentAt,
			&e.ErrorMessage, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		emails = append(emails, e)
	}
	return emails, total, rows.Err()
}

// ApproveQueuedEmail is a conditional transition: only pending_approval and
// failed emails can move to approved. The guard runs inside the UPDATE so
// concurrent approvals apply exactly once.
func (s *EmailQueueStore) ApproveQueuedEmail(ctx context.Context, id int64) (*models.QueuedEmail, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE email_queue
		 SET status = $2, approved_at = NOW(), error_message = '', updated_at = NOW()
		 WHERE id = $1 AND status IN ($3, $4)
		 RETURNING `+emailColumns,
		id, models.EmailApproved, models.EmailPendingApproval, models.EmailFailed,
	)
	email, err := scanQueuedEmail(row)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrConflict
	}
	return email, err
}

func (s *EmailQueueStore) MarkQueuedEmailSent(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE email_queue SET status = $2, sent_at = NOW(), updated_at = NOW() WHERE id = $1`,
		id, models.EmailSent,
	)
	return err
}

func (s *EmailQueueStore) MarkQueuedEmailFailed(ctx context.Context, id int64, errorMessage string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE email_queue SET status = $2, error_message = $3, updated_at = NOW() WHERE id = $1`,
		id, models.EmailFailed, errorMessage,
	)
	return err
}

func (s *EmailQueueStore) CancelQueuedEmail(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE email_queue SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = $3`,
		id, models.EmailCancelled, models.EmailPendingApproval,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *EmailQueueStore) CountPendingEmails(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM email_queue WHERE status = $1`,
		models.EmailPendingApproval,
	).Scan(&count)
	return count, err
}
