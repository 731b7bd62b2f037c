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

type PaymentRequestStore struct {
	db *sql.DB
}

func NewPaymentRequestStore(db *sql.DB) *PaymentRequestStore {
	return &PaymentRequestStore{db: db}
}

const paymentColumns = `id, public_id, amount, vendor, reason, status, requested_by,
	approved_at, executed_at, approval_token, expires_at, transaction_ref, notes, created_at, updated_at`

func scanPaymentRequest(row interface{ Scan(...any) error }) (*models.PaymentRequest, error) {
	p := &models.PaymentRequest{}
	err := row.Scan(&p.ID, &p.PublicID, &p.Amount, &p.Vendor, &p.Reason, &p.Status,
		&p.RequestedBy, &p.ApprovedAt, &p.ExecutedAt, &p.ApprovalToken, &p.ExpiresAt,
		&p.TransactionRef, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PaymentRequestStore) CreatePaymentRequest(ctx context.Context, params models.PaymentRequestCreateParams) (*models.PaymentRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO payment_requests
		   (public_id, amount, vendor, reason, notes, requested_by, approval_token, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+paymentColumns,
		uuid.New(), params.Amount, params.Vendor, params.Reason, params.Notes,
		params.RequestedBy, params.ApprovalToken, params.ExpiresAt, models.PaymentPending,
	)
	return scanPaymentRequest(row)
}

func (s *PaymentRequestStore) GetPaymentRequestByToken(ctx context.Context, token string) (*models.PaymentRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE approval_token = $1`, token)
	return scanPaymentRequest(row)
}

func (s *PaymentRequestStore) GetPaymentRequestByPublicID(ctx context.Context, publicID uuid.UUID) (*models.PaymentRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests WHERE public_id = $1`, publicID)
	return scanPaymentRequest(row)
}

func (s *PaymentRequestStore) ListPaymentRequests(ctx context.Context, status string, limit, offset int) ([]models.PaymentRequest, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payment_requests `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payment_requests `+where+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []models.PaymentRequest
	for rows.Next() {
		var p models.PaymentRequest
		if err := rows.Scan(&p.ID, &p.PublicID, &p.Amount, &p.Vendor, &p.Reason, &p.Status,
			&p.RequestedBy, &p.ApprovedAt, &p.ExecutedAt, &p.ApprovalToken, &p.ExpiresAt,
			&p.TransactionRef, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// ResolvePaymentRequest applies a terminal status in a single conditional
// UPDATE. The WHERE status = 'pending' guard closes the race between
// concurrent approve and deny clicks: exactly one wins, the loser gets
// ErrConflict. Resolution also collapses the token window by setting
// expires_at to now.
func (s *PaymentRequestStore) ResolvePaymentRequest(ctx context.Context, id int64, status string) (*models.PaymentRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE payment_requests
		 SET status      = $2,
		     approved_at = CASE WHEN $2 = $3 THEN NOW() ELSE approved_at END,
		     expires_at  = NOW(),
		     updated_at  = NOW()
		 WHERE id = $1 AND status = $4
		 RETURNING `+paymentColumns,
		id, status, models.PaymentApproved, models.PaymentPending,
	)
	payment, err := scanPaymentRequest(row)
	if errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrConflict
	}
	return payment, err
}

func (s *PaymentRequestStore) CountPendingPayments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payment_requests WHERE status = $1`,
		models.PaymentPending,
	).Scan(&count)
	return count, err
}
