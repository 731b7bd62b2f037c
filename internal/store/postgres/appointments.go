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

type AppointmentStore struct {
	db *sql.DB
}

func NewAppointmentStore(db *sql.DB) *AppointmentStore {
	return &AppointmentStore{db: db}
}

func scanAppointment(row interface{ Scan(...any) error }) (*models.Appointment, error) {
	a := &models.Appointment{}
	err := row.Scan(&a.ID, &a.PublicID, &a.ContactID, &a.LeadID, &a.Title,
		&a.StartTime, &a.EndTime, &a.Address, &a.Service, &a.AssignedTo,
		&a.Status, &a.CalendarEventID, &a.Notes, &a.ReminderSent,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AppointmentStore) CreateAppointment(ctx context.Context, params models.AppointmentCreateParams) (*models.Appointment, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO appointments
		   (public_id, contact_id, lead_id, title, start_time, end_time, address, service, assigned_to, notes, status, calendar_event_id)
		 VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, public_id, contact_id, COALESCE(lead_id, 0), title, start_time, end_time,
		           address, service, assigned_to, status, calendar_event_id, notes, reminder_sent,
		           created_at, updated_at`,
		uuid.New(), params.ContactID, params.LeadID, params.Title, params.StartTime,
		params.EndTime, params.Address, params.Service, params.AssignedTo, params.Notes,
		models.AppointmentScheduled, params.CalendarEventID,
	)
	return scanAppointment(row)
}

func (s *AppointmentStore) GetAppointmentByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Appointment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, public_id, contact_id, COALESCE(lead_id, 0), title, start_time, end_time,
		        address, service, assigned_to, status, calendar_event_id, notes, reminder_sent,
		        created_at, updated_at
		 FROM appointments WHERE public_id = $1`, publicID)
	return scanAppointment(row)
}

func (s *AppointmentStore) UpdateAppointment(ctx context.Context, id int64, params models.AppointmentUpdateParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE appointments
		 SET title       = CASE WHEN $2 <> '' THEN $2 ELSE title END,
		     start_time  = COALESCE($3, start_time),
		     end_time    = COALESCE($4, end_time),
		     address     = CASE WHEN $5 <> '' THEN $5 ELSE address END,
		     service     = CASE WHEN $6 <> '' THEN $6 ELSE service END,
		     assigned_to = CASE WHEN $7 <> '' THEN $7 ELSE assigned_to END,
		     status      = CASE WHEN $8 <> '' THEN $8 ELSE status END,
		     notes       = CASE WHEN $9 <> '' THEN $9 ELSE notes END,
		     updated_at  = NOW()
		 WHERE id = $1`,
		id, params.Title, params.StartTime, params.EndTime, params.Address,
		params.Service, params.AssignedTo, params.Status, params.Notes,
	)
	return err
}

func (s *AppointmentStore) ListAppointments(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if q.Status != "" {
		args = append(args, q.Status)
		where += fmt.Sprintf(` AND a.status = $%d`, len(args))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, q.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.public_id, a.contact_id, COALESCE(a.lead_id, 0), a.title, a.start_time, a.end_time,
		        a.address, a.service, a.assigned_to, a.status, a.calendar_event_id, a.notes, a.reminder_sent,
		        a.created_at, a.updated_at,
		        COALESCE(TRIM(c.first_name || ' ' || c.last_name), ''), COALESCE(c.phone, ''), COALESCE(c.email, '')
		 FROM appointments a
		 LEFT JOIN contacts c ON c.id = a.contact_id `+where+
			fmt.Sprintf(` ORDER BY a.start_time ASC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.PublicID, &a.ContactID, &a.LeadID, &a.Title,
			&a.StartTime, &a.EndTime, &a.Address, &a.Service, &a.AssignedTo,
			&a.Status, &a.CalendarEventID, &a.Notes, &a.ReminderSent,
			&a.CreatedAt, &a.UpdatedAt,
			&a.ContactName, &a.ContactPhone, &a.ContactEmail); err != nil {
			return nil, 0, err
		}
		appts = append(appts, a)
	}
	return appts, total, rows.Err()
}

func (s *AppointmentStore) CountUpcomingAppointments(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments
		 WHERE start_time > NOW() AND status IN ($1, $2)`,
		models.AppointmentScheduled, models.AppointmentConfirmed,
	).Scan(&count)
	return count, err
}
