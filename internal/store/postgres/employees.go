package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

type EmployeeStore struct {
	db *sql.DB
}

func NewEmployeeStore(db *sql.DB) *EmployeeStore {
	return &EmployeeStore{db: db}
}

const employeeColumns = `id, public_id, name, phone, email, calendar_id, role, active, notes, created_at, updated_at`

func (s *EmployeeStore) CreateEmployee(ctx context.Context, e models.Employee) (*models.Employee, error) {
	emp := e
	emp.PublicID = uuid.New()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO employees (public_id, name, phone, email, calendar_id, role, active, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		emp.PublicID, emp.Name, emp.Phone, emp.Email, emp.CalendarID, emp.Role, emp.Active, emp.Notes,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// GetEmployeeByName matches the denormalized assigned_to string used on
// appointments and jobs. Name collisions resolve to the oldest record.
func (s *EmployeeStore) GetEmployeeByName(ctx context.Context, name string) (*models.Employee, error) {
	e := &models.Employee{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE name = $1 ORDER BY created_at LIMIT 1`,
		name,
	).Scan(&e.ID, &e.PublicID, &e.Name, &e.Phone, &e.Email, &e.CalendarID, &e.Role, &e.Active,
		&e.Notes, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EmployeeStore) ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.PublicID, &e.Name, &e.Phone, &e.Email, &e.CalendarID,
			&e.Role, &e.Active, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *EmployeeStore) SetEmployeeActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE employees SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	return err
}
