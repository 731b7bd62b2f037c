package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// EmployeeService manages the crew roster.
type EmployeeService struct {
	employees store.EmployeeStore
}

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(employees store.EmployeeStore) *EmployeeService {
	return &EmployeeService{employees: employees}
}

// Create adds an employee to the roster.
func (s *EmployeeService) Create(ctx context.Context, e models.Employee) (*models.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, invalidf("name", "is required")
	}
	e.Active = true

	emp, err := s.employees.CreateEmployee(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return emp, nil
}

// List returns the roster, optionally limited to active employees.
func (s *EmployeeService) List(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	return s.employees.ListEmployees(ctx, activeOnly)
}

// SetActive toggles whether an employee appears in assignment lists.
func (s *EmployeeService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.employees.SetEmployeeActive(ctx, id, active)
}
