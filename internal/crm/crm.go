// Package crm implements the business operations behind the agent API and
// the admin dashboard: contact intake, lead tracking, scheduling, jobs, the
// outbound email approval queue and payment approvals.
package crm

import (
	"fmt"
)

// Pagination bounds shared by every list operation.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ValidationError reports a rejected input by field name so API handlers
// can return a useful 400 body.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
