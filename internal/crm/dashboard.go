package crm

import (
	"context"
	"fmt"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// DashboardStats is the summary strip at the top of the admin dashboard.
type DashboardStats struct {
	NewLeads             int
	UpcomingAppointments int
	OpenJobs             int
	PendingEmails        int
	PendingPayments      int
}

// DashboardService aggregates counts across the CRM.
type DashboardService struct {
	leads        store.LeadStore
	appointments store.AppointmentStore
	jobs         store.JobStore
	emails       store.EmailQueueStore
	payments     store.PaymentRequestStore
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	leads store.LeadStore,
	appointments store.AppointmentStore,
	jobs store.JobStore,
	emails store.EmailQueueStore,
	payments store.PaymentRequestStore,
) *DashboardService {
	return &DashboardService{
		leads:        leads,
		appointments: appointments,
		jobs:         jobs,
		emails:       emails,
		payments:     payments,
	}
}

// Stats gathers the current counters.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.NewLeads, err = s.leads.CountLeadsByStatus(ctx, models.LeadNew); err != nil {
		return nil, fmt.Errorf("failed to count new leads: %w", err)
	}
	if stats.UpcomingAppointments, err = s.appointments.CountUpcomingAppointments(ctx); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	if stats.OpenJobs, err = s.jobs.CountOpenJobs(ctx); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if stats.PendingEmails, err = s.emails.CountPendingEmails(ctx); err != nil {
		return nil, fmt.Errorf("failed to count pending emails: %w", err)
	}
	if stats.PendingPayments, err = s.payments.CountPendingPayments(ctx); err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}
	return stats, nil
}
