package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// JobService tracks work from booking through payment.
type JobService struct {
	jobs     store.JobStore
	contacts store.ContactStore
	audit    *audit.Writer
}

// NewJobService creates a JobService.
func NewJobService(jobs store.JobStore, contacts store.ContactStore, auditor *audit.Writer) *JobService {
	return &JobService{jobs: jobs, contacts: contacts, audit: auditor}
}

// JobParams describes a new job keyed by the contact's public id.
type JobParams struct {
	ContactPublicID uuid.UUID
	Title           string
	Service         string
	AssignedTo      string
	ScheduledDate   string
	InvoiceAmount   *float64
	Notes           string
}

// Create records a new job for a contact.
func (s *JobService) Create(ctx context.Context, p JobParams) (*models.Job, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, invalidf("title", "is required")
	}
	if p.InvoiceAmount != nil && *p.InvoiceAmount < 0 {
		return nil, invalidf("invoiceAmount", "must not be negative")
	}

	contact, err := s.contacts.GetContactByPublicID(ctx, p.ContactPublicID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.CreateJob(ctx, models.JobCreateParams{
		ContactID:     contact.ID,
		Title:         p.Title,
		Service:       strings.TrimSpace(p.Service),
		AssignedTo:    strings.TrimSpace(p.AssignedTo),
		ScheduledDate: strings.TrimSpace(p.ScheduledDate),
		InvoiceAmount: p.InvoiceAmount,
		Notes:         p.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "job_created",
		EntityType:  models.EntityJob,
		EntityID:    job.PublicID.String(),
		Description: fmt.Sprintf("Created job %q for %s", job.Title, contact.FullName()),
		Metadata:    audit.JobMetadata{},
	})
	return job, nil
}

// Get fetches one job by public id.
func (s *JobService) Get(ctx context.Context, publicID uuid.UUID) (*models.Job, error) {
	return s.jobs.GetJobByPublicID(ctx, publicID)
}

// Update applies changes to a job, validating any status value. AddPhoto
// appends one photo key to the job's gallery.
func (s *JobService) Update(ctx context.Context, publicID uuid.UUID, params models.JobUpdateParams) (*models.Job, error) {
	job, err := s.jobs.GetJobByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	params.Status = strings.TrimSpace(params.Status)
	if params.Status != "" && !models.ValidJobStatus(params.Status) {
		return nil, invalidf("status", "unknown status %q", params.Status)
	}
	if params.InvoiceAmount != nil && *params.InvoiceAmount < 0 {
		return nil, invalidf("invoiceAmount", "must not be negative")
	}
	if params.PaidAmount != nil && *params.PaidAmount < 0 {
		return nil, invalidf("paidAmount", "must not be negative")
	}

	if err := s.jobs.UpdateJob(ctx, job.ID, params); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	updated, err := s.jobs.GetJobByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	if params.Status != "" && params.Status != job.Status {
		changes["status"] = job.Status + " -> " + params.Status
	}
	if params.AddPhoto != "" {
		changes["photoAdded"] = params.AddPhoto
	}
	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "job_updated",
		EntityType:  models.EntityJob,
		EntityID:    updated.PublicID.String(),
		Description: "Updated job " + updated.Title,
		Metadata:    audit.JobMetadata{Updates: changes},
	})
	return updated, nil
}

// List returns a page of jobs.
func (s *JobService) List(ctx context.Context, q models.JobQuery) ([]models.Job, int, error) {
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)
	return s.jobs.ListJobs(ctx, q)
}
