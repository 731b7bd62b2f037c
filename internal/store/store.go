package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) (*models.Session, error)
	GetSessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) error
}

type ContactStore interface {
	CreateContact(ctx context.Context, params models.ContactCreateParams) (*models.Contact, error)
	UpdateContact(ctx context.Context, id int64, params models.ContactCreateParams) error
	GetContactByID(ctx context.Context, id int64) (*models.Contact, error)
	GetContactByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Contact, error)
	FindContactByEmail(ctx context.Context, email string) (*models.Contact, error)
	FindContactByPhone(ctx context.Context, phone string) (*models.Contact, error)
	ListContacts(ctx context.Context, q models.ContactQuery) ([]models.Contact, int, error)
}

type LeadStore interface {
	CreateLead(ctx context.Context, params models.LeadCreateParams) (*models.Lead, error)
	GetLeadByID(ctx context.Context, id int64) (*models.Lead, error)
	GetLeadByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Lead, error)
	UpdateLead(ctx context.Context, id int64, params models.LeadUpdateParams) error
	ListLeads(ctx context.Context, q models.LeadQuery) ([]models.Lead, int, error)
	CountLeadsByStatus(ctx context.Context, status string) (int, error)
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, params models.AppointmentCreateParams) (*models.Appointment, error)
	GetAppointmentByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, params models.AppointmentUpdateParams) error
	ListAppointments(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, int, error)
	CountUpcomingAppointments(ctx context.Context) (int, error)
}

type JobStore interface {
	CreateJob(ctx context.Context, params models.JobCreateParams) (*models.Job, error)
	GetJobByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Job, error)
	UpdateJob(ctx context.Context, id int64, params models.JobUpdateParams) error
	ListJobs(ctx context.Context, q models.JobQuery) ([]models.Job, int, error)
	CountOpenJobs(ctx context.Context) (int, error)
}

type EmployeeStore interface {
	CreateEmployee(ctx context.Context, e models.Employee) (*models.Employee, error)
	GetEmployeeByName(ctx context.Context, name string) (*models.Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]models.Employee, error)
	SetEmployeeActive(ctx context.Context, id int64, active bool) error
}

type EmailQueueStore interface {
	CreateQueuedEmail(ctx context.Context, params models.QueuedEmailCreateParams) (*models.QueuedEmail, error)
	GetQueuedEmailByPublicID(ctx context.Context, publicID uuid.UUID) (*models.QueuedEmail, error)
	ListQueuedEmails(ctx context.Context, status string, limit, offset int) ([]models.QueuedEmail, int, error)
	// ApproveQueuedEmail atomically moves a pending_approval or failed email
	// to approved, returning ErrConflict when the row is in neither state.
	ApproveQueuedEmail(ctx context.Context, id int64) (*models.QueuedEmail, error)
	MarkQueuedEmailSent(ctx context.Context, id int64) error
	MarkQueuedEmailFailed(ctx context.Context, id int64, errorMessage string) error
	// CancelQueuedEmail atomically cancels a pending_approval email.
	CancelQueuedEmail(ctx context.Context, id int64) error
	CountPendingEmails(ctx context.Context) (int, error)
}

type PaymentRequestStore interface {
	CreatePaymentRequest(ctx context.Context, params models.PaymentRequestCreateParams) (*models.PaymentRequest, error)
	GetPaymentRequestByToken(ctx context.Context, token string) (*models.PaymentRequest, error)
	GetPaymentRequestByPublicID(ctx context.Context, publicID uuid.UUID) (*models.PaymentRequest, error)
	ListPaymentRequests(ctx context.Context, status string, limit, offset int) ([]models.PaymentRequest, int, error)
	// ResolvePaymentRequest applies a terminal status with a single
	// conditional UPDATE guarded on status = 'pending'. ErrConflict means
	// the request was already resolved by a concurrent action.
	ResolvePaymentRequest(ctx context.Context, id int64, status string) (*models.PaymentRequest, error)
	CountPendingPayments(ctx context.Context) (int, error)
}

type AgentLogStore interface {
	CreateAgentLog(ctx context.Context, entry models.AgentLogEntry) (*models.AgentLogEntry, error)
	ListAgentLogs(ctx context.Context, limit, offset int) ([]models.AgentLogEntry, int, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r models.Review) (*models.Review, error)
	ListPublishedReviews(ctx context.Context) ([]models.Review, error)
}
