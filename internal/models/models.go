package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Contact statuses.
const (
	ContactActive   = "active"
	ContactInactive = "inactive"
	ContactBlocked  = "blocked"
)

// Lead statuses.
const (
	LeadNew          = "new"
	LeadContacted    = "contacted"
	LeadQuoted       = "quoted"
	LeadWon          = "won"
	LeadLost         = "lost"
	LeadUnresponsive = "unresponsive"
)

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// Job statuses.
const (
	JobPending    = "pending"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobInvoiced   = "invoiced"
	JobPaid       = "paid"
)

// Email queue statuses.
const (
	EmailPendingApproval = "pending_approval"
	EmailApproved        = "approved"
	EmailSent            = "sent"
	EmailFailed          = "failed"
	EmailCancelled       = "cancelled"
)

// Payment request statuses. Executed is set by the settlement process,
// never by this application.
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentDenied   = "denied"
	PaymentExecuted = "executed"
	PaymentExpired  = "expired"
)

// Agent log statuses.
const (
	LogSuccess = "success"
	LogError   = "error"
	LogPending = "pending"
)

// Entity types recorded on agent log rows.
const (
	EntityContact     = "contact"
	EntityLead        = "lead"
	EntityAppointment = "appointment"
	EntityJob         = "job"
	EntityEmail       = "email"
	EntityPayment     = "payment"
	EntityGeneral     = "general"
)

type User struct {
	ID           int64
	PublicID     uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID        int64
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Contact struct {
	ID        int64
	PublicID  uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Source    string
	Notes     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last names, skipping an empty last name.
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type ContactCreateParams struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Source    string
	Notes     string
}

type ContactQuery struct {
	Search string
	Status string
	Limit  int
	Offset int
}

type Lead struct {
	ID            int64
	PublicID      uuid.UUID
	ContactID     int64
	ServiceNeeded string
	PreferredDate string
	Message       string
	Status        string
	Source        string
	AgentNotes    string
	OwnerNotes    string
	AssignedTo    string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined contact fields, populated by list queries.
	ContactName  string
	ContactPhone string
	ContactEmail string
}

type LeadCreateParams struct {
	ContactID     int64
	ServiceNeeded string
	PreferredDate string
	Message       string
	Source        string
	AgentNotes    string
}

type LeadUpdateParams struct {
	Status     string
	AgentNotes string
	OwnerNotes string
	AssignedTo string
}

type LeadQuery struct {
	Status    string
	ContactID int64
	Limit     int
	Offset    int
}

type Appointment struct {
	ID              int64
	PublicID        uuid.UUID
	ContactID       int64
	LeadID          int64
	Title           string
	StartTime       time.Time
	EndTime         *time.Time
	Address         string
	Service         string
	AssignedTo      string
	Status          string
	CalendarEventID string
	Notes           string
	ReminderSent    bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ContactName  string
	ContactPhone string
	ContactEmail string
}

type AppointmentCreateParams struct {
	ContactID       int64
	LeadID          int64
	Title           string
	StartTime       time.Time
	EndTime         *time.Time
	Address         string
	Service         string
	AssignedTo      string
	Notes           string
	CalendarEventID string
}

type AppointmentUpdateParams struct {
	Title      string
	StartTime  *time.Time
	EndTime    *time.Time
	Address    string
	Service    string
	AssignedTo string
	Status     string
	Notes      string
}

type AppointmentQuery struct {
	Status string
	Limit  int
	Offset int
}

type Job struct {
	ID            int64
	PublicID      uuid.UUID
	ContactID     int64
	AppointmentID int64
	Title         string
	Status        string
	Service       string
	AssignedTo    string
	ScheduledDate string
	CompletedDate string
	InvoiceAmount *float64
	PaidAmount    *float64
	Notes         string
	Photos        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	ContactName  string
	ContactPhone string
	ContactEmail string
}

type JobCreateParams struct {
	ContactID     int64
	AppointmentID int64
	Title         string
	Service       string
	AssignedTo    string
	ScheduledDate string
	InvoiceAmount *float64
	Notes         string
}

type JobUpdateParams struct {
	Status        string
	AssignedTo    string
	ScheduledDate string
	CompletedDate string
	InvoiceAmount *float64
	PaidAmount    *float64
	Notes         string
	AddPhoto      string
}

type JobQuery struct {
	Status string
	Limit  int
	Offset int
}

type Employee struct {
	ID         int64
	PublicID   uuid.UUID
	Name       string
	Phone      string
	Email      string
	CalendarID string
	Role       string
	Active     bool
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type QueuedEmail struct {
	ID           int64
	PublicID     uuid.UUID
	ToEmail      string
	ToName       string
	Subject      string
	BodyHTML     string
	BodyText     string
	Status       string
	Type         string
	ContactID    int64
	ApprovedAt   *time.Time
	SentAt       *time.Time
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type QueuedEmailCreateParams struct {
	ToEmail   string
	ToName    string
	Subject   string
	BodyHTML  string
	BodyText  string
	Type      string
	ContactID int64
}

type PaymentRequest struct {
	ID             int64
	PublicID       uuid.UUID
	Amount         float64
	Vendor         string
	Reason         string
	Status         string
	RequestedBy    string
	ApprovedAt     *time.Time
	ExecutedAt     *time.Time
	ApprovalToken  string
	ExpiresAt      time.Time
	TransactionRef string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PaymentRequestCreateParams struct {
	Amount        float64
	Vendor        string
	Reason        string
	Notes         string
	RequestedBy   string
	ApprovalToken string
	ExpiresAt     time.Time
}

type AgentLogEntry struct {
	ID          int64
	PublicID    uuid.UUID
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Metadata    json.RawMessage
	Status      string
	CreatedAt   time.Time
}

type Review struct {
	ID           int64
	PublicID     uuid.UUID
	CustomerName string
	Service      string
	Quote        string
	Rating       int
	ReviewDate   time.Time
	Source       string
	Published    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// leadTransitions maps each lead status to the statuses it may move to.
// lost and unresponsive may be reopened to contacted by the admin.
var leadTransitions = map[string][]string{
	LeadNew:          {LeadContacted, LeadQuoted, LeadWon, LeadLost, LeadUnresponsive},
	LeadContacted:    {LeadQuoted, LeadWon, LeadLost, LeadUnresponsive},
	LeadQuoted:       {LeadWon, LeadLost, LeadUnresponsive},
	LeadWon:          {},
	LeadLost:         {LeadContacted},
	LeadUnresponsive: {LeadContacted},
}

// ValidLeadTransition reports whether a lead may move from one status to
// another. Setting the same status again is allowed (no-op updates).
func ValidLeadTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, s := range leadTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadQuoted, LeadWon, LeadLost, LeadUnresponsive:
		return true
	}
	return false
}

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	switch s {
	case JobPending, JobInProgress, JobCompleted, JobInvoiced, JobPaid:
		return true
	}
	return false
}

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted,
		AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// ValidLogEntity reports whether s is a known agent log entity type.
func ValidLogEntity(s string) bool {
	switch s {
	case EntityContact, EntityLead, EntityAppointment, EntityJob,
		EntityEmail, EntityPayment, EntityGeneral:
		return true
	}
	return false
}
