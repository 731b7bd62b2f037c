package handlers

import (
	"encoding/json"
	"time"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/crm"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// AgentHandler serves the key-gated JSON API the automation agent uses to
// run the CRM. Every payload identifies records by public id only.
type AgentHandler struct {
	contacts     *crm.ContactService
	leads        *crm.LeadService
	appointments *crm.AppointmentService
	jobs         *crm.JobService
	emails       *crm.EmailService
	payments     *crm.PaymentService
	logs         store.AgentLogStore
	audit        *audit.Writer
}

// NewAgentHandler creates an AgentHandler.
func NewAgentHandler(
	contacts *crm.ContactService,
	leads *crm.LeadService,
	appointments *crm.AppointmentService,
	jobs *crm.JobService,
	emails *crm.EmailService,
	payments *crm.PaymentService,
	logs store.AgentLogStore,
	auditor *audit.Writer,
) *AgentHandler {
	return &AgentHandler{
		contacts:     contacts,
		leads:        leads,
		appointments: appointments,
		jobs:         jobs,
		emails:       emails,
		payments:     payments,
		logs:         logs,
		audit:        auditor,
	}
}

type contactJSON struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toContactJSON(c *models.Contact) contactJSON {
	return contactJSON{
		ID:        c.PublicID.String(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Email:     c.Email,
		Source:    c.Source,
		Notes:     c.Notes,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type leadJSON struct {
	ID            string    `json:"id"`
	ServiceNeeded string    `json:"serviceNeeded"`
	PreferredDate string    `json:"preferredDate"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	AgentNotes    string    `json:"agentNotes"`
	OwnerNotes    string    `json:"ownerNotes"`
	AssignedTo    string    `json:"assignedTo"`
	ContactName   string    `json:"contactName,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toLeadJSON(l *models.Lead) leadJSON {
	return leadJSON{
		ID:            l.PublicID.String(),
		ServiceNeeded: l.ServiceNeeded,
		PreferredDate: l.PreferredDate,
		Message:       l.Message,
		Status:        l.Status,
		Source:        l.Source,
		AgentNotes:    l.AgentNotes,
		OwnerNotes:    l.OwnerNotes,
		AssignedTo:    l.AssignedTo,
		ContactName:   l.ContactName,
		ContactPhone:  l.ContactPhone,
		ContactEmail:  l.ContactEmail,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

type appointmentJSON struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Address         string     `json:"address"`
	Service         string     `json:"service"`
	AssignedTo      string     `json:"assignedTo"`
	Status          string     `json:"status"`
	CalendarEventID string     `json:"calendarEventId,omitempty"`
	Notes           string     `json:"notes"`
	ContactName     string     `json:"contactName,omitempty"`
	ContactPhone    string     `json:"contactPhone,omitempty"`
	ContactEmail    string     `json:"contactEmail,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toAppointmentJSON(a *models.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:              a.PublicID.String(),
		Title:           a.Title,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Address:         a.Address,
		Service:         a.Service,
		AssignedTo:      a.AssignedTo,
		Status:          a.Status,
		CalendarEventID: a.CalendarEventID,
		Notes:           a.Notes,
		ContactName:     a.ContactName,
		ContactPhone:    a.ContactPhone,
		ContactEmail:    a.ContactEmail,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

type jobJSON struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	AssignedTo    string    `json:"assignedTo"`
	ScheduledDate string    `json:"scheduledDate"`
	CompletedDate string    `json:"completedDate"`
	InvoiceAmount *float64  `json:"invoiceAmount,omitempty"`
	PaidAmount    *float64  `json:"paidAmount,omitempty"`
	Notes         string    `json:"notes"`
	Photos        []string  `json:"photos,omitempty"`
	ContactName   string    `json:"contactName,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toJobJSON(j *models.Job) jobJSON {
	return jobJSON{
		ID:            j.PublicID.String(),
		Title:         j.Title,
		Status:        j.Status,
		Service:       j.Service,
		AssignedTo:    j.AssignedTo,
		ScheduledDate: j.ScheduledDate,
		CompletedDate: j.CompletedDate,
		InvoiceAmount: j.InvoiceAmount,
		PaidAmount:    j.PaidAmount,
		Notes:         j.Notes,
		Photos:        j.Photos,
		ContactName:   j.ContactName,
		ContactPhone:  j.ContactPhone,
		ContactEmail:  j.ContactEmail,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

type queuedEmailJSON struct {
	ID           string     `json:"id"`
	ToEmail      string     `json:"toEmail"`
	ToName       string     `json:"toName"`
	Subject      string     `json:"subject"`
	Status       string     `json:"status"`
	Type         string     `json:"type"`
	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	SentAt       *time.Time `json:"sentAt,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toQueuedEmailJSON(e *models.QueuedEmail) queuedEmailJSON {
	return queuedEmailJSON{
		ID:           e.PublicID.String(),
		ToEmail:      e.ToEmail,
		ToName:       e.ToName,
		Subject:      e.Subject,
		Status:       e.Status,
		Type:         e.Type,
		ApprovedAt:   e.ApprovedAt,
		SentAt:       e.SentAt,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}

type paymentRequestJSON struct {
	ID          string     `json:"id"`
	Amount      float64    `json:"amount"`
	Vendor      string     `json:"vendor"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	RequestedBy string     `json:"requestedBy"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// The approval token never appears in API responses.
func toPaymentRequestJSON(p *models.PaymentRequest) paymentRequestJSON {
	return paymentRequestJSON{
		ID:          p.PublicID.String(),
		Amount:      p.Amount,
		Vendor:      p.Vendor,
		Reason:      p.Reason,
		Status:      p.Status,
		RequestedBy: p.RequestedBy,
		ApprovedAt:  p.ApprovedAt,
		ExpiresAt:   p.ExpiresAt,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

type agentLogJSON struct {
	ID          string          `json:"id"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityId,omitempty"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toAgentLogJSON(e *models.AgentLogEntry) agentLogJSON {
	return agentLogJSON{
		ID:          e.PublicID.String(),
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		Metadata:    e.Metadata,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
	}
}
