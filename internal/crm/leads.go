package crm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// LeadService handles inquiry intake and the lead pipeline.
type LeadService struct {
	leads     store.LeadStore
	contacts  *ContactService
	mailer    mail.Sender
	templates *mail.Templates
	audit     *audit.Writer

	ownerEmail string
}

// NewLeadService creates a LeadService. ownerEmail receives new-lead
// notifications.
func NewLeadService(leads store.LeadStore, contacts *ContactService, mailer mail.Sender, templates *mail.Templates, auditor *audit.Writer, ownerEmail string) *LeadService {
	return &LeadService{
		leads:      leads,
		contacts:   contacts,
		mailer:     mailer,
		templates:  templates,
		audit:      auditor,
		ownerEmail: ownerEmail,
	}
}

// InquiryParams is a contact form submission from the public site or a
// lead captured by the agent on a customer's behalf.
type InquiryParams struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	ServiceNeeded string
	PreferredDate string
	Message       string
	Source        string
	AgentNotes    string
}

// SubmitInquiry records an inquiry: the contact is deduplicated by email
// then phone, a new lead is always created, and notification email goes
// out best-effort. Repeat submissions from the same person yield one
// contact with multiple leads.
func (s *LeadService) SubmitInquiry(ctx context.Context, p InquiryParams) (*models.Lead, error) {
	p.ServiceNeeded = strings.TrimSpace(p.ServiceNeeded)
	p.PreferredDate = strings.TrimSpace(p.PreferredDate)
	p.Message = strings.TrimSpace(p.Message)
	p.Source = strings.TrimSpace(p.Source)
	if p.Source == "" {
		p.Source = "website"
	}

	contact, created, err := s.contacts.FindOrCreate(ctx, models.ContactCreateParams{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Source:    p.Source,
	})
	if err != nil {
		return nil, err
	}

	lead, err := s.leads.CreateLead(ctx, models.LeadCreateParams{
		ContactID:     contact.ID,
		ServiceNeeded: p.ServiceNeeded,
		PreferredDate: p.PreferredDate,
		Message:       p.Message,
		Source:        p.Source,
		AgentNotes:    p.AgentNotes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "lead_created",
		EntityType:  models.EntityLead,
		EntityID:    lead.PublicID.String(),
		Description: fmt.Sprintf("New %s lead from %s", p.Source, contact.FullName()),
		Metadata: audit.LeadMetadata{
			ContactID: contact.PublicID.String(),
			Source:    p.Source,
		},
	})

	s.notify(ctx, contact, p, created)
	return lead, nil
}

// notify sends the owner alert and the customer auto-response. Delivery
// failures are logged, never returned: the lead is already recorded.
func (s *LeadService) notify(ctx context.Context, contact *models.Contact, p InquiryParams, newContact bool) {
	msg := s.templates.NewLeadNotification(mail.NewLeadParams{
		Name:          contact.FullName(),
		Email:         contact.Email,
		Phone:         contact.Phone,
		ServiceNeeded: p.ServiceNeeded,
		Message:       p.Message,
		Source:        p.Source,
	})
	if err := s.mailer.Send(ctx, mail.Email{
		ToEmail:  s.ownerEmail,
		Subject:  msg.Subject,
		BodyHTML: msg.BodyHTML,
		BodyText: msg.BodyText,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send new lead notification", "error", err)
	}

	if contact.Email == "" {
		return
	}
	reply := s.templates.LeadAutoResponse(contact.FullName())
	if err := s.mailer.Send(ctx, mail.Email{
		ToEmail:  contact.Email,
		ToName:   contact.FullName(),
		Subject:  reply.Subject,
		BodyHTML: reply.BodyHTML,
		BodyText: reply.BodyText,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send lead auto-response", "error", err, "new_contact", newContact)
	}
}

// Get fetches one lead by public id.
func (s *LeadService) Get(ctx context.Context, publicID uuid.UUID) (*models.Lead, error) {
	return s.leads.GetLeadByPublicID(ctx, publicID)
}

// Update applies status and note changes to a lead. Status changes are
// checked against the pipeline transitions; an illegal move is rejected
// without touching the row.
func (s *LeadService) Update(ctx context.Context, publicID uuid.UUID, params models.LeadUpdateParams) (*models.Lead, error) {
	lead, err := s.leads.GetLeadByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	params.Status = strings.TrimSpace(params.Status)
	if params.Status != "" {
		if !models.ValidLeadStatus(params.Status) {
			return nil, invalidf("status", "unknown status %q", params.Status)
		}
		if !models.ValidLeadTransition(lead.Status, params.Status) {
			return nil, invalidf("status", "cannot move lead from %s to %s", lead.Status, params.Status)
		}
	}

	if err := s.leads.UpdateLead(ctx, lead.ID, params); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	updated, err := s.leads.GetLeadByID(ctx, lead.ID)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	if params.Status != "" && params.Status != lead.Status {
		changes["status"] = lead.Status + " -> " + params.Status
	}
	if params.AssignedTo != "" {
		changes["assignedTo"] = params.AssignedTo
	}
	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "lead_updated",
		EntityType:  models.EntityLead,
		EntityID:    updated.PublicID.String(),
		Description: "Updated lead",
		Metadata:    audit.LeadMetadata{Updates: changes},
	})
	return updated, nil
}

// List returns a page of leads with contact details joined in.
func (s *LeadService) List(ctx context.Context, q models.LeadQuery) ([]models.Lead, int, error) {
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)
	return s.leads.ListLeads(ctx, q)
}
