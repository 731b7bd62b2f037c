package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// ContactService manages the customer contact book.
type ContactService struct {
	contacts store.ContactStore
	audit    *audit.Writer
}

// NewContactService creates a ContactService.
func NewContactService(contacts store.ContactStore, auditor *audit.Writer) *ContactService {
	return &ContactService{contacts: contacts, audit: auditor}
}

func normalizeContact(p *models.ContactCreateParams) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Source = strings.TrimSpace(p.Source)
	p.Notes = strings.TrimSpace(p.Notes)
}

// Create adds a new contact after trimming input. First name is required
// and at least one of email or phone must be present.
func (s *ContactService) Create(ctx context.Context, params models.ContactCreateParams) (*models.Contact, error) {
	normalizeContact(&params)
	if params.FirstName == "" {
		return nil, invalidf("firstName", "is required")
	}
	if params.Email == "" && params.Phone == "" {
		return nil, invalidf("email", "either email or phone is required")
	}

	contact, err := s.contacts.CreateContact(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "contact_created",
		EntityType:  models.EntityContact,
		EntityID:    contact.PublicID.String(),
		Description: "Created contact " + contact.FullName(),
		Metadata:    audit.ContactMetadata{Source: contact.Source},
	})
	return contact, nil
}

// FindOrCreate deduplicates by email first, then phone. When a match is
// found, fields the existing record is missing are filled in from the new
// submission. Returns the contact and whether it was newly created.
func (s *ContactService) FindOrCreate(ctx context.Context, params models.ContactCreateParams) (*models.Contact, bool, error) {
	normalizeContact(&params)
	if params.FirstName == "" {
		return nil, false, invalidf("firstName", "is required")
	}
	if params.Email == "" && params.Phone == "" {
		return nil, false, invalidf("email", "either email or phone is required")
	}

	existing, err := s.lookup(ctx, params.Email, params.Phone)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up contact: %w", err)
	}

	if existing != nil {
		merged := models.ContactCreateParams{
			FirstName: existing.FirstName,
			LastName:  coalesce(existing.LastName, params.LastName),
			Phone:     coalesce(existing.Phone, params.Phone),
			Email:     coalesce(existing.Email, params.Email),
			Source:    existing.Source,
			Notes:     existing.Notes,
		}
		if merged.LastName != existing.LastName || merged.Phone != existing.Phone || merged.Email != existing.Email {
			if err := s.contacts.UpdateContact(ctx, existing.ID, merged); err != nil {
				return nil, false, fmt.Errorf("failed to update contact: %w", err)
			}
			existing, err = s.contacts.GetContactByID(ctx, existing.ID)
			if err != nil {
				return nil, false, err
			}
		}
		return existing, false, nil
	}

	contact, err := s.contacts.CreateContact(ctx, params)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, true, nil
}

func (s *ContactService) lookup(ctx context.Context, email, phone string) (*models.Contact, error) {
	if email != "" {
		c, err := s.contacts.FindContactByEmail(ctx, email)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	if phone != "" {
		return s.contacts.FindContactByPhone(ctx, phone)
	}
	return nil, store.ErrNotFound
}

// Update applies the non-empty fields to a contact. Empty fields keep
// their stored values, so a partial payload never blanks the record.
func (s *ContactService) Update(ctx context.Context, publicID uuid.UUID, params models.ContactCreateParams) (*models.Contact, error) {
	normalizeContact(&params)

	contact, err := s.contacts.GetContactByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if err := s.contacts.UpdateContact(ctx, contact.ID, params); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	updated, err := s.contacts.GetContactByID(ctx, contact.ID)
	if err != nil {
		return nil, err
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "contact_updated",
		EntityType:  models.EntityContact,
		EntityID:    updated.PublicID.String(),
		Description: "Updated contact " + updated.FullName(),
		Metadata:    audit.ContactMetadata{Source: updated.Source},
	})
	return updated, nil
}

// Get fetches one contact by its public id.
func (s *ContactService) Get(ctx context.Context, publicID uuid.UUID) (*models.Contact, error) {
	return s.contacts.GetContactByPublicID(ctx, publicID)
}

// List returns a page of contacts plus the total match count.
func (s *ContactService) List(ctx context.Context, q models.ContactQuery) ([]models.Contact, int, error) {
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)
	return s.contacts.ListContacts(ctx, q)
}

func coalesce(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
