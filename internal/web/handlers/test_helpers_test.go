package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/config"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// --- Shared mock stores for the handler tests ---

type mockContactStore struct {
	contacts map[int64]*models.Contact
	nextID   int64
}

func newMockContactStore() *mockContactStore {
	return &mockContactStore{contacts: make(map[int64]*models.Contact), nextID: 1}
}

func (m *mockContactStore) CreateContact(_ context.Context, p models.ContactCreateParams) (*models.Contact, error) {
	c := &models.Contact{
		ID:        m.nextID,
		PublicID:  uuid.New(),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Source:    p.Source,
		Notes:     p.Notes,
		Status:    models.ContactActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.nextID++
	m.contacts[c.ID] = c
	return c, nil
}

// UpdateContact keeps stored values for empty fields, like the SQL store.
func (m *mockContactStore) UpdateContact(_ context.Context, id int64, p models.ContactCreateParams) error {
	c, ok := m.contacts[id]
	if !ok {
		return store.ErrNotFound
	}
	setIfPresent(&c.FirstName, p.FirstName)
	setIfPresent(&c.LastName, p.LastName)
	setIfPresent(&c.Phone, p.Phone)
	setIfPresent(&c.Email, p.Email)
	setIfPresent(&c.Source, p.Source)
	setIfPresent(&c.Notes, p.Notes)
	return nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (m *mockContactStore) GetContactByID(_ context.Context, id int64) (*models.Contact, error) {
	c, ok := m.contacts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockContactStore) GetContactByPublicID(_ context.Context, publicID uuid.UUID) (*models.Contact, error) {
	for _, c := range m.contacts {
		if c.PublicID == publicID {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockContactStore) FindContactByEmail(_ context.Context, email string) (*models.Contact, error) {
	for _, c := range m.contacts {
		if c.Email != "" && c.Email == email {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockContactStore) FindContactByPhone(_ context.Context, phone string) (*models.Contact, error) {
	for _, c := range m.contacts {
		if c.Phone != "" && c.Phone == phone {
			return c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockContactStore) ListContacts(_ context.Context, _ models.ContactQuery) ([]models.Contact, int, error) {
	out := make([]models.Contact, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, *c)
	}
	return out, len(out), nil
}

type mockLeadStore struct {
	leads  map[int64]*models.Lead
	nextID int64
}

func newMockLeadStore() *mockLeadStore {
	return &mockLeadStore{leads: make(map[int64]*models.Lead), nextID: 1}
}

func (m *mockLeadStore) CreateLead(_ context.Context, p models.LeadCreateParams) (*models.Lead, error) {
	l := &models.Lead{
		ID:            m.nextID,
		PublicID:      uuid.New(),
		ContactID:     p.ContactID,
		ServiceNeeded: p.ServiceNeeded,
		Message:       p.Message,
		Status:        models.LeadNew,
		Source:        p.Source,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.nextID++
	m.leads[l.ID] = l
	return l, nil
}

func (m *mockLeadStore) GetLeadByID(_ context.Context, id int64) (*models.Lead, error) {
	l, ok := m.leads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return l, nil
}

func (m *mockLeadStore) GetLeadByPublicID(_ context.Context, publicID uuid.UUID) (*models.Lead, error) {
	for _, l := range m.leads {
		if l.PublicID == publicID {
			return l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockLeadStore) UpdateLead(_ context.Context, id int64, p models.LeadUpdateParams) error {
	l, ok := m.leads[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Status != "" {
		l.Status = p.Status
	}
	return nil
}

func (m *mockLeadStore) ListLeads(_ context.Context, _ models.LeadQuery) ([]models.Lead, int, error) {
	out := make([]models.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *mockLeadStore) CountLeadsByStatus(_ context.Context, _ string) (int, error) {
	return len(m.leads), nil
}

type mockPaymentStore struct {
	payments map[int64]*models.PaymentRequest
	nextID   int64
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{payments: make(map[int64]*models.PaymentRequest), nextID: 1}
}

func (m *mockPaymentStore) CreatePaymentRequest(_ context.Context, p models.PaymentRequestCreateParams) (*models.PaymentRequest, error) {
	r := &models.PaymentRequest{
		ID:            m.nextID,
		PublicID:      uuid.New(),
		Amount:        p.Amount,
		Vendor:        p.Vendor,
		Reason:        p.Reason,
		Status:        models.PaymentPending,
		RequestedBy:   p.RequestedBy,
		ApprovalToken: p.ApprovalToken,
		ExpiresAt:     p.ExpiresAt,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.nextID++
	m.payments[r.ID] = r
	return r, nil
}

func (m *mockPaymentStore) GetPaymentRequestByToken(_ context.Context, token string) (*models.PaymentRequest, error) {
	for _, r := range m.payments {
		if r.ApprovalToken == token {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockPaymentStore) GetPaymentRequestByPublicID(_ context.Context, publicID uuid.UUID) (*models.PaymentRequest, error) {
	for _, r := range m.payments {
		if r.PublicID == publicID {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockPaymentStore) ListPaymentRequests(_ context.Context, _ string, _, _ int) ([]models.PaymentRequest, int, error) {
	out := make([]models.PaymentRequest, 0, len(m.payments))
	for _, r := range m.payments {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockPaymentStore) ResolvePaymentRequest(_ context.Context, id int64, status string) (*models.PaymentRequest, error) {
	r, ok := m.payments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if r.Status != models.PaymentPending {
		return nil, store.ErrConflict
	}
	r.Status = status
	return r, nil
}

func (m *mockPaymentStore) CountPendingPayments(_ context.Context) (int, error) {
	return len(m.payments), nil
}

type mockAgentLogStore struct {
	mu      sync.Mutex
	entries []models.AgentLogEntry
}

func (m *mockAgentLogStore) CreateAgentLog(_ context.Context, entry models.AgentLogEntry) (*models.AgentLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = int64(len(m.entries) + 1)
	entry.PublicID = uuid.New()
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, entry)
	return &entry, nil
}

// ListAgentLogs applies limit and offset and returns the full match count,
// like the SQL store.
func (m *mockAgentLogStore) ListAgentLogs(_ context.Context, limit, offset int) ([]models.AgentLogEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := len(m.entries)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]models.AgentLogEntry(nil), m.entries[offset:end]...), total, nil
}

// discardSender swallows outbound email.
type discardSender struct{}

func (discardSender) Send(_ context.Context, _ mail.Email) error { return nil }

// discardTexter swallows outbound SMS.
type discardTexter struct{}

func (discardTexter) Send(_ context.Context, _, _ string) error { return nil }

func testSite() config.Site {
	return config.Site{
		BusinessName: "Alpine Outdoor Living",
		BaseURL:      "http://localhost:8080",
		BrandPrimary: "#8C9743",
	}
}

func testTemplates() *mail.Templates {
	return mail.NewTemplates(testSite())
}

func testAuditor() *audit.Writer {
	return audit.NewWriter(&mockAgentLogStore{})
}
