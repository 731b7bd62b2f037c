package crm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/calendar"
	"github.com/conley21p/alpine-outdoor-living/internal/config"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// --- Shared mock stores and transports for the crm service tests ---

type mockAgentLogStore struct {
	mu      sync.Mutex
	entries []models.AgentLogEntry
	nextID  int64
}

func newMockAgentLogStore() *mockAgentLogStore {
	return &mockAgentLogStore{nextID: 1}
}

func (m *mockAgentLogStore) CreateAgentLog(_ context.Context, entry models.AgentLogEntry) (*models.AgentLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextID
	entry.PublicID = uuid.New()
	entry.CreatedAt = time.Now()
	m.nextID++
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *mockAgentLogStore) ListAgentLogs(_ context.Context, _, _ int) ([]models.AgentLogEntry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AgentLogEntry(nil), m.entries...), len(m.entries), nil
}

func (m *mockAgentLogStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

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
	c.UpdatedAt = time.Now()
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
		PreferredDate: p.PreferredDate,
		Message:       p.Message,
		Status:        models.LeadNew,
		Source:        p.Source,
		AgentNotes:    p.AgentNotes,
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
	if p.AgentNotes != "" {
		l.AgentNotes = p.AgentNotes
	}
	if p.OwnerNotes != "" {
		l.OwnerNotes = p.OwnerNotes
	}
	if p.AssignedTo != "" {
		l.AssignedTo = p.AssignedTo
	}
	l.UpdatedAt = time.Now()
	return nil
}

func (m *mockLeadStore) ListLeads(_ context.Context, _ models.LeadQuery) ([]models.Lead, int, error) {
	out := make([]models.Lead, 0, len(m.leads))
	for _, l := range m.leads {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *mockLeadStore) CountLeadsByStatus(_ context.Context, status string) (int, error) {
	n := 0
	for _, l := range m.leads {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

type mockEmailQueueStore struct {
	emails map[int64]*models.QueuedEmail
	nextID int64
}

func newMockEmailQueueStore() *mockEmailQueueStore {
	return &mockEmailQueueStore{emails: make(map[int64]*models.QueuedEmail), nextID: 1}
}

func (m *mockEmailQueueStore) CreateQueuedEmail(_ context.Context, p models.QueuedEmailCreateParams) (*models.QueuedEmail, error) {
	e := &models.QueuedEmail{
		ID:        m.nextID,
		PublicID:  uuid.New(),
		ToEmail:   p.ToEmail,
		ToName:    p.ToName,
		Subject:   p.Subject,
		BodyHTML:  p.BodyHTML,
		BodyText:  p.BodyText,
		Status:    models.EmailPendingApproval,
		Type:      p.Type,
		ContactID: p.ContactID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.nextID++
	m.emails[e.ID] = e
	return e, nil
}

func (m *mockEmailQueueStore) GetQueuedEmailByPublicID(_ context.Context, publicID uuid.UUID) (*models.QueuedEmail, error) {
	for _, e := range m.emails {
		if e.PublicID == publicID {
			return e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockEmailQueueStore) ListQueuedEmails(_ context.Context, status string, _, _ int) ([]models.QueuedEmail, int, error) {
	out := make([]models.QueuedEmail, 0)
	for _, e := range m.emails {
		if status == "" || e.Status == status {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (m *mockEmailQueueStore) ApproveQueuedEmail(_ context.Context, id int64) (*models.QueuedEmail, error) {
	e, ok := m.emails[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if e.Status != models.EmailPendingApproval && e.Status != models.EmailFailed {
		return nil, store.ErrConflict
	}
	now := time.Now()
	e.Status = models.EmailApproved
	e.ApprovedAt = &now
	return e, nil
}

func (m *mockEmailQueueStore) MarkQueuedEmailSent(_ context.Context, id int64) error {
	e, ok := m.emails[id]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now()
	e.Status = models.EmailSent
	e.SentAt = &now
	e.ErrorMessage = ""
	return nil
}

func (m *mockEmailQueueStore) MarkQueuedEmailFailed(_ context.Context, id int64, errorMessage string) error {
	e, ok := m.emails[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Status = models.EmailFailed
	e.ErrorMessage = errorMessage
	return nil
}

func (m *mockEmailQueueStore) CancelQueuedEmail(_ context.Context, id int64) error {
	e, ok := m.emails[id]
	if !ok {
		return store.ErrNotFound
	}
	if e.Status != models.EmailPendingApproval {
		return store.ErrConflict
	}
	e.Status = models.EmailCancelled
	return nil
}

func (m *mockEmailQueueStore) CountPendingEmails(_ context.Context) (int, error) {
	n := 0
	for _, e := range m.emails {
		if e.Status == models.EmailPendingApproval {
			n++
		}
	}
	return n, nil
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
		Notes:         p.Notes,
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

func (m *mockPaymentStore) ListPaymentRequests(_ context.Context, status string, _, _ int) ([]models.PaymentRequest, int, error) {
	out := make([]models.PaymentRequest, 0)
	for _, r := range m.payments {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
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
	if status == models.PaymentApproved {
		now := time.Now()
		r.ApprovedAt = &now
	}
	r.UpdatedAt = time.Now()
	return r, nil
}

func (m *mockPaymentStore) CountPendingPayments(_ context.Context) (int, error) {
	n := 0
	for _, r := range m.payments {
		if r.Status == models.PaymentPending {
			n++
		}
	}
	return n, nil
}

type mockAppointmentStore struct {
	appointments map[int64]*models.Appointment
	nextID       int64
}

func newMockAppointmentStore() *mockAppointmentStore {
	return &mockAppointmentStore{appointments: make(map[int64]*models.Appointment), nextID: 1}
}

func (m *mockAppointmentStore) CreateAppointment(_ context.Context, p models.AppointmentCreateParams) (*models.Appointment, error) {
	a := &models.Appointment{
		ID:              m.nextID,
		PublicID:        uuid.New(),
		ContactID:       p.ContactID,
		LeadID:          p.LeadID,
		Title:           p.Title,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Address:         p.Address,
		Service:         p.Service,
		AssignedTo:      p.AssignedTo,
		Status:          models.AppointmentScheduled,
		CalendarEventID: p.CalendarEventID,
		Notes:           p.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	m.nextID++
	m.appointments[a.ID] = a
	return a, nil
}

func (m *mockAppointmentStore) GetAppointmentByPublicID(_ context.Context, publicID uuid.UUID) (*models.Appointment, error) {
	for _, a := range m.appointments {
		if a.PublicID == publicID {
			return a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockAppointmentStore) UpdateAppointment(_ context.Context, id int64, p models.AppointmentUpdateParams) error {
	a, ok := m.appointments[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Status != "" {
		a.Status = p.Status
	}
	if p.Notes != "" {
		a.Notes = p.Notes
	}
	return nil
}

func (m *mockAppointmentStore) ListAppointments(_ context.Context, _ models.AppointmentQuery) ([]models.Appointment, int, error) {
	out := make([]models.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAppointmentStore) CountUpcomingAppointments(_ context.Context) (int, error) {
	return len(m.appointments), nil
}

type mockEmployeeStore struct {
	employees map[int64]*models.Employee
	nextID    int64
}

func newMockEmployeeStore() *mockEmployeeStore {
	return &mockEmployeeStore{employees: make(map[int64]*models.Employee), nextID: 1}
}

func (m *mockEmployeeStore) CreateEmployee(_ context.Context, e models.Employee) (*models.Employee, error) {
	e.ID = m.nextID
	e.PublicID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()
	m.nextID++
	m.employees[e.ID] = &e
	return &e, nil
}

func (m *mockEmployeeStore) GetEmployeeByName(_ context.Context, name string) (*models.Employee, error) {
	for _, e := range m.employees {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockEmployeeStore) ListEmployees(_ context.Context, activeOnly bool) ([]models.Employee, error) {
	out := make([]models.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if activeOnly && !e.Active {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEmployeeStore) SetEmployeeActive(_ context.Context, id int64, active bool) error {
	e, ok := m.employees[id]
	if !ok {
		return store.ErrNotFound
	}
	e.Active = active
	return nil
}

// fakeSyncer records calendar event creations and deletions.
type fakeSyncer struct {
	calendarIDs []string
	deleted     []string
	createErr   error
}

func (f *fakeSyncer) CreateEvent(_ context.Context, calendarID string, _ calendar.Event) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.calendarIDs = append(f.calendarIDs, calendarID)
	return fmt.Sprintf("evt-%d", len(f.calendarIDs)), nil
}

func (f *fakeSyncer) DeleteEvent(_ context.Context, _, eventID string) error {
	f.deleted = append(f.deleted, eventID)
	return nil
}

// captureSender records outbound email in memory.
type captureSender struct {
	mu      sync.Mutex
	sent    []mail.Email
	sendErr error
}

func (c *captureSender) Send(_ context.Context, e mail.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, e)
	return nil
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

// captureTexter records outbound SMS in memory.
type captureTexter struct {
	mu   sync.Mutex
	sent []string
}

func (c *captureTexter) Send(_ context.Context, to, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, to+": "+body)
	return nil
}

func testTemplates() *mail.Templates {
	return mail.NewTemplates(config.Site{
		BusinessName: "Alpine Outdoor Living",
		Phone:        "(555) 010-0000",
		Email:        "hello@example.com",
		City:         "Boerne",
		State:        "TX",
		BaseURL:      "http://localhost:8080",
		BrandPrimary: "#8C9743",
	})
}

func testAuditor() (*audit.Writer, *mockAgentLogStore) {
	logs := newMockAgentLogStore()
	return audit.NewWriter(logs), logs
}
