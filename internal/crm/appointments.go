package crm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/audit"
	"github.com/conley21p/alpine-outdoor-living/internal/calendar"
	"github.com/conley21p/alpine-outdoor-living/internal/mail"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
	"github.com/conley21p/alpine-outdoor-living/internal/store"
)

// AppointmentService schedules visits, syncs them to Google Calendar and
// sends customer confirmations.
type AppointmentService struct {
	appointments store.AppointmentStore
	contacts     store.ContactStore
	leads        store.LeadStore
	employees    store.EmployeeStore
	syncer       calendar.Syncer
	mailer       mail.Sender
	templates    *mail.Templates
	audit        *audit.Writer

	// ownerCalendarID is the fallback when the assigned employee has no
	// calendar of their own.
	ownerCalendarID string
}

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(
	appointments store.AppointmentStore,
	contacts store.ContactStore,
	leads store.LeadStore,
	employees store.EmployeeStore,
	syncer calendar.Syncer,
	mailer mail.Sender,
	templates *mail.Templates,
	auditor *audit.Writer,
	ownerCalendarID string,
) *AppointmentService {
	return &AppointmentService{
		appointments:    appointments,
		contacts:        contacts,
		leads:           leads,
		employees:       employees,
		syncer:          syncer,
		mailer:          mailer,
		templates:       templates,
		audit:           auditor,
		ownerCalendarID: ownerCalendarID,
	}
}

// ScheduleParams describes a new appointment keyed by public ids.
type ScheduleParams struct {
	ContactPublicID uuid.UUID
	LeadPublicID    uuid.UUID // optional
	Title           string
	StartTime       time.Time
	EndTime         *time.Time
	Address         string
	Service         string
	AssignedTo      string
	Notes           string
}

// Schedule creates an appointment. Calendar sync and the confirmation
// email are best-effort: a calendar outage never loses the booking.
func (s *AppointmentService) Schedule(ctx context.Context, p ScheduleParams) (*models.Appointment, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Address = strings.TrimSpace(p.Address)
	p.Service = strings.TrimSpace(p.Service)
	p.AssignedTo = strings.TrimSpace(p.AssignedTo)
	if p.Title == "" {
		return nil, invalidf("title", "is required")
	}
	if p.StartTime.IsZero() {
		return nil, invalidf("startTime", "is required")
	}

	contact, err := s.contacts.GetContactByPublicID(ctx, p.ContactPublicID)
	if err != nil {
		return nil, err
	}

	var leadID int64
	if p.LeadPublicID != uuid.Nil {
		lead, err := s.leads.GetLeadByPublicID(ctx, p.LeadPublicID)
		if err != nil {
			return nil, err
		}
		leadID = lead.ID
	}

	eventID := s.syncToCalendar(ctx, p, contact)

	appt, err := s.appointments.CreateAppointment(ctx, models.AppointmentCreateParams{
		ContactID:       contact.ID,
		LeadID:          leadID,
		Title:           p.Title,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Address:         p.Address,
		Service:         p.Service,
		AssignedTo:      p.AssignedTo,
		Notes:           p.Notes,
		CalendarEventID: eventID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "appointment_scheduled",
		EntityType:  models.EntityAppointment,
		EntityID:    appt.PublicID.String(),
		Description: fmt.Sprintf("Scheduled %q for %s", p.Title, contact.FullName()),
		Metadata:    audit.AppointmentMetadata{CalendarEventID: eventID},
	})

	s.sendConfirmation(ctx, contact, appt)
	return appt, nil
}

// syncToCalendar creates the Google Calendar event on the assigned
// employee's calendar, falling back to the owner's. Returns the event id,
// or empty on any failure.
func (s *AppointmentService) syncToCalendar(ctx context.Context, p ScheduleParams, contact *models.Contact) string {
	calendarID := s.calendarFor(ctx, p.AssignedTo)
	if calendarID == "" {
		return ""
	}

	end := p.StartTime.Add(time.Hour)
	if p.EndTime != nil {
		end = *p.EndTime
	}
	eventID, err := s.syncer.CreateEvent(ctx, calendarID, calendar.Event{
		Title:       p.Title,
		Description: fmt.Sprintf("Customer: %s\nPhone: %s\nService: %s\n%s", contact.FullName(), contact.Phone, p.Service, p.Notes),
		Location:    p.Address,
		Start:       p.StartTime,
		End:         end,
	})
	if err != nil {
		slog.ErrorContext(ctx, "calendar sync failed", "error", err)
		return ""
	}
	return eventID
}

// calendarFor resolves the target calendar: the assigned employee's when
// they have one, the owner's otherwise.
func (s *AppointmentService) calendarFor(ctx context.Context, assignedTo string) string {
	calendarID := s.ownerCalendarID
	if assignedTo != "" {
		emp, err := s.employees.GetEmployeeByName(ctx, assignedTo)
		switch {
		case err == nil && emp.CalendarID != "":
			calendarID = emp.CalendarID
		case err != nil && !errors.Is(err, store.ErrNotFound):
			slog.ErrorContext(ctx, "failed to look up assigned employee", "assigned_to", assignedTo, "error", err)
		}
	}
	return calendarID
}

func (s *AppointmentService) sendConfirmation(ctx context.Context, contact *models.Contact, appt *models.Appointment) {
	if contact.Email == "" {
		return
	}
	msg := s.templates.AppointmentConfirmation(mail.AppointmentParams{
		Name:     contact.FullName(),
		Title:    appt.Title,
		When:     appt.StartTime.Format("Monday, January 2 at 3:04 PM"),
		Location: appt.Address,
	})
	if err := s.mailer.Send(ctx, mail.Email{
		ToEmail:  contact.Email,
		ToName:   contact.FullName(),
		Subject:  msg.Subject,
		BodyHTML: msg.BodyHTML,
		BodyText: msg.BodyText,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send appointment confirmation", "error", err)
	}
}

// Get fetches one appointment by public id.
func (s *AppointmentService) Get(ctx context.Context, publicID uuid.UUID) (*models.Appointment, error) {
	return s.appointments.GetAppointmentByPublicID(ctx, publicID)
}

// Update applies changes to an appointment, validating any status value.
func (s *AppointmentService) Update(ctx context.Context, publicID uuid.UUID, params models.AppointmentUpdateParams) (*models.Appointment, error) {
	appt, err := s.appointments.GetAppointmentByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	params.Status = strings.TrimSpace(params.Status)
	if params.Status != "" && !models.ValidAppointmentStatus(params.Status) {
		return nil, invalidf("status", "unknown status %q", params.Status)
	}
	priorStatus := appt.Status

	if err := s.appointments.UpdateAppointment(ctx, appt.ID, params); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	// Cancellation takes the event off the calendar. Best-effort, like sync.
	if params.Status == models.AppointmentCancelled && priorStatus != models.AppointmentCancelled && appt.CalendarEventID != "" {
		calendarID := s.calendarFor(ctx, appt.AssignedTo)
		if calendarID != "" {
			if err := s.syncer.DeleteEvent(ctx, calendarID, appt.CalendarEventID); err != nil {
				slog.ErrorContext(ctx, "failed to remove calendar event", "event_id", appt.CalendarEventID, "error", err)
			}
		}
	}

	updated, err := s.appointments.GetAppointmentByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	if params.Status != "" && params.Status != priorStatus {
		changes["status"] = priorStatus + " -> " + params.Status
	}
	s.audit.MustWrite(ctx, audit.Entry{
		Action:      "appointment_updated",
		EntityType:  models.EntityAppointment,
		EntityID:    updated.PublicID.String(),
		Description: "Updated appointment " + updated.Title,
		Metadata:    audit.AppointmentMetadata{Updates: changes},
	})
	return updated, nil
}

// List returns a page of appointments.
func (s *AppointmentService) List(ctx context.Context, q models.AppointmentQuery) ([]models.Appointment, int, error) {
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)
	return s.appointments.ListAppointments(ctx, q)
}
