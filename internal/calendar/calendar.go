// Package calendar syncs appointments to Google Calendar using a service
// account. Sync failures are reported but never block scheduling.
package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2/jwt"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the calendar-facing view of an appointment.
type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Syncer pushes events to an external calendar.
type Syncer interface {
	CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// NoopSyncer skips calendar sync entirely.
type NoopSyncer struct{}

func (NoopSyncer) CreateEvent(context.Context, string, Event) (string, error) { return "", nil }
func (NoopSyncer) DeleteEvent(context.Context, string, string) error          { return nil }

// GoogleSyncer talks to the Google Calendar API with service account
// credentials. The service account must be granted access to each target
// calendar by its owner.
type GoogleSyncer struct {
	svc      *gcal.Service
	timezone string
}

// NewGoogleSyncer builds a GoogleSyncer from a service account email and
// PEM private key.
func NewGoogleSyncer(ctx context.Context, accountEmail, privateKey, timezone string) (*GoogleSyncer, error) {
	conf := &jwt.Config{
		Email:      accountEmail,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{gcal.CalendarEventsScope},
		TokenURL:   "https://oauth2.googleapis.com/token",
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if timezone == "" {
		timezone = "America/Chicago"
	}
	return &GoogleSyncer{svc: svc, timezone: timezone}, nil
}

// CreateEvent inserts the event and returns its Google event ID.
func (g *GoogleSyncer) CreateEvent(ctx context.Context, calendarID string, ev Event) (string, error) {
	end := ev.End
	if !end.After(ev.Start) {
		end = ev.Start.Add(time.Hour)
	}

	created, err := g.svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return created.Id, nil
}

// DeleteEvent removes a previously synced event.
func (g *GoogleSyncer) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}
