// Package gcal implements the external calendar collaborator on top of
// the Google Calendar API.
package gcal

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

type Service struct {
	svc        *calendar.Service
	calendarID string
}

func New(ctx context.Context, credentialsJSON string) (*Service, error) {
	if credentialsJSON == "" {
		return nil, errors.New("gcal: missing credentials")
	}

	svc, err := calendar.NewService(ctx,
		option.WithCredentialsJSON([]byte(credentialsJSON)),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, err
	}

	return &Service{svc: svc, calendarID: "primary"}, nil
}

func (s *Service) CreateEvent(ctx context.Context, in tasks.EventDetails) (string, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(in.Attendees))
	for _, email := range in.Attendees {
		if email == "" {
			continue
		}
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}

	ev := &calendar.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start: &calendar.EventDateTime{
			DateTime: in.Start.Format(time.RFC3339),
			TimeZone: timezone.BusinessTimezone,
		},
		End: &calendar.EventDateTime{
			DateTime: in.End.Format(time.RFC3339),
			TimeZone: timezone.BusinessTimezone,
		},
		Attendees: attendees,
	}

	created, err := s.svc.Events.Insert(s.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (s *Service) CancelEvent(ctx context.Context, eventID string) error {
	return s.svc.Events.Delete(s.calendarID, eventID).Context(ctx).Do()
}

func (s *Service) RescheduleEvent(ctx context.Context, eventID string, start, end time.Time) error {
	patch := &calendar.Event{
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timezone.BusinessTimezone,
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timezone.BusinessTimezone,
		},
	}

	_, err := s.svc.Events.Patch(s.calendarID, eventID, patch).Context(ctx).Do()
	return err
}

// Compile-time check
var _ tasks.CalendarSync = (*Service)(nil)
