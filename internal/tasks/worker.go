package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/mindhaven-care/counsel-scheduler/internal/schedule"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

// CalendarSync is the external calendar collaborator. All calls are
// best-effort and happen strictly after the booking transaction commits.
type CalendarSync interface {
	CreateEvent(ctx context.Context, in EventDetails) (string, error)
	CancelEvent(ctx context.Context, eventID string) error
	RescheduleEvent(ctx context.Context, eventID string, start, end time.Time) error
}

type EventDetails struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// EventRecorder stores the external event id back on the appointment so
// later cancel/reschedule tasks can address it.
type EventRecorder interface {
	SetCalendarEventID(ctx context.Context, appointmentID uint, eventID string) error
}

type WorkerDeps struct {
	Calendar CalendarSync
	Mailer   Mailer
	Recorder EventRecorder
	Log      *zap.Logger
}

// StartWorker runs the asynq server in the background, retrying startup
// with backoff the way the rest of the process treats redis: degraded,
// never fatal at first failure.
func StartWorker(redisOpt asynq.RedisClientOpt, deps WorkerDeps) *asynq.Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCalendarEventCreate, handleCalendarEventCreate(deps))
	mux.HandleFunc(TypeCalendarEventCancel, handleCalendarEventCancel(deps))
	mux.HandleFunc(TypeCalendarEventReschedule, handleCalendarEventReschedule(deps))
	mux.HandleFunc(TypeSendEmail, handleSendEmail(deps))

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			deps.Log.Error("task worker failed to start",
				zap.Int("attempt", attempt),
				zap.Error(err))
			if attempt == maxAttempts {
				deps.Log.Error("task worker giving up; side effects will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()

	return srv
}

func eventWindow(dateStr, startStr, endStr string) (time.Time, time.Time, error) {
	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, ok := schedule.ParseTimeOfDay(startStr)
	if !ok {
		return time.Time{}, time.Time{}, errBadPayloadTime
	}
	end, ok := schedule.ParseTimeOfDay(endStr)
	if !ok {
		return time.Time{}, time.Time{}, errBadPayloadTime
	}

	loc := timezone.Location()
	return start.At(date, loc), end.At(date, loc), nil
}

var errBadPayloadTime = errBad("unparseable time in task payload")

type errBad string

func (e errBad) Error() string { return string(e) }

func handleCalendarEventCreate(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if deps.Calendar == nil {
			return nil
		}

		var p CalendarEventCreatePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			deps.Log.Error("invalid calendar create payload", zap.Error(err))
			return err
		}

		start, end, err := eventWindow(p.Date, p.StartTime, p.EndTime)
		if err != nil {
			deps.Log.Error("invalid event window",
				zap.Uint("appointment_id", p.AppointmentID),
				zap.Error(err))
			return err
		}

		eventID, err := deps.Calendar.CreateEvent(ctx, EventDetails{
			Summary:     "Counseling session: " + p.ClientName,
			Description: "Session kind: " + p.Kind,
			Start:       start,
			End:         end,
			Attendees:   []string{p.CounselorEmail, p.ClientEmail},
		})
		if err != nil {
			deps.Log.Error("calendar event creation failed",
				zap.Uint("appointment_id", p.AppointmentID),
				zap.Error(err))
			return err
		}

		if deps.Recorder != nil {
			if err := deps.Recorder.SetCalendarEventID(ctx, p.AppointmentID, eventID); err != nil {
				deps.Log.Error("failed to record calendar event id",
					zap.Uint("appointment_id", p.AppointmentID),
					zap.Error(err))
			}
		}
		return nil
	}
}

func handleCalendarEventCancel(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if deps.Calendar == nil {
			return nil
		}

		var p CalendarEventCancelPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			deps.Log.Error("invalid calendar cancel payload", zap.Error(err))
			return err
		}

		if err := deps.Calendar.CancelEvent(ctx, p.EventID); err != nil {
			deps.Log.Error("calendar event cancel failed",
				zap.Uint("appointment_id", p.AppointmentID),
				zap.String("event_id", p.EventID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleCalendarEventReschedule(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if deps.Calendar == nil {
			return nil
		}

		var p CalendarEventReschedulePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			deps.Log.Error("invalid calendar reschedule payload", zap.Error(err))
			return err
		}

		start, end, err := eventWindow(p.Date, p.StartTime, p.EndTime)
		if err != nil {
			deps.Log.Error("invalid event window",
				zap.Uint("appointment_id", p.AppointmentID),
				zap.Error(err))
			return err
		}

		if err := deps.Calendar.RescheduleEvent(ctx, p.EventID, start, end); err != nil {
			deps.Log.Error("calendar event reschedule failed",
				zap.Uint("appointment_id", p.AppointmentID),
				zap.String("event_id", p.EventID),
				zap.Error(err))
			return err
		}
		return nil
	}
}

func handleSendEmail(deps WorkerDeps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if deps.Mailer == nil {
			return nil
		}

		var p SendEmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			deps.Log.Error("invalid email payload", zap.Error(err))
			return err
		}

		if err := deps.Mailer.Send(p.To, p.Subject, p.HTMLBody); err != nil {
			deps.Log.Error("email send failed",
				zap.String("to", p.To),
				zap.Error(err))
			return err
		}
		return nil
	}
}
