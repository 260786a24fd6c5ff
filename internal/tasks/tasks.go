// Package tasks defines the durable post-commit side-effect queue.
// Booking transactions never call external systems; they enqueue one of
// these tasks after commit and the worker drives the collaborators.
package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeCalendarEventCreate     = "calendar:event:create"
	TypeCalendarEventCancel     = "calendar:event:cancel"
	TypeCalendarEventReschedule = "calendar:event:reschedule"
	TypeSendEmail               = "email:send"
)

type CalendarEventCreatePayload struct {
	AppointmentID  uint   `json:"appointment_id"`
	CounselorName  string `json:"counselor_name"`
	CounselorEmail string `json:"counselor_email"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date"` // YYYY-MM-DD, business timezone
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Kind           string `json:"kind"`
}

type CalendarEventCancelPayload struct {
	AppointmentID uint   `json:"appointment_id"`
	EventID       string `json:"event_id"`
}

type CalendarEventReschedulePayload struct {
	AppointmentID uint   `json:"appointment_id"`
	EventID       string `json:"event_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type SendEmailPayload struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

func NewCalendarEventCreateTask(p CalendarEventCreatePayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarEventCreate, b), nil
}

func NewCalendarEventCancelTask(p CalendarEventCancelPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarEventCancel, b), nil
}

func NewCalendarEventRescheduleTask(p CalendarEventReschedulePayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCalendarEventReschedule, b), nil
}

func NewSendEmailTask(p SendEmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendEmail, b), nil
}
