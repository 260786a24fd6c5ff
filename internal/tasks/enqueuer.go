package tasks

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Queue is satisfied by *asynq.Client.
type Queue interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer pushes side-effect tasks after the booking transaction has
// committed. Failures are logged with the appointment id and swallowed:
// a lost side effect must never fail or roll back a committed booking.
type Enqueuer struct {
	queue Queue
	log   *zap.Logger
}

func NewEnqueuer(queue Queue, log *zap.Logger) *Enqueuer {
	return &Enqueuer{queue: queue, log: log}
}

func (e *Enqueuer) enqueue(task *asynq.Task, err error, appointmentID uint, op string) {
	if err == nil {
		_, err = e.queue.Enqueue(task, asynq.MaxRetry(5))
	}
	if err != nil {
		e.log.Error("failed to enqueue side effect",
			zap.String("operation", op),
			zap.Uint("appointment_id", appointmentID),
			zap.Error(err))
	}
}

func (e *Enqueuer) CalendarEventCreate(p CalendarEventCreatePayload) {
	task, err := NewCalendarEventCreateTask(p)
	e.enqueue(task, err, p.AppointmentID, TypeCalendarEventCreate)
}

func (e *Enqueuer) CalendarEventCancel(p CalendarEventCancelPayload) {
	task, err := NewCalendarEventCancelTask(p)
	e.enqueue(task, err, p.AppointmentID, TypeCalendarEventCancel)
}

func (e *Enqueuer) CalendarEventReschedule(p CalendarEventReschedulePayload) {
	task, err := NewCalendarEventRescheduleTask(p)
	e.enqueue(task, err, p.AppointmentID, TypeCalendarEventReschedule)
}

func (e *Enqueuer) SendEmail(appointmentID uint, p SendEmailPayload) {
	task, err := NewSendEmailTask(p)
	e.enqueue(task, err, appointmentID, TypeSendEmail)
}
