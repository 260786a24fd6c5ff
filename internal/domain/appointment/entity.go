package appointment

import (
	"time"

	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	return nil
}

func Complete(ap *models.Appointment) {
	// Unconditional: completion has no slot interaction and no guard.
	ap.Status = string(StatusCompleted)
}

// Reschedule rebinds the appointment to a new slot. The slot-side
// transitions are performed by the repository inside the same
// transaction that persists this change.
func Reschedule(ap *models.Appointment, newSlot *models.TimeSlot, newDate time.Time) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.TimeSlotID = newSlot.ID
	ap.Date = newDate
	ap.Status = string(StatusConfirmed)
	ap.IsRescheduled = true
	return nil
}

// MeetingFor builds the meeting-link row written alongside a booking's
// confirmation. In-person sessions have no link, so it returns nil.
func MeetingFor(ap *models.Appointment) *models.Meeting {
	if ap.Kind != models.SessionOnline {
		return nil
	}
	return &models.Meeting{
		AppointmentID: ap.ID,
		Provider:      "mindhaven",
		JoinURL:       "https://meet.mindhaven.care/" + ap.ReferenceCode,
	}
}
