package appointment

import (
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = models.AppointmentPending
	StatusConfirmed Status = models.AppointmentConfirmed
	StatusCancelled Status = models.AppointmentCancelled
	StatusCompleted Status = models.AppointmentCompleted
	StatusDeleted   Status = models.AppointmentDeleted
)

// ===============================
// Slot Status
// ===============================

type SlotStatus string

const (
	SlotAvailable  SlotStatus = models.SlotAvailable
	SlotProcessing SlotStatus = models.SlotProcessing
	SlotBooked     SlotStatus = models.SlotBooked
)

// ===============================
// Validations
// ===============================

// CanCancel guards the CONFIRMED/PENDING → CANCELLED branch.
func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled,
			"Appointment is already cancelled.")
	case StatusCompleted:
		return httperr.ErrBusiness(httperr.CodeCannotCancelCompleted,
			"A completed appointment cannot be cancelled.")
	}
	return nil
}

// CanReschedule blocks terminal states from being moved to a new slot.
func CanReschedule(current Status) error {
	if current == StatusCancelled || current == StatusCompleted {
		return httperr.ErrBusinessf(httperr.CodeStatusBlocked,
			"Appointment in status %s cannot be rescheduled.", current)
	}
	return nil
}
