package appointment

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
)

type RescheduleAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	enqueuer *tasks.Enqueuer
	txBound  time.Duration
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	enqueuer *tasks.Enqueuer,
	txBound time.Duration,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:     repo,
		audit:    audit,
		enqueuer: enqueuer,
		txBound:  txBound,
	}
}

// Execute moves a live appointment onto another of the same counselor's
// open slots. The old slot is released and the new one claimed in the
// same transaction, so no state where both (or neither) are held is
// ever visible.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	newSlotID uint,
	actorID uint,
	actorRole string,
) (*models.Appointment, error) {

	// 1. Appointment must exist and belong to the actor
	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound,
				"Appointment not found.")
		}
		return nil, err
	}
	if actorRole != models.RoleAdmin && ap.CounselorID != actorID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden,
			"You may only manage your own appointments.")
	}

	// 2. Status guard before any slot work
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	// 3. Target slot: same counselor, currently open
	newSlot, newCal, err := uc.repo.GetSlotWithCalendar(ctx, newSlotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound,
				"Slot not found.")
		}
		return nil, err
	}
	if newCal.CounselorID != ap.CounselorID {
		return nil, httperr.ErrBusiness(httperr.CodeCounselorMismatch,
			"Slot does not belong to the appointment's counselor.")
	}
	if newSlot.Status != models.SlotAvailable {
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable,
			"Slot is no longer available.")
	}

	oldSlotID := ap.TimeSlotID

	// 4. Rebind, then swap the slots atomically
	if err := domain.Reschedule(ap, newSlot, newCal.Date); err != nil {
		return nil, err
	}

	err = retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()
		return uc.repo.RescheduleAppointment(txCtx, ap, oldSlotID, newSlotID)
	})
	if err != nil {
		return nil, err
	}

	// 5. Move the external event after commit
	if ap.CalendarEventID != "" {
		uc.enqueuer.CalendarEventReschedule(tasks.CalendarEventReschedulePayload{
			AppointmentID: ap.ID,
			EventID:       ap.CalendarEventID,
			Date:          newCal.Date.Format("2006-01-02"),
			StartTime:     newSlot.StartTime,
			EndTime:       newSlot.EndTime,
		})
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"old_slot_id": oldSlotID, "new_slot_id": newSlotID},
	})

	return ap, nil
}
