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

type CancelAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	enqueuer *tasks.Enqueuer
	txBound  time.Duration
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	enqueuer *tasks.Enqueuer,
	txBound time.Duration,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		audit:    audit,
		enqueuer: enqueuer,
		txBound:  txBound,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID uint,
	actorRole string,
) (*models.Appointment, error) {

	// 1. Appointment must exist
	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound,
				"Appointment not found.")
		}
		return nil, err
	}

	// 2. Counselors may only touch their own appointments
	if actorRole != models.RoleAdmin && ap.CounselorID != actorID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden,
			"You may only manage your own appointments.")
	}

	// 3. Status guard, then flip to CANCELLED
	if err := domain.Cancel(ap); err != nil {
		return nil, err
	}

	// 4. Persist and free the slot in one bounded transaction
	err = retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()
		return uc.repo.CancelAppointment(txCtx, ap)
	})
	if err != nil {
		return nil, err
	}

	// 5. Calendar cleanup after commit
	if ap.CalendarEventID != "" {
		uc.enqueuer.CalendarEventCancel(tasks.CalendarEventCancelPayload{
			AppointmentID: ap.ID,
			EventID:       ap.CalendarEventID,
		})
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
