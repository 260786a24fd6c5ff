package appointment

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{repo: repo, audit: audit}
}

// Execute marks the session as held. Completion is a terminal
// bookkeeping write and is accepted from any prior state.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	actorID uint,
	actorRole string,
) (*models.Appointment, error) {

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

	domain.Complete(ap)

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
