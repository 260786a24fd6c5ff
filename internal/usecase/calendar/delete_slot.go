package calendar

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

type DeleteSlot struct {
	repo            domain.Repository
	audit           *audit.Dispatcher
	defaultMinSlots int
}

func NewDeleteSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	defaultMinSlots int,
) *DeleteSlot {
	return &DeleteSlot{
		repo:            repo,
		audit:           audit,
		defaultMinSlots: defaultMinSlots,
	}
}

func (uc *DeleteSlot) Execute(
	ctx context.Context,
	counselorID uint,
	slotID uint,
	actorRole string,
) (*models.TimeSlot, error) {

	// 1. Slot must exist and belong to the counselor
	slot, err := uc.repo.GetSlotForCounselor(ctx, slotID, counselorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound,
				"Slot not found.")
		}
		return nil, err
	}

	// 2. Removal must not drop the day below the floor
	if actorRole != models.RoleAdmin {
		counselor, err := uc.repo.GetCounselorByID(ctx, counselorID)
		if err != nil {
			return nil, err
		}

		count, err := uc.repo.CountSlots(ctx, slot.CalendarID)
		if err != nil {
			return nil, err
		}

		minSlots := minSlotsFor(counselor, uc.defaultMinSlots)
		if count-1 < int64(minSlots) {
			return nil, httperr.ErrBusinessf(httperr.CodeBelowMinimum,
				"Deleting this slot would leave %d slots; at least %d are required.",
				count-1, minSlots)
		}
	}

	// 3. Guarded delete: only AVAILABLE slots may go
	if err := uc.repo.DeleteAvailableSlot(ctx, slotID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &counselorID,
		Action:   "slot_deleted",
		Entity:   "time_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
