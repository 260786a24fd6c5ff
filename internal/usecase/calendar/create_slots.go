package calendar

import (
	"context"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateSlotsInput struct {
	CalendarID  uint
	CounselorID uint
	ActorRole   string
	Slots       []SlotRequest
}

// ======================================================
// USE CASE
// ======================================================

type CreateSlots struct {
	repo            domain.Repository
	audit           *audit.Dispatcher
	defaultMinSlots int
}

func NewCreateSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	defaultMinSlots int,
) *CreateSlots {
	return &CreateSlots{
		repo:            repo,
		audit:           audit,
		defaultMinSlots: defaultMinSlots,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSlots) Execute(
	ctx context.Context,
	in CreateSlotsInput,
) (int, error) {

	// 1. Calendar must exist and belong to the counselor
	cal, err := uc.repo.GetCalendarForCounselor(ctx, in.CalendarID, in.CounselorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, httperr.ErrBusiness(httperr.CodeCalendarNotFound,
				"Calendar not found.")
		}
		return 0, err
	}

	// 2. Existing slots for overlap checks
	existing, err := uc.repo.ListSlots(ctx, cal.ID)
	if err != nil {
		return 0, err
	}

	// 3. Validate the batch
	validated, err := validateBatch(cal.Date, existing, in.Slots, timezone.Now())
	if err != nil {
		return 0, err
	}

	// 4. First-ever batch for the day enforces the per-counselor floor;
	//    administrators bypass it.
	if len(existing) == 0 && in.ActorRole != models.RoleAdmin {
		counselor, err := uc.repo.GetCounselorByID(ctx, in.CounselorID)
		if err != nil {
			return 0, err
		}
		if err := checkMinimumFloor(len(validated), minSlotsFor(counselor, uc.defaultMinSlots)); err != nil {
			return 0, err
		}
	}

	// 5. Bulk insert, all AVAILABLE
	count, err := uc.repo.InsertSlots(ctx, cal.ID, validated)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.CounselorID,
		Action:   "slots_created",
		Entity:   "calendar",
		EntityID: &cal.ID,
		Metadata: map[string]any{"count": count},
	})

	return count, nil
}
