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

type DayRequest struct {
	Date  string        `json:"date" binding:"required"` // YYYY-MM-DD
	Slots []SlotRequest `json:"slots" binding:"required"`
}

type CreateSlotsWithDatesInput struct {
	CounselorID uint
	ActorRole   string
	Days        []DayRequest
}

// ======================================================
// USE CASE
// ======================================================

type CreateSlotsWithDates struct {
	repo            domain.Repository
	audit           *audit.Dispatcher
	defaultMinSlots int
}

func NewCreateSlotsWithDates(
	repo domain.Repository,
	audit *audit.Dispatcher,
	defaultMinSlots int,
) *CreateSlotsWithDates {
	return &CreateSlotsWithDates{
		repo:            repo,
		audit:           audit,
		defaultMinSlots: defaultMinSlots,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute validates every day up front, then inserts the whole multi-day
// batch (creating missing Calendar rows on demand) in one transaction,
// so a violation on day N persists nothing from days 1..N-1.
func (uc *CreateSlotsWithDates) Execute(
	ctx context.Context,
	in CreateSlotsWithDatesInput,
) (int, error) {

	counselor, err := uc.repo.GetCounselorByID(ctx, in.CounselorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, httperr.ErrBusiness(httperr.CodeCounselorNotFound,
				"Counselor not found.")
		}
		return 0, err
	}

	minSlots := minSlotsFor(counselor, uc.defaultMinSlots)
	now := timezone.Now()
	today := timezone.Today()

	days := make([]domain.DayInput, 0, len(in.Days))

	for _, day := range in.Days {
		date, err := timezone.ParseDate(day.Date)
		if err != nil {
			return 0, httperr.ErrBusinessf(httperr.CodeInvalidDate,
				"Date %q must be in YYYY-MM-DD format.", day.Date)
		}
		if date.Before(today) {
			return 0, httperr.ErrBusinessf(httperr.CodeInvalidDate,
				"Cannot publish slots for past date %s.", day.Date)
		}

		// Reuse an existing calendar for the day when present.
		var existing []models.TimeSlot
		cal, err := uc.repo.GetCalendarByDate(ctx, in.CounselorID, date)
		if err != nil && err != gorm.ErrRecordNotFound {
			return 0, err
		}
		if cal != nil {
			existing, err = uc.repo.ListSlots(ctx, cal.ID)
			if err != nil {
				return 0, err
			}
		}

		validated, err := validateBatch(date, existing, day.Slots, now)
		if err != nil {
			return 0, err
		}

		if len(existing) == 0 && in.ActorRole != models.RoleAdmin {
			if err := checkMinimumFloor(len(validated), minSlots); err != nil {
				return 0, err
			}
		}

		days = append(days, domain.DayInput{Date: date, Slots: validated})
	}

	count, err := uc.repo.InsertDays(ctx, in.CounselorID, days)
	if err != nil {
		return 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.CounselorID,
		Action:   "slot_days_created",
		Entity:   "calendar",
		Metadata: map[string]any{"days": len(days), "slots": count},
	})

	return count, nil
}
