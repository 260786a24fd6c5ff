package calendar

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

// ListAvailability is the public read: the open slots a counselor still
// has on a given day. A day with no calendar simply has none.
type ListAvailability struct {
	repo domain.Repository
}

func NewListAvailability(repo domain.Repository) *ListAvailability {
	return &ListAvailability{repo: repo}
}

func (uc *ListAvailability) Execute(
	ctx context.Context,
	counselorID uint,
	dateStr string,
) ([]models.TimeSlot, error) {

	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate,
			"Date must be in YYYY-MM-DD format.")
	}

	if _, err := uc.repo.GetCounselorByID(ctx, counselorID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeCounselorNotFound,
				"Counselor not found.")
		}
		return nil, err
	}

	cal, err := uc.repo.GetCalendarByDate(ctx, counselorID, date)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return []models.TimeSlot{}, nil
		}
		return nil, err
	}

	slots, err := uc.repo.ListSlots(ctx, cal.ID)
	if err != nil {
		return nil, err
	}

	open := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		if s.Status == models.SlotAvailable {
			open = append(open, s)
		}
	}
	return open, nil
}
