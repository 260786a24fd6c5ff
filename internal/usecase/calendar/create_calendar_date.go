package calendar

import (
	"context"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

type CreateCalendarDate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateCalendarDate(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateCalendarDate {
	return &CreateCalendarDate{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateCalendarDate) Execute(
	ctx context.Context,
	counselorID uint,
	dateStr string,
) (*models.Calendar, error) {

	date, err := timezone.ParseDate(dateStr)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate,
			"Date must be in YYYY-MM-DD format.")
	}

	if date.Before(timezone.Today()) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate,
			"Cannot create a calendar for a past date.")
	}

	cal, err := uc.repo.CreateCalendar(ctx, counselorID, date)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &counselorID,
		Action:   "calendar_date_created",
		Entity:   "calendar",
		EntityID: &cal.ID,
	})

	return cal, nil
}
