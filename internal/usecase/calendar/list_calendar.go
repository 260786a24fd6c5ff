package calendar

import (
	"context"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
)

type ListCalendarDates struct {
	repo domain.Repository
}

func NewListCalendarDates(repo domain.Repository) *ListCalendarDates {
	return &ListCalendarDates{repo: repo}
}

func (uc *ListCalendarDates) Execute(
	ctx context.Context,
	counselorID uint,
) ([]domain.Summary, error) {
	return uc.repo.ListSummaries(ctx, counselorID)
}
