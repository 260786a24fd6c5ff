package calendar

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

func newDeleteSlotRepo(count int64) *mockCalendarRepo {
	return &mockCalendarRepo{
		getSlotForCounselorFn: func(ctx context.Context, slotID, counselorID uint) (*models.TimeSlot, error) {
			return &models.TimeSlot{
				ID:         slotID,
				CalendarID: 1,
				StartTime:  "9:00 AM",
				EndTime:    "10:00 AM",
				Status:     models.SlotAvailable,
			}, nil
		},
		getCounselorByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleCounselor}, nil
		},
		countSlotsFn: func(ctx context.Context, calendarID uint) (int64, error) {
			return count, nil
		},
		deleteAvailableSlotFn: func(ctx context.Context, slotID uint) error {
			return nil
		},
	}
}

func TestDeleteSlotAboveFloor(t *testing.T) {
	uc := NewDeleteSlot(newDeleteSlotRepo(7), testDispatcher(), 6)

	slot, err := uc.Execute(context.Background(), 7, 42, models.RoleCounselor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.ID != 42 {
		t.Errorf("slot.ID = %d, want 42", slot.ID)
	}
}

func TestDeleteSlotBelowFloor(t *testing.T) {
	uc := NewDeleteSlot(newDeleteSlotRepo(6), testDispatcher(), 6)

	_, err := uc.Execute(context.Background(), 7, 42, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeBelowMinimum) {
		t.Fatalf("expected below_minimum, got %v", err)
	}
}

func TestDeleteSlotAdminBypassesFloor(t *testing.T) {
	uc := NewDeleteSlot(newDeleteSlotRepo(6), testDispatcher(), 6)

	if _, err := uc.Execute(context.Background(), 7, 42, models.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteSlotNotFound(t *testing.T) {
	repo := newDeleteSlotRepo(7)
	repo.getSlotForCounselorFn = func(ctx context.Context, slotID, counselorID uint) (*models.TimeSlot, error) {
		return nil, gorm.ErrRecordNotFound
	}
	uc := NewDeleteSlot(repo, testDispatcher(), 6)

	_, err := uc.Execute(context.Background(), 7, 42, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeSlotNotFound) {
		t.Fatalf("expected slot_not_found, got %v", err)
	}
}

func TestDeleteSlotGuardFailureSurfaces(t *testing.T) {
	repo := newDeleteSlotRepo(7)
	repo.deleteAvailableSlotFn = func(ctx context.Context, slotID uint) error {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable, "Slot is no longer available.")
	}
	uc := NewDeleteSlot(repo, testDispatcher(), 6)

	_, err := uc.Execute(context.Background(), 7, 42, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
}
