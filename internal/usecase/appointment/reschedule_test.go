package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

func rescheduleRepo(apStatus, newSlotStatus string) *mockRepo {
	return &mockRepo{
		getAppointmentByIDFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			return &models.Appointment{
				ID:          id,
				CounselorID: 7,
				TimeSlotID:  5,
				Status:      apStatus,
				Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			}, nil
		},
		getSlotWithCalendarFn: func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
			return &models.TimeSlot{
					ID:         slotID,
					CalendarID: 2,
					StartTime:  "2:00 PM",
					EndTime:    "3:00 PM",
					Kind:       models.SessionOnline,
					Status:     newSlotStatus,
				}, &models.Calendar{
					ID:          2,
					CounselorID: 7,
					Date:        time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
				}, nil
		},
		rescheduleAppointmentFn: func(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error {
			return nil
		},
	}
}

func newRescheduleUC(repo *mockRepo) *RescheduleAppointment {
	enq, _ := testEnqueuer()
	return NewRescheduleAppointment(repo, testDispatcher(), enq, 10*time.Second)
}

func TestRescheduleSwapsSlots(t *testing.T) {
	var gotOld, gotNew uint
	repo := rescheduleRepo(models.AppointmentConfirmed, models.SlotAvailable)
	repo.rescheduleAppointmentFn = func(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error {
		gotOld, gotNew = oldSlotID, newSlotID
		return nil
	}

	ap, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotOld != 5 || gotNew != 9 {
		t.Errorf("slot swap = (%d → %d), want (5 → 9)", gotOld, gotNew)
	}
	if ap.TimeSlotID != 9 {
		t.Errorf("TimeSlotID = %d, want 9", ap.TimeSlotID)
	}
	if ap.Status != models.AppointmentConfirmed {
		t.Errorf("status = %s, want CONFIRMED", ap.Status)
	}
	if !ap.IsRescheduled {
		t.Error("expected IsRescheduled = true")
	}
	if !ap.Date.Equal(time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date not moved to the new slot's day: %v", ap.Date)
	}
}

func TestReschedulePendingBecomesConfirmed(t *testing.T) {
	repo := rescheduleRepo(models.AppointmentPending, models.SlotAvailable)

	ap, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ap.Status != models.AppointmentConfirmed {
		t.Errorf("status = %s, want CONFIRMED", ap.Status)
	}
}

func TestRescheduleBlockedStates(t *testing.T) {
	for _, status := range []string{models.AppointmentCancelled, models.AppointmentCompleted} {
		repo := rescheduleRepo(status, models.SlotAvailable)

		_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
		if !httperr.IsBusiness(err, httperr.CodeStatusBlocked) {
			t.Errorf("status %s: expected status_blocked, got %v", status, err)
		}
	}
}

func TestRescheduleGuardRunsBeforeSlotWork(t *testing.T) {
	repo := rescheduleRepo(models.AppointmentCancelled, models.SlotAvailable)
	repo.getSlotWithCalendarFn = func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
		t.Fatal("slot lookup reached for a blocked appointment")
		return nil, nil, nil
	}
	repo.rescheduleAppointmentFn = func(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error {
		t.Fatal("slot swap reached for a blocked appointment")
		return nil
	}

	_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeStatusBlocked) {
		t.Fatalf("expected status_blocked, got %v", err)
	}
}

func TestRescheduleSurfacesLateGuardFailure(t *testing.T) {
	attempts := 0
	repo := rescheduleRepo(models.AppointmentConfirmed, models.SlotAvailable)
	repo.rescheduleAppointmentFn = func(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error {
		attempts++
		return httperr.ErrBusinessf(httperr.CodeStatusBlocked,
			"An appointment in status %s cannot be rescheduled.", models.AppointmentCancelled)
	}

	_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeStatusBlocked) {
		t.Fatalf("expected status_blocked, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (guard rejections must not be retried)", attempts)
	}
}

func TestRescheduleTargetSlotTaken(t *testing.T) {
	repo := rescheduleRepo(models.AppointmentConfirmed, models.SlotBooked)

	_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
}

func TestRescheduleTargetSlotOtherCounselor(t *testing.T) {
	repo := rescheduleRepo(models.AppointmentConfirmed, models.SlotAvailable)
	base := repo.getSlotWithCalendarFn
	repo.getSlotWithCalendarFn = func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
		slot, cal, err := base(ctx, slotID)
		cal.CounselorID = 42
		return slot, cal, err
	}

	_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeCounselorMismatch) {
		t.Fatalf("expected counselor_mismatch, got %v", err)
	}
}

func TestRescheduleForbiddenForOtherCounselor(t *testing.T) {
	repo := rescheduleRepo(models.AppointmentConfirmed, models.SlotAvailable)

	_, err := newRescheduleUC(repo).Execute(context.Background(), 101, 9, 99, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
