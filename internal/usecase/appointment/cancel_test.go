package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
)

type mockQueue struct {
	enqueued []*asynq.Task
}

func (m *mockQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	m.enqueued = append(m.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func testEnqueuer() (*tasks.Enqueuer, *mockQueue) {
	q := &mockQueue{}
	return tasks.NewEnqueuer(q, zap.NewNop()), q
}

func confirmedAppointmentRepo(status string) *mockRepo {
	return &mockRepo{
		getAppointmentByIDFn: func(ctx context.Context, id uint) (*models.Appointment, error) {
			return &models.Appointment{
				ID:          id,
				CounselorID: 7,
				TimeSlotID:  5,
				Status:      status,
			}, nil
		},
		cancelAppointmentFn: func(ctx context.Context, ap *models.Appointment) error {
			return nil
		},
	}
}

func newCancelUC(repo *mockRepo) (*CancelAppointment, *mockQueue) {
	enq, q := testEnqueuer()
	return NewCancelAppointment(repo, testDispatcher(), enq, 10*time.Second), q
}

func TestCancelConfirmedAppointment(t *testing.T) {
	var persisted *models.Appointment
	repo := confirmedAppointmentRepo(models.AppointmentConfirmed)
	repo.cancelAppointmentFn = func(ctx context.Context, ap *models.Appointment) error {
		persisted = ap
		return nil
	}

	uc, _ := newCancelUC(repo)
	ap, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ap.Status != models.AppointmentCancelled {
		t.Errorf("status = %s, want CANCELLED", ap.Status)
	}
	if persisted == nil || persisted.Status != models.AppointmentCancelled {
		t.Error("expected the cancelled appointment to be persisted")
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	uc, _ := newCancelUC(confirmedAppointmentRepo(models.AppointmentCancelled))

	_, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeAlreadyCancelled) {
		t.Fatalf("expected already_cancelled, got %v", err)
	}
}

func TestCancelCompleted(t *testing.T) {
	uc, _ := newCancelUC(confirmedAppointmentRepo(models.AppointmentCompleted))

	_, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeCannotCancelCompleted) {
		t.Fatalf("expected cannot_cancel_completed, got %v", err)
	}
}

func TestCancelSurfacesLateGuardFailure(t *testing.T) {
	attempts := 0
	repo := confirmedAppointmentRepo(models.AppointmentConfirmed)
	repo.cancelAppointmentFn = func(ctx context.Context, ap *models.Appointment) error {
		attempts++
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled,
			"Appointment is already cancelled.")
	}

	uc, _ := newCancelUC(repo)
	_, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeAlreadyCancelled) {
		t.Fatalf("expected already_cancelled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (guard rejections must not be retried)", attempts)
	}
}

func TestCancelForbiddenForOtherCounselor(t *testing.T) {
	uc, _ := newCancelUC(confirmedAppointmentRepo(models.AppointmentConfirmed))

	_, err := uc.Execute(context.Background(), 101, 99, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCancelAdminMayCancelAnyAppointment(t *testing.T) {
	uc, _ := newCancelUC(confirmedAppointmentRepo(models.AppointmentConfirmed))

	if _, err := uc.Execute(context.Background(), 101, 99, models.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCancelNotFound(t *testing.T) {
	repo := confirmedAppointmentRepo(models.AppointmentConfirmed)
	repo.getAppointmentByIDFn = func(ctx context.Context, id uint) (*models.Appointment, error) {
		return nil, gorm.ErrRecordNotFound
	}

	uc, _ := newCancelUC(repo)
	_, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor)
	if !httperr.IsBusiness(err, httperr.CodeAppointmentNotFound) {
		t.Fatalf("expected appointment_not_found, got %v", err)
	}
}

func TestCancelEnqueuesEventCleanup(t *testing.T) {
	repo := confirmedAppointmentRepo(models.AppointmentConfirmed)
	repo.getAppointmentByIDFn = func(ctx context.Context, id uint) (*models.Appointment, error) {
		return &models.Appointment{
			ID:              id,
			CounselorID:     7,
			TimeSlotID:      5,
			Status:          models.AppointmentConfirmed,
			CalendarEventID: "evt_123",
		}, nil
	}

	uc, q := newCancelUC(repo)
	if _, err := uc.Execute(context.Background(), 101, 7, models.RoleCounselor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(q.enqueued) != 1 {
		t.Fatalf("enqueued tasks = %d, want 1", len(q.enqueued))
	}
	if q.enqueued[0].Type() != tasks.TypeCalendarEventCancel {
		t.Errorf("task type = %s, want %s", q.enqueued[0].Type(), tasks.TypeCalendarEventCancel)
	}
}
