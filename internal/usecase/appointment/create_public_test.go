package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
)

type mockGateway struct {
	createIntentFn func(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error) {
	return m.createIntentFn(ctx, appointmentID, amount, currency)
}

func openSlotRepo() *mockRepo {
	return &mockRepo{
		getSlotWithCalendarFn: func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
			return &models.TimeSlot{
					ID:         slotID,
					CalendarID: 1,
					StartTime:  "9:00 AM",
					EndTime:    "10:00 AM",
					Kind:       models.SessionOnline,
					Status:     models.SlotAvailable,
				}, &models.Calendar{
					ID:          1,
					CounselorID: 7,
					Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
				}, nil
		},
		reserveSlotFn: func(ctx context.Context, in domain.ReserveSlotInput) (*models.Appointment, error) {
			return &models.Appointment{
				ID:            101,
				CounselorID:   in.CounselorID,
				TimeSlotID:    in.SlotID,
				Date:          in.Date,
				Kind:          in.Kind,
				Status:        models.AppointmentPending,
				ReferenceCode: in.ReferenceCode,
			}, nil
		},
	}
}

func publicInput() CreatePublicInput {
	return CreatePublicInput{
		SlotID:      5,
		CounselorID: 7,
		Kind:        models.SessionOnline,
		ClientName:  "Dewi Lestari",
		ClientEmail: "dewi@example.com",
	}
}

func newPublicUC(repo *mockRepo, gw PaymentGateway) *CreatePublicAppointment {
	return NewCreatePublicAppointment(
		repo, testDispatcher(), gw, zap.NewNop(),
		50000, "usd", 8*time.Second,
	)
}

func TestCreatePublicSuccess(t *testing.T) {
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error) {
			if appointmentID != 101 {
				t.Errorf("appointmentID = %d, want 101", appointmentID)
			}
			return "pi_secret_abc", nil
		},
	}

	result, err := newPublicUC(openSlotRepo(), gw).Execute(context.Background(), publicInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.RequiresPayment {
		t.Error("expected RequiresPayment = true")
	}
	if result.ClientSecret != "pi_secret_abc" {
		t.Errorf("ClientSecret = %q, want pi_secret_abc", result.ClientSecret)
	}
	if result.Appointment.Status != models.AppointmentPending {
		t.Errorf("status = %s, want PENDING", result.Appointment.Status)
	}
	if result.Appointment.ReferenceCode == "" {
		t.Error("expected a reference code")
	}
}

func TestCreatePublicSlotNotFound(t *testing.T) {
	repo := openSlotRepo()
	repo.getSlotWithCalendarFn = func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
		return nil, nil, gorm.ErrRecordNotFound
	}

	_, err := newPublicUC(repo, nil).Execute(context.Background(), publicInput())
	if !httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}
}

func TestCreatePublicCounselorMismatch(t *testing.T) {
	in := publicInput()
	in.CounselorID = 99

	_, err := newPublicUC(openSlotRepo(), nil).Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeCounselorMismatch) {
		t.Fatalf("expected counselor_mismatch, got %v", err)
	}
}

func TestCreatePublicKindMismatch(t *testing.T) {
	in := publicInput()
	in.Kind = models.SessionInPerson

	_, err := newPublicUC(openSlotRepo(), nil).Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeSessionTypeMismatch) {
		t.Fatalf("expected session_type_mismatch, got %v", err)
	}
}

func TestCreatePublicDoubleBookingGuard(t *testing.T) {
	attempts := 0
	repo := openSlotRepo()
	repo.reserveSlotFn = func(ctx context.Context, in domain.ReserveSlotInput) (*models.Appointment, error) {
		attempts++
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable, "Slot is no longer available.")
	}

	_, err := newPublicUC(repo, nil).Execute(context.Background(), publicInput())
	if !httperr.IsBusiness(err, httperr.CodeSlotUnavailable) {
		t.Fatalf("expected slot_unavailable, got %v", err)
	}

	// The guard losing the race is a business outcome, not a transient
	// fault: it must not be retried.
	if attempts != 1 {
		t.Errorf("reserve attempts = %d, want 1", attempts)
	}
}

func TestCreatePublicRetriesTransientFailures(t *testing.T) {
	attempts := 0
	repo := openSlotRepo()
	base := repo.reserveSlotFn
	repo.reserveSlotFn = func(ctx context.Context, in domain.ReserveSlotInput) (*models.Appointment, error) {
		attempts++
		if attempts < 3 {
			return nil, retry.Transient(errors.New("deadlock detected"))
		}
		return base(ctx, in)
	}

	result, err := newPublicUC(repo, nil).Execute(context.Background(), publicInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("reserve attempts = %d, want 3", attempts)
	}
	if result.Appointment.ID != 101 {
		t.Errorf("appointment ID = %d, want 101", result.Appointment.ID)
	}
}

func TestCreatePublicGatewayFailureKeepsReservation(t *testing.T) {
	gw := &mockGateway{
		createIntentFn: func(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error) {
			return "", errors.New("processor unreachable")
		},
	}

	result, err := newPublicUC(openSlotRepo(), gw).Execute(context.Background(), publicInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClientSecret != "" {
		t.Errorf("ClientSecret = %q, want empty", result.ClientSecret)
	}
	if result.Appointment == nil || result.Appointment.ID != 101 {
		t.Error("expected the committed reservation to be returned")
	}
}
