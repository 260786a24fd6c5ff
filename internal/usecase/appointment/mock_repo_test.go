package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

type mockRepo struct {
	getCounselorByIDFn      func(ctx context.Context, id uint) (*models.User, error)
	getSlotWithCalendarFn   func(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error)
	getAppointmentByIDFn    func(ctx context.Context, id uint) (*models.Appointment, error)
	getClientByIDFn         func(ctx context.Context, id uint) (*models.Client, error)
	reserveSlotFn           func(ctx context.Context, in domain.ReserveSlotInput) (*models.Appointment, error)
	bookSlotFn              func(ctx context.Context, in domain.BookSlotInput) (*models.Appointment, error)
	confirmAppointmentFn    func(ctx context.Context, appointmentID uint) (*models.Appointment, error)
	cancelAppointmentFn     func(ctx context.Context, ap *models.Appointment) error
	rescheduleAppointmentFn func(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error
	updateAppointmentFn     func(ctx context.Context, ap *models.Appointment) error
	listExpiredPendingFn    func(ctx context.Context, cutoff time.Time) ([]models.Appointment, error)
	releasePendingFn        func(ctx context.Context, appointmentID uint) error
}

func (m *mockRepo) GetCounselorByID(ctx context.Context, id uint) (*models.User, error) {
	return m.getCounselorByIDFn(ctx, id)
}

func (m *mockRepo) GetSlotWithCalendar(ctx context.Context, slotID uint) (*models.TimeSlot, *models.Calendar, error) {
	return m.getSlotWithCalendarFn(ctx, slotID)
}

func (m *mockRepo) GetAppointmentByID(ctx context.Context, id uint) (*models.Appointment, error) {
	return m.getAppointmentByIDFn(ctx, id)
}

func (m *mockRepo) GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	return m.getClientByIDFn(ctx, id)
}

func (m *mockRepo) ReserveSlot(ctx context.Context, in domain.ReserveSlotInput) (*models.Appointment, error) {
	return m.reserveSlotFn(ctx, in)
}

func (m *mockRepo) BookSlot(ctx context.Context, in domain.BookSlotInput) (*models.Appointment, error) {
	return m.bookSlotFn(ctx, in)
}

func (m *mockRepo) ConfirmAppointment(ctx context.Context, appointmentID uint) (*models.Appointment, error) {
	return m.confirmAppointmentFn(ctx, appointmentID)
}

func (m *mockRepo) CancelAppointment(ctx context.Context, ap *models.Appointment) error {
	return m.cancelAppointmentFn(ctx, ap)
}

func (m *mockRepo) RescheduleAppointment(ctx context.Context, ap *models.Appointment, oldSlotID, newSlotID uint) error {
	return m.rescheduleAppointmentFn(ctx, ap, oldSlotID, newSlotID)
}

func (m *mockRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return m.updateAppointmentFn(ctx, ap)
}

func (m *mockRepo) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Appointment, error) {
	return m.listExpiredPendingFn(ctx, cutoff)
}

func (m *mockRepo) ReleasePending(ctx context.Context, appointmentID uint) error {
	return m.releasePendingFn(ctx, appointmentID)
}

var _ domain.Repository = (*mockRepo)(nil)

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(audit.New(nil), zap.NewNop())
}
