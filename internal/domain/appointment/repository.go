package appointment

import (
	"context"
	"time"

	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

// ClientUpsert carries the identity fields upserted by email on every
// booking. Name/phone/DOB/gender are refreshed when the email matches.
type ClientUpsert struct {
	Name        string
	Email       string
	Phone       string
	Gender      string
	DateOfBirth *time.Time
}

// ReserveSlotInput is the public self-serve booking. The slot moves
// AVAILABLE → PROCESSING and the appointment starts PENDING.
type ReserveSlotInput struct {
	SlotID        uint
	CounselorID   uint
	Date          time.Time
	Kind          string
	Client        ClientUpsert
	Notes         string
	ReferenceCode string
}

// BookSlotInput is the staff-entered booking. The slot moves
// AVAILABLE → BOOKED directly and the appointment starts CONFIRMED.
// PaymentToken marks the appointment exempt from auto-expiry.
type BookSlotInput struct {
	SlotID        uint
	CounselorID   uint
	Date          time.Time
	Kind          string
	Client        ClientUpsert
	Notes         string
	ReferenceCode string
	PaymentToken  string
}

// Repository owns every slot+appointment mutation that must be atomic.
// Each multi-step method runs in a single transaction; slot transitions
// out of AVAILABLE (or PROCESSING) are conditional updates whose failed
// guard surfaces as a slot_unavailable business error, never silently.
type Repository interface {
	// -------- Reads --------
	GetCounselorByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	GetSlotWithCalendar(
		ctx context.Context,
		slotID uint,
	) (*models.TimeSlot, *models.Calendar, error)

	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	GetClientByID(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	// -------- Booking (create) --------
	ReserveSlot(
		ctx context.Context,
		in ReserveSlotInput,
	) (*models.Appointment, error)

	BookSlot(
		ctx context.Context,
		in BookSlotInput,
	) (*models.Appointment, error)

	// -------- Payment outcome primitives --------
	ConfirmAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// -------- State change --------

	// CancelAppointment persists ap (already moved to CANCELLED by the
	// domain guard), releases its slot to AVAILABLE and removes any
	// meeting record, all in one transaction.
	CancelAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// RescheduleAppointment persists ap (already rebound to the new
	// slot), releases the old slot and books the new one with the
	// is_rescheduled flag, all in one transaction.
	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
		oldSlotID uint,
		newSlotID uint,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Release (reaper / failed payment) --------
	ListExpiredPending(
		ctx context.Context,
		cutoff time.Time,
	) ([]models.Appointment, error)

	// ReleasePending cancels one PENDING appointment and frees its slot
	// in its own transaction, guarded so an in-flight payment
	// confirmation wins the race. Non-PENDING appointments are left
	// untouched, making the call idempotent-safe.
	ReleasePending(
		ctx context.Context,
		appointmentID uint,
	) error
}
