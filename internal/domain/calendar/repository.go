package calendar

import (
	"context"
	"time"

	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/schedule"
)

// SlotInput is a validated candidate slot in internal representation.
type SlotInput struct {
	Interval schedule.Interval
	Kind     string
}

// DayInput groups a date's candidate slots for the multi-day bulk path.
type DayInput struct {
	Date  time.Time
	Slots []SlotInput
}

// Summary is the read-only projection behind ListCalendar.
type Summary struct {
	ID                 uint      `json:"id"`
	Date               time.Time `json:"date"`
	AvailableSlotCount int64     `json:"available_slot_count"`
}

type Repository interface {
	GetCounselorByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	ListSummaries(
		ctx context.Context,
		counselorID uint,
	) ([]Summary, error)

	GetCalendarForCounselor(
		ctx context.Context,
		calendarID uint,
		counselorID uint,
	) (*models.Calendar, error)

	GetCalendarByDate(
		ctx context.Context,
		counselorID uint,
		date time.Time,
	) (*models.Calendar, error)

	// CreateCalendar fails with a calendar_exists business error when
	// the (counselor, date) row already exists.
	CreateCalendar(
		ctx context.Context,
		counselorID uint,
		date time.Time,
	) (*models.Calendar, error)

	ListSlots(
		ctx context.Context,
		calendarID uint,
	) ([]models.TimeSlot, error)

	CountSlots(
		ctx context.Context,
		calendarID uint,
	) (int64, error)

	InsertSlots(
		ctx context.Context,
		calendarID uint,
		slots []SlotInput,
	) (int, error)

	// InsertDays creates missing Calendar rows and bulk-inserts every
	// day's slots in one transaction; a failure on any day rolls back
	// the whole batch.
	InsertDays(
		ctx context.Context,
		counselorID uint,
		days []DayInput,
	) (int, error)

	GetSlotForCounselor(
		ctx context.Context,
		slotID uint,
		counselorID uint,
	) (*models.TimeSlot, error)

	// DeleteAvailableSlot removes the slot only while it is AVAILABLE;
	// the guard failure surfaces as a slot_unavailable business error.
	DeleteAvailableSlot(
		ctx context.Context,
		slotID uint,
	) error
}
