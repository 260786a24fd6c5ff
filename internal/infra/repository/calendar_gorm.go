package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
)

type CalendarGormRepository struct {
	db *gorm.DB
}

func NewCalendarGormRepository(db *gorm.DB) *CalendarGormRepository {
	return &CalendarGormRepository{db: db}
}

// --------------------------------------------------
// Counselor
// --------------------------------------------------

func (r *CalendarGormRepository) GetCounselorByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *CalendarGormRepository) ListSummaries(
	ctx context.Context,
	counselorID uint,
) ([]domain.Summary, error) {

	var summaries []domain.Summary
	if err := r.db.WithContext(ctx).
		Model(&models.Calendar{}).
		Select(
			"calendars.id, calendars.date, COUNT(time_slots.id) FILTER (WHERE time_slots.status = ?) AS available_slot_count",
			models.SlotAvailable,
		).
		Joins("LEFT JOIN time_slots ON time_slots.calendar_id = calendars.id").
		Where("calendars.counselor_id = ?", counselorID).
		Group("calendars.id").
		Order("calendars.date ASC").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *CalendarGormRepository) GetCalendarForCounselor(
	ctx context.Context,
	calendarID uint,
	counselorID uint,
) (*models.Calendar, error) {

	var cal models.Calendar
	if err := r.db.WithContext(ctx).
		Where("id = ? AND counselor_id = ?", calendarID, counselorID).
		First(&cal).Error; err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *CalendarGormRepository) GetCalendarByDate(
	ctx context.Context,
	counselorID uint,
	date time.Time,
) (*models.Calendar, error) {

	var cal models.Calendar
	if err := r.db.WithContext(ctx).
		Where("counselor_id = ? AND date = ?", counselorID, date).
		First(&cal).Error; err != nil {
		return nil, err
	}
	return &cal, nil
}

func (r *CalendarGormRepository) CreateCalendar(
	ctx context.Context,
	counselorID uint,
	date time.Time,
) (*models.Calendar, error) {

	cal := models.Calendar{
		CounselorID: counselorID,
		Date:        date,
	}

	if err := r.db.WithContext(ctx).Create(&cal).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeCalendarExists,
				"A calendar already exists for this date.")
		}
		return nil, err
	}

	return &cal, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *CalendarGormRepository) ListSlots(
	ctx context.Context,
	calendarID uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("calendar_id = ?", calendarID).
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *CalendarGormRepository) CountSlots(
	ctx context.Context,
	calendarID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("calendar_id = ?", calendarID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func buildSlotRows(calendarID uint, slots []domain.SlotInput) []models.TimeSlot {
	rows := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, models.TimeSlot{
			CalendarID: calendarID,
			StartTime:  s.Interval.Start.String(),
			EndTime:    s.Interval.End.String(),
			Kind:       s.Kind,
			Status:     models.SlotAvailable,
		})
	}
	return rows
}

func (r *CalendarGormRepository) InsertSlots(
	ctx context.Context,
	calendarID uint,
	slots []domain.SlotInput,
) (int, error) {

	rows := buildSlotRows(calendarID, slots)
	if len(rows) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *CalendarGormRepository) InsertDays(
	ctx context.Context,
	counselorID uint,
	days []domain.DayInput,
) (int, error) {

	inserted := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, day := range days {
			var cal models.Calendar
			err := tx.Where("counselor_id = ? AND date = ?", counselorID, day.Date).
				First(&cal).Error

			if err == gorm.ErrRecordNotFound {
				cal = models.Calendar{CounselorID: counselorID, Date: day.Date}
				if err := tx.Create(&cal).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			rows := buildSlotRows(cal.ID, day.Slots)
			if len(rows) == 0 {
				continue
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
			inserted += len(rows)
		}
		return nil
	})

	if err != nil {
		return 0, classifyTxErr(err)
	}
	return inserted, nil
}

func (r *CalendarGormRepository) GetSlotForCounselor(
	ctx context.Context,
	slotID uint,
	counselorID uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).
		Joins("JOIN calendars ON calendars.id = time_slots.calendar_id").
		Where("time_slots.id = ? AND calendars.counselor_id = ?", slotID, counselorID).
		First(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *CalendarGormRepository) DeleteAvailableSlot(
	ctx context.Context,
	slotID uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", slotID, models.SlotAvailable).
		Delete(&models.TimeSlot{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable,
			"Only available slots can be deleted.")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// Compile-time check
var _ domain.Repository = (*CalendarGormRepository)(nil)
