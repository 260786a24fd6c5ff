package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCounselorByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AppointmentGormRepository) GetSlotWithCalendar(
	ctx context.Context,
	slotID uint,
) (*models.TimeSlot, *models.Calendar, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, slotID).Error; err != nil {
		return nil, nil, err
	}

	var cal models.Calendar
	if err := r.db.WithContext(ctx).First(&cal, slot.CalendarID).Error; err != nil {
		return nil, nil, err
	}

	return &slot, &cal, nil
}

func (r *AppointmentGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("TimeSlot").
		First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetClientByID(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// --------------------------------------------------
// Client upsert (inside booking transactions)
// --------------------------------------------------

func upsertClientTx(tx *gorm.DB, in domain.ClientUpsert) (*models.Client, error) {
	client := models.Client{
		Name:        in.Name,
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       in.Phone,
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "phone", "gender", "date_of_birth", "updated_at"}),
	}).Create(&client).Error; err != nil {
		return nil, err
	}

	if client.ID == 0 {
		if err := tx.Where("email = ?", client.Email).First(&client).Error; err != nil {
			return nil, err
		}
	}

	return &client, nil
}

// --------------------------------------------------
// Guarded slot transition
//
// The status column acts as an optimistic lock: the conditional update
// succeeds for exactly one writer; everyone else sees RowsAffected == 0
// and must fail their whole operation.
// --------------------------------------------------

func transitionSlotTx(tx *gorm.DB, slotID uint, from, to string, markRescheduled bool) error {
	updates := map[string]any{"status": to}
	if markRescheduled {
		updates["is_rescheduled"] = true
	}

	res := tx.Model(&models.TimeSlot{}).
		Where("id = ? AND status = ?", slotID, from).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable,
			"Slot is no longer available.")
	}
	return nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *AppointmentGormRepository) ReserveSlot(
	ctx context.Context,
	in domain.ReserveSlotInput,
) (*models.Appointment, error) {

	var created models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := upsertClientTx(tx, in.Client)
		if err != nil {
			return err
		}

		if err := transitionSlotTx(tx, in.SlotID, models.SlotAvailable, models.SlotProcessing, false); err != nil {
			return err
		}

		ap := models.Appointment{
			ClientID:      client.ID,
			CounselorID:   in.CounselorID,
			TimeSlotID:    in.SlotID,
			Date:          in.Date,
			Kind:          in.Kind,
			Status:        models.AppointmentPending,
			Notes:         in.Notes,
			ReferenceCode: in.ReferenceCode,
		}

		if err := tx.Create(&ap).Error; err != nil {
			return err
		}

		created = ap
		return nil
	})

	if err != nil {
		return nil, classifyTxErr(err)
	}
	return &created, nil
}

func (r *AppointmentGormRepository) BookSlot(
	ctx context.Context,
	in domain.BookSlotInput,
) (*models.Appointment, error) {

	var created models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := upsertClientTx(tx, in.Client)
		if err != nil {
			return err
		}

		if err := transitionSlotTx(tx, in.SlotID, models.SlotAvailable, models.SlotBooked, false); err != nil {
			return err
		}

		token := in.PaymentToken
		ap := models.Appointment{
			ClientID:      client.ID,
			CounselorID:   in.CounselorID,
			TimeSlotID:    in.SlotID,
			Date:          in.Date,
			Kind:          in.Kind,
			Status:        models.AppointmentConfirmed,
			Notes:         in.Notes,
			ReferenceCode: in.ReferenceCode,
			PaymentToken:  &token,
		}

		if err := tx.Create(&ap).Error; err != nil {
			return err
		}

		if m := domain.MeetingFor(&ap); m != nil {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(m).Error; err != nil {
				return err
			}
		}

		created = ap
		return nil
	})

	if err != nil {
		return nil, classifyTxErr(err)
	}
	return &created, nil
}

// --------------------------------------------------
// Payment outcome
// --------------------------------------------------

func (r *AppointmentGormRepository) ConfirmAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var confirmed models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, appointmentID).Error; err != nil {
			return err
		}

		if ap.Status != models.AppointmentPending {
			return httperr.ErrBusinessf(httperr.CodeStatusBlocked,
				"Appointment in status %s cannot be confirmed.", ap.Status)
		}

		if err := transitionSlotTx(tx, ap.TimeSlotID, models.SlotProcessing, models.SlotBooked, false); err != nil {
			return err
		}

		ap.Status = models.AppointmentConfirmed
		if err := tx.Save(&ap).Error; err != nil {
			return err
		}

		rel := models.CounselorClient{
			CounselorID: ap.CounselorID,
			ClientID:    ap.ClientID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rel).Error; err != nil {
			return err
		}

		if m := domain.MeetingFor(&ap); m != nil {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(m).Error; err != nil {
				return err
			}
		}

		confirmed = ap
		return nil
	})

	if err != nil {
		return nil, classifyTxErr(err)
	}
	return &confirmed, nil
}

// --------------------------------------------------
// Cancel / Reschedule / Complete
// --------------------------------------------------

func (r *AppointmentGormRepository) CancelAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under a row lock: a reaper release or payment failure
		// may have cancelled the appointment since the caller's read.
		var current models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, ap.ID).Error; err != nil {
			return err
		}
		if err := domain.CanCancel(domain.Status(current.Status)); err != nil {
			return err
		}

		if err := tx.Model(&models.TimeSlot{}).
			Where("id = ?", current.TimeSlotID).
			Update("status", models.SlotAvailable).Error; err != nil {
			return err
		}

		if err := tx.Save(ap).Error; err != nil {
			return err
		}

		return tx.Where("appointment_id = ?", ap.ID).
			Delete(&models.Meeting{}).Error
	})

	return classifyTxErr(err)
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
	oldSlotID uint,
	newSlotID uint,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check under a row lock so a cancellation that landed after
		// the caller's read is not silently overwritten.
		var current models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, ap.ID).Error; err != nil {
			return err
		}
		if err := domain.CanReschedule(domain.Status(current.Status)); err != nil {
			return err
		}

		if err := transitionSlotTx(tx, newSlotID, models.SlotAvailable, models.SlotBooked, true); err != nil {
			return err
		}

		if err := tx.Model(&models.TimeSlot{}).
			Where("id = ?", oldSlotID).
			Update("status", models.SlotAvailable).Error; err != nil {
			return err
		}

		return tx.Save(ap).Error
	})

	return classifyTxErr(err)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Reaper
// --------------------------------------------------

func (r *AppointmentGormRepository) ListExpiredPending(
	ctx context.Context,
	cutoff time.Time,
) ([]models.Appointment, error) {

	var stale []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"status = ? AND payment_token IS NULL AND created_at < ?",
			models.AppointmentPending, cutoff,
		).
		Find(&stale).Error; err != nil {
		return nil, err
	}

	return stale, nil
}

func (r *AppointmentGormRepository) ReleasePending(
	ctx context.Context,
	appointmentID uint,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, appointmentID).Error; err != nil {
			return err
		}

		// A payment confirmation may have won the race since the scan.
		if ap.Status != models.AppointmentPending {
			return nil
		}

		if err := tx.Model(&models.TimeSlot{}).
			Where("id = ?", ap.TimeSlotID).
			Update("status", models.SlotAvailable).Error; err != nil {
			return err
		}

		return tx.Model(&ap).
			Update("status", models.AppointmentCancelled).Error
	})

	return classifyTxErr(err)
}

// --------------------------------------------------
// External event bookkeeping (task worker)
// --------------------------------------------------

func (r *AppointmentGormRepository) SetCalendarEventID(
	ctx context.Context,
	appointmentID uint,
	eventID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("calendar_event_id", eventID).Error
}

// --------------------------------------------------
// Error classification
// --------------------------------------------------

// classifyTxErr wraps retryable store failures so the bounded-retry
// wrapper can distinguish them from business and not-found errors.
func classifyTxErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}
	if err == gorm.ErrRecordNotFound {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "could not serialize"),
		strings.Contains(msg, "serialization failure"),
		strings.Contains(msg, "lock timeout"),
		strings.Contains(msg, "context deadline exceeded"):
		return retry.Transient(err)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
