package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
)

// ======================================================
// INPUT
// ======================================================

type CreateManualInput struct {
	SlotID      uint
	CounselorID uint
	ActorID     uint
	ActorRole   string

	ClientName   string
	ClientEmail  string
	ClientPhone  string
	ClientDOB    *time.Time
	ClientGender string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateManualAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	enqueuer *tasks.Enqueuer
	txBound  time.Duration
}

func NewCreateManualAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	enqueuer *tasks.Enqueuer,
	txBound time.Duration,
) *CreateManualAppointment {
	return &CreateManualAppointment{
		repo:     repo,
		audit:    audit,
		enqueuer: enqueuer,
		txBound:  txBound,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute records a booking made by staff on the client's behalf. The
// payment happened out of band, so the appointment is CONFIRMED at
// once and carries a payment token that exempts it from auto-expiry.
func (uc *CreateManualAppointment) Execute(
	ctx context.Context,
	in CreateManualInput,
) (*models.Appointment, error) {

	// 1. Counselors may only book their own slots
	if in.ActorRole != models.RoleAdmin && in.ActorID != in.CounselorID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden,
			"You may only manage your own calendar.")
	}

	counselor, err := uc.repo.GetCounselorByID(ctx, in.CounselorID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeCounselorNotFound,
				"Counselor not found.")
		}
		return nil, err
	}

	// 2. Slot must exist under the counselor's calendar and be free
	slot, cal, err := uc.repo.GetSlotWithCalendar(ctx, in.SlotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound,
				"Slot not found.")
		}
		return nil, err
	}
	if cal.CounselorID != in.CounselorID {
		return nil, httperr.ErrBusiness(httperr.CodeCounselorMismatch,
			"Slot does not belong to the requested counselor.")
	}
	if slot.Status != models.SlotAvailable {
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable,
			"Slot is no longer available.")
	}

	// 3. Book: AVAILABLE → BOOKED in one bounded transaction
	var created *models.Appointment
	err = retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()

		ap, err := uc.repo.BookSlot(txCtx, domain.BookSlotInput{
			SlotID:      in.SlotID,
			CounselorID: in.CounselorID,
			Date:        cal.Date,
			Kind:        slot.Kind,
			Client: domain.ClientUpsert{
				Name:        in.ClientName,
				Email:       in.ClientEmail,
				Phone:       in.ClientPhone,
				Gender:      in.ClientGender,
				DateOfBirth: in.ClientDOB,
			},
			Notes:         in.Notes,
			ReferenceCode: uuid.NewString(),
			PaymentToken:  uuid.NewString(),
		})
		if err != nil {
			return err
		}
		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 4. Side effects after commit, via the durable queue
	uc.enqueuer.CalendarEventCreate(tasks.CalendarEventCreatePayload{
		AppointmentID:  created.ID,
		CounselorName:  counselor.Name,
		CounselorEmail: counselor.Email,
		ClientName:     in.ClientName,
		ClientEmail:    in.ClientEmail,
		Date:           cal.Date.Format("2006-01-02"),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Kind:           slot.Kind,
	})
	uc.enqueuer.SendEmail(created.ID, tasks.SendEmailPayload{
		To:      in.ClientEmail,
		Subject: "Your counseling session is confirmed",
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your %s session with %s on %s at %s is confirmed.</p><p>Reference: %s</p>",
			in.ClientName, slot.Kind, counselor.Name,
			cal.Date.Format("2006-01-02"), slot.StartTime, created.ReferenceCode),
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ActorID,
		Action:   "manual_appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}
