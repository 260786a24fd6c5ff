package appointment

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
	"github.com/mindhaven-care/counsel-scheduler/internal/tasks"
)

// ======================================================
// PAYMENT OUTCOME
// ======================================================

// PaymentOutcome reacts to the processor's callback for a public
// booking: success promotes PENDING → CONFIRMED and BOOKS the slot,
// failure releases the reservation immediately instead of waiting for
// the expiry sweep.
type PaymentOutcome struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	enqueuer *tasks.Enqueuer
	txBound  time.Duration
}

func NewPaymentOutcome(
	repo domain.Repository,
	audit *audit.Dispatcher,
	enqueuer *tasks.Enqueuer,
	txBound time.Duration,
) *PaymentOutcome {
	return &PaymentOutcome{
		repo:     repo,
		audit:    audit,
		enqueuer: enqueuer,
		txBound:  txBound,
	}
}

func (uc *PaymentOutcome) Confirm(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var confirmed *models.Appointment
	err := retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()

		ap, err := uc.repo.ConfirmAppointment(txCtx, appointmentID)
		if err != nil {
			return err
		}
		confirmed = ap
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound,
				"Appointment not found.")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_confirmed",
		Entity:   "appointment",
		EntityID: &confirmed.ID,
	})

	uc.queueConfirmationEffects(ctx, confirmed)

	return confirmed, nil
}

func (uc *PaymentOutcome) Fail(
	ctx context.Context,
	appointmentID uint,
) error {

	err := retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()
		return uc.repo.ReleasePending(txCtx, appointmentID)
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return httperr.ErrBusiness(httperr.CodeAppointmentNotFound,
				"Appointment not found.")
		}
		return err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "payment_failed",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}

// queueConfirmationEffects enqueues the calendar event and the
// confirmation email. Lookups here are best-effort: a read failure
// after the commit only costs the side effect, never the booking.
func (uc *PaymentOutcome) queueConfirmationEffects(
	ctx context.Context,
	ap *models.Appointment,
) {
	counselor, err := uc.repo.GetCounselorByID(ctx, ap.CounselorID)
	if err != nil {
		return
	}
	client, err := uc.repo.GetClientByID(ctx, ap.ClientID)
	if err != nil {
		return
	}
	slot, cal, err := uc.repo.GetSlotWithCalendar(ctx, ap.TimeSlotID)
	if err != nil {
		return
	}

	uc.enqueuer.CalendarEventCreate(tasks.CalendarEventCreatePayload{
		AppointmentID:  ap.ID,
		CounselorName:  counselor.Name,
		CounselorEmail: counselor.Email,
		ClientName:     client.Name,
		ClientEmail:    client.Email,
		Date:           cal.Date.Format("2006-01-02"),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		Kind:           slot.Kind,
	})
	uc.enqueuer.SendEmail(ap.ID, tasks.SendEmailPayload{
		To:      client.Email,
		Subject: "Your counseling session is confirmed",
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your %s session with %s on %s at %s is confirmed.</p><p>Reference: %s</p>",
			client.Name, slot.Kind, counselor.Name,
			cal.Date.Format("2006-01-02"), slot.StartTime, ap.ReferenceCode),
	})
}
