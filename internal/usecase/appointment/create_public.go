package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mindhaven-care/counsel-scheduler/internal/audit"
	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/appointment"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/retry"
)

// Every mutating path shares the same bounded-retry policy for
// transient transaction conflicts.
const (
	retryAttempts = 3
	retryBase     = 200 * time.Millisecond
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreatePublicInput struct {
	SlotID      uint
	CounselorID uint
	Kind        string

	ClientName   string
	ClientEmail  string
	ClientPhone  string
	ClientDOB    *time.Time
	ClientGender string

	Notes string
}

type PublicBookingResult struct {
	Appointment     *models.Appointment `json:"appointment"`
	RequiresPayment bool                `json:"requires_payment"`
	ClientSecret    string              `json:"client_secret,omitempty"`
}

// PaymentGateway creates the payment intent the client completes; the
// core never charges and only reacts to the processor callback.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, appointmentID uint, amount int64, currency string) (string, error)
}

// ======================================================
// USE CASE
// ======================================================

type CreatePublicAppointment struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	gateway  PaymentGateway
	log      *zap.Logger
	amount   int64
	currency string
	txBound  time.Duration
}

func NewCreatePublicAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	gateway PaymentGateway,
	log *zap.Logger,
	amount int64,
	currency string,
	txBound time.Duration,
) *CreatePublicAppointment {
	return &CreatePublicAppointment{
		repo:     repo,
		audit:    audit,
		gateway:  gateway,
		log:      log,
		amount:   amount,
		currency: currency,
		txBound:  txBound,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreatePublicAppointment) Execute(
	ctx context.Context,
	in CreatePublicInput,
) (*PublicBookingResult, error) {

	// 1. Slot must exist, with its calendar
	slot, cal, err := uc.repo.GetSlotWithCalendar(ctx, in.SlotID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable,
				"Slot is no longer available.")
		}
		return nil, err
	}

	// 2. Counselor and session kind must match the slot
	if cal.CounselorID != in.CounselorID {
		return nil, httperr.ErrBusiness(httperr.CodeCounselorMismatch,
			"Slot does not belong to the requested counselor.")
	}
	if slot.Kind != in.Kind {
		return nil, httperr.ErrBusinessf(httperr.CodeSessionTypeMismatch,
			"Slot only accepts %s sessions.", slot.Kind)
	}

	// 3. Cheap pre-check; the transactional guard is authoritative
	if slot.Status != models.SlotAvailable {
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable,
			"Slot is no longer available.")
	}

	// 4. Reserve: one transaction, bounded, retried on transient conflicts.
	//    NULL payment token marks the booking eligible for auto-expiry.
	var created *models.Appointment
	err = retry.Do(ctx, retryAttempts, retryBase, func(ctx context.Context) error {
		txCtx, cancel := context.WithTimeout(ctx, uc.txBound)
		defer cancel()

		ap, err := uc.repo.ReserveSlot(txCtx, domain.ReserveSlotInput{
			SlotID:      in.SlotID,
			CounselorID: in.CounselorID,
			Date:        cal.Date,
			Kind:        in.Kind,
			Client: domain.ClientUpsert{
				Name:        in.ClientName,
				Email:       in.ClientEmail,
				Phone:       in.ClientPhone,
				Gender:      in.ClientGender,
				DateOfBirth: in.ClientDOB,
			},
			Notes:         in.Notes,
			ReferenceCode: uuid.NewString(),
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

	uc.audit.Dispatch(audit.Event{
		Action:   "public_appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	result := &PublicBookingResult{
		Appointment:     created,
		RequiresPayment: true,
	}

	// 5. Payment intent, after commit. A gateway failure leaves the
	//    reservation PENDING (the client can retry payment; the reaper
	//    reclaims it if nothing happens).
	if uc.gateway != nil {
		secret, err := uc.gateway.CreateIntent(ctx, created.ID, uc.amount, uc.currency)
		if err != nil {
			uc.log.Error("payment intent creation failed",
				zap.Uint("appointment_id", created.ID),
				zap.Error(err))
		} else {
			result.ClientSecret = secret
		}
	}

	return result, nil
}
