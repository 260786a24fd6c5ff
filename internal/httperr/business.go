package httperr

import (
	"errors"
	"fmt"
)

// Business error codes surfaced by the scheduling core. Every rejected
// operation carries one of these plus a human-readable message; the
// message drives the calendar-editing UX on the client side.
const (
	CodeInvalidDate            = "invalid_date"
	CodeCalendarExists         = "calendar_exists"
	CodeCalendarNotFound       = "calendar_not_found"
	CodeCounselorNotFound      = "counselor_not_found"
	CodeInvalidTime            = "invalid_time"
	CodePastTime               = "past_time"
	CodeBadAlignment           = "bad_alignment"
	CodeBadDuration            = "bad_duration"
	CodeDuplicateSlot          = "duplicate_slot"
	CodeSlotOverlap            = "slot_overlap"
	CodeBelowMinimum           = "below_minimum"
	CodeSlotNotFound           = "slot_not_found"
	CodeSlotUnavailable        = "slot_unavailable"
	CodeSessionTypeMismatch    = "session_type_mismatch"
	CodeCounselorMismatch      = "counselor_mismatch"
	CodeAppointmentNotFound    = "appointment_not_found"
	CodeForbidden              = "forbidden"
	CodeAlreadyCancelled       = "already_cancelled"
	CodeCannotCancelCompleted  = "cannot_cancel_completed"
	CodeStatusBlocked          = "status_blocked"
)

type BusinessError struct {
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func ErrBusiness(code, message string) error {
	return BusinessError{Code: code, Message: message}
}

func ErrBusinessf(code, format string, args ...any) error {
	return BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
