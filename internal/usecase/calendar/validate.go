package calendar

import (
	"time"

	domain "github.com/mindhaven-care/counsel-scheduler/internal/domain/calendar"
	"github.com/mindhaven-care/counsel-scheduler/internal/httperr"
	"github.com/mindhaven-care/counsel-scheduler/internal/models"
	"github.com/mindhaven-care/counsel-scheduler/internal/schedule"
	"github.com/mindhaven-care/counsel-scheduler/internal/timezone"
)

// SlotRequest is a candidate slot as submitted by the counselor, with
// display-string times.
type SlotRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

// validateBatch checks a candidate batch against a day's existing slots,
// in order: calendar day not in the past, then per slot parseability,
// past-time, quarter-hour alignment, exact one-hour duration,
// overlap/duplicate against existing slots, and overlap/duplicate within
// the batch itself. It fails fast on the first violation with a message
// naming the offending slot.
func validateBatch(
	date time.Time,
	existing []models.TimeSlot,
	batch []SlotRequest,
	now time.Time,
) ([]domain.SlotInput, error) {

	if timezone.StartOfDay(date).Before(timezone.StartOfDay(now)) {
		return nil, httperr.ErrBusiness(httperr.CodePastTime,
			"Cannot publish slots for a past day.")
	}

	existingIvs := make([]schedule.Interval, 0, len(existing))
	for _, s := range existing {
		if iv, ok := schedule.ParseInterval(s.StartTime, s.EndTime); ok {
			existingIvs = append(existingIvs, iv)
		}
	}

	sameDay := timezone.StartOfDay(now).Equal(timezone.StartOfDay(date))
	nowMinutes := schedule.TimeOfDay(now.Hour()*60 + now.Minute())

	validated := make([]domain.SlotInput, 0, len(batch))

	for _, req := range batch {
		iv, ok := schedule.ParseInterval(req.StartTime, req.EndTime)
		if !ok {
			return nil, httperr.ErrBusinessf(httperr.CodeInvalidTime,
				"Unrecognized time format for slot %s to %s.", req.StartTime, req.EndTime)
		}

		if req.Kind != models.SessionOnline && req.Kind != models.SessionInPerson {
			return nil, httperr.ErrBusinessf(httperr.CodeInvalidTime,
				"Unknown session kind %q for slot starting at %s.", req.Kind, iv.Start)
		}

		if sameDay && iv.Start <= nowMinutes {
			return nil, httperr.ErrBusinessf(httperr.CodePastTime,
				"Slot starting at %s is in the past.", iv.Start)
		}

		if !iv.Start.OnQuarterHour() {
			return nil, httperr.ErrBusinessf(httperr.CodeBadAlignment,
				"Slot starting at %s must start on a 15-minute boundary.", iv.Start)
		}

		if !schedule.IsExactlyOneHour(iv.Start, iv.End) {
			return nil, httperr.ErrBusinessf(httperr.CodeBadDuration,
				"Slot from %s to %s must last exactly 60 minutes.", iv.Start, iv.End)
		}

		for _, other := range existingIvs {
			if iv.Equal(other) {
				return nil, httperr.ErrBusinessf(httperr.CodeDuplicateSlot,
					"Duplicate slot detected. The slot from %s to %s already exists.",
					iv.Start, iv.End)
			}
			if iv.Overlaps(other) {
				return nil, httperr.ErrBusinessf(httperr.CodeSlotOverlap,
					"Slot overlap detected. The slot from %s to %s overlaps with existing slot %s to %s.",
					iv.Start, iv.End, other.Start, other.End)
			}
		}

		for _, accepted := range validated {
			if iv.Equal(accepted.Interval) {
				return nil, httperr.ErrBusinessf(httperr.CodeDuplicateSlot,
					"Duplicate slot detected. The slot from %s to %s appears twice in the batch.",
					iv.Start, iv.End)
			}
			if iv.Overlaps(accepted.Interval) {
				return nil, httperr.ErrBusinessf(httperr.CodeSlotOverlap,
					"Slot overlap detected. The slot from %s to %s overlaps with slot %s to %s in the same batch.",
					iv.Start, iv.End, accepted.Interval.Start, accepted.Interval.End)
			}
		}

		validated = append(validated, domain.SlotInput{Interval: iv, Kind: req.Kind})
	}

	return validated, nil
}

// minSlotsFor resolves the counselor's per-day floor, falling back to
// the practice-wide default.
func minSlotsFor(counselor *models.User, def int) int {
	if counselor != nil && counselor.MinSlotsPerDay > 0 {
		return counselor.MinSlotsPerDay
	}
	return def
}

func checkMinimumFloor(provided int, minimum int) error {
	if provided < minimum {
		return httperr.ErrBusinessf(httperr.CodeBelowMinimum,
			"Only %d slots provided. A new day requires at least %d slots.",
			provided, minimum)
	}
	return nil
}
