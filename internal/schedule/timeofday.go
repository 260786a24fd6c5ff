package schedule

import (
	"strings"
	"time"
)

// TimeOfDay is a minute offset from midnight (0..1439) in the business
// timezone. All interval math happens on these integers; the display
// strings ("9:00 AM") exist only at the storage and API boundary.
type TimeOfDay int

const (
	MinutesPerDay   = 24 * 60
	SlotDurationMin = 60
)

var parseLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

// ParseTimeOfDay accepts "H:MM AM/PM" or bare "HH:MM". Malformed input
// returns ok=false; callers must reject it as a validation failure.
func ParseTimeOfDay(s string) (TimeOfDay, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return TimeOfDay(t.Hour()*60 + t.Minute()), true
		}
	}
	return 0, false
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String renders the display form used in stored slots, e.g. "9:00 AM".
func (t TimeOfDay) String() string {
	ref := time.Date(2000, 1, 1, t.Hour(), t.Minute(), 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// At anchors the time-of-day onto a calendar date in the given location.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// OnQuarterHour reports whether the minute component is :00/:15/:30/:45.
func (t TimeOfDay) OnQuarterHour() bool {
	return t.Minute()%15 == 0
}

// IsExactlyOneHour requires end-start to be exactly 60 minutes. Pairs
// crossing midnight (end <= start) never qualify.
func IsExactlyOneHour(start, end TimeOfDay) bool {
	return end > start && int(end-start) == SlotDurationMin
}

// Overlaps uses half-open interval semantics: [s1,e1) and [s2,e2)
// overlap iff s1 < e2 && s2 < e1. Identical intervals overlap.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && s2 < e1
}

// Interval is a validated slot window.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseInterval parses both endpoints; ok=false on any malformed text.
func ParseInterval(start, end string) (Interval, bool) {
	s, ok := ParseTimeOfDay(start)
	if !ok {
		return Interval{}, false
	}
	e, ok := ParseTimeOfDay(end)
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: s, End: e}, true
}

func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv.Start, iv.End, other.Start, other.End)
}

func (iv Interval) Equal(other Interval) bool {
	return iv.Start == other.Start && iv.End == other.End
}
