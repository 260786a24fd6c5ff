package models

import "time"

const (
	SlotAvailable  = "AVAILABLE"
	SlotProcessing = "PROCESSING"
	SlotBooked     = "BOOKED"
)

const (
	SessionOnline   = "ONLINE"
	SessionInPerson = "IN_PERSON"
)

// TimeSlot is a fixed 60-minute bookable interval within a Calendar.
// Start/end are stored as business-timezone display strings ("9:00 AM");
// comparisons always go through schedule.ParseTimeOfDay.
type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CalendarID uint     `gorm:"index" json:"calendar_id"`
	Calendar   Calendar `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartTime string `gorm:"size:10;not null" json:"start_time"`
	EndTime   string `gorm:"size:10;not null" json:"end_time"`

	Kind   string `gorm:"size:20;default:'ONLINE'" json:"kind"`
	Status string `gorm:"size:20;default:'AVAILABLE';index" json:"status"`

	IsRescheduled bool `gorm:"default:false" json:"is_rescheduled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
