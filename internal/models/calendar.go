package models

import "time"

// Calendar is one counselor's bookable day. At most one row per
// (counselor, date); created lazily when slots are first published.
type Calendar struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CounselorID uint `gorm:"uniqueIndex:idx_calendar_counselor_date" json:"counselor_id"`
	Counselor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Date time.Time `gorm:"type:date;uniqueIndex:idx_calendar_counselor_date" json:"date"`

	Slots []TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"slots,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
