package models

import "time"

// Meeting stores the generated join link for an online appointment.
// Written when the booking is confirmed and removed when it is
// cancelled.
type Meeting struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"uniqueIndex" json:"appointment_id"`

	Provider string `gorm:"size:50" json:"provider"`
	JoinURL  string `gorm:"size:500" json:"join_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
