package models

import "time"

// Client has no login; identified by email and upserted on every booking.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string     `gorm:"size:100;not null" json:"name"`
	Email       string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone       string     `gorm:"size:20" json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `gorm:"size:20" json:"gender"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
