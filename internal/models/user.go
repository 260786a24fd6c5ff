package models

import "time"

const (
	RoleCounselor = "counselor"
	RoleAdmin     = "admin"
)

// User is a counselor (or practice administrator) account.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'counselor'" json:"role"`

	// Floor for the first slot batch published on a day. Zero means the
	// practice-wide default applies.
	MinSlotsPerDay int `gorm:"default:0" json:"min_slots_per_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
