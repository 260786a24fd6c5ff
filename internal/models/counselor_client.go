package models

import "time"

// CounselorClient records that a client has had a confirmed booking with
// a counselor. Written once per pair, on first payment confirmation.
type CounselorClient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CounselorID uint `gorm:"uniqueIndex:idx_counselor_client" json:"counselor_id"`
	ClientID    uint `gorm:"uniqueIndex:idx_counselor_client" json:"client_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
