package models

import "time"

const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCancelled = "CANCELLED"
	AppointmentCompleted = "COMPLETED"
	AppointmentDeleted   = "DELETED"
)

// Appointment binds a client to a time slot with one counselor. The slot
// is referenced, never owned: reschedules move the binding while the
// slot rows persist.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	CounselorID uint `gorm:"index" json:"counselor_id"`
	Counselor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"counselor"`

	TimeSlotID uint     `gorm:"index" json:"time_slot_id"`
	TimeSlot   TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"time_slot"`

	// Denormalized copy of the slot's calendar date; updated on reschedule.
	Date time.Time `gorm:"type:date;index" json:"date"`

	Kind   string `gorm:"size:20" json:"kind"`
	Status string `gorm:"size:20;default:'PENDING';index" json:"status"`

	Notes string `gorm:"size:500" json:"notes"`

	ReferenceCode string `gorm:"size:64;uniqueIndex" json:"reference_code"`

	// External calendar event, if sync succeeded.
	CalendarEventID string `gorm:"size:255" json:"calendar_event_id,omitempty"`

	// NULL marks a public self-serve booking subject to auto-expiry;
	// staff-entered bookings carry a marker and are exempt.
	PaymentToken *string `gorm:"size:255" json:"payment_token,omitempty"`

	IsRescheduled bool `gorm:"default:false" json:"is_rescheduled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublic reports whether the booking came through the self-serve flow
// and is therefore eligible for auto-expiry while unpaid.
func (a *Appointment) IsPublic() bool {
	return a.PaymentToken == nil
}
