package models

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"index;not null"`
	SessionID uint         `json:"session_id" gorm:"index;not null"`
	Session   ClassSession `json:"session"`
	// Reference is the idempotency reference shared by the booking's
	// ledger debit and, if cancelled, its single refund.
	Reference     string    `json:"reference" gorm:"unique;not null"`
	AttendeeCount int       `json:"attendee_count" gorm:"not null"`
	Status        string    `json:"status" gorm:"not null;default:'confirmed'"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateBookingRequest struct {
	ClassID       uint   `json:"class_id" validate:"required"`
	Date          string `json:"date" validate:"required"` // "2006-01-02"
	AttendeeCount int    `json:"attendee_count" validate:"required,min=1"`
}
