package models

import "time"

// ProcessedPayment records a payment reference the webhook reconciler
// has fully applied. The unique reference is what turns the provider's
// at-least-once delivery into an exactly-once ledger effect.
type ProcessedPayment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Reference string    `json:"reference" gorm:"unique;not null"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Credits   int       `json:"credits" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"redirect_url"`
}
