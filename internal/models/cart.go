package models

import "time"

// Cart is the user's pending purchase. It is created on the first add,
// mutated only by its owner, and cleared only when a payment for it is
// confirmed. An abandoned checkout leaves the cart intact for retry.
type Cart struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`
	// CheckoutAttempts feeds the Stripe idempotency key so a retried
	// checkout on the same cart never double-charges.
	CheckoutAttempts int        `json:"checkout_attempts" gorm:"not null;default:0"`
	Items            []CartItem `json:"items"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	CartID    uint          `json:"cart_id" gorm:"index;not null"`
	PackageID uint          `json:"package_id" gorm:"not null"`
	Package   CreditPackage `json:"package"`
	Quantity  int           `json:"quantity" gorm:"not null"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type AddCartItemRequest struct {
	PackageID uint `json:"package_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}
