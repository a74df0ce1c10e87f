package models

import "time"

// Ledger entry kinds. A grant comes from a confirmed payment, a debit
// from a reservation, a refund from a cancellation.
const (
	LedgerKindGrant  = "grant"
	LedgerKindDebit  = "debit"
	LedgerKindRefund = "refund"
)

// CreditLedgerEntry is the append-only source of truth for credit
// movements. Rows are write-once; the (kind, reference) pair is unique
// so replays of the producing operation cannot append twice.
type CreditLedgerEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Delta     int       `json:"delta" gorm:"not null"`
	Kind      string    `json:"kind" gorm:"uniqueIndex:idx_ledger_kind_ref;not null"`
	Reference string    `json:"reference" gorm:"uniqueIndex:idx_ledger_kind_ref;not null"`
	CreatedAt time.Time `json:"created_at"`
}
