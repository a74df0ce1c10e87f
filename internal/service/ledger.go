package service

import (
	"errors"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

// Ledger is the credit ledger component. The Tx methods run strictly
// inside the caller's transaction (the reservation engine or the
// webhook reconciler) and are never committed independently. Entry and
// cached balance always move together, so the cache cannot drift from
// the ledger.
type Ledger struct {
	entries LedgerEntryStore
	users   UserStore
}

func NewLedger(entries LedgerEntryStore, users UserStore) *Ledger {
	return &Ledger{
		entries: entries,
		users:   users,
	}
}

// GrantTx credits the user. Idempotent on reference: a second grant for
// the same reference returns the prior entry and writes nothing.
func (l *Ledger) GrantTx(tx *gorm.DB, userID uint, amount int, reference string) (*models.CreditLedgerEntry, error) {
	existing, err := l.entries.FindEntryTx(tx, models.LedgerKindGrant, reference)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := &models.CreditLedgerEntry{
		UserID:    userID,
		Delta:     amount,
		Kind:      models.LedgerKindGrant,
		Reference: reference,
	}
	if err := l.entries.CreateEntryTx(tx, entry); err != nil {
		return nil, err
	}
	if _, err := l.entries.AdjustBalanceTx(tx, userID, amount, 0); err != nil {
		return nil, err
	}
	return entry, nil
}

// DebitTx charges the user. The guarded balance update keeps the
// balance from ever going negative: if the funds are not there, no
// entry is written and ErrInsufficientCredits aborts the caller's
// transaction.
func (l *Ledger) DebitTx(tx *gorm.DB, userID uint, amount int, reference string) error {
	ok, err := l.entries.AdjustBalanceTx(tx, userID, -amount, amount)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientCredits
	}

	entry := &models.CreditLedgerEntry{
		UserID:    userID,
		Delta:     -amount,
		Kind:      models.LedgerKindDebit,
		Reference: reference,
	}
	return l.entries.CreateEntryTx(tx, entry)
}

// RefundTx returns a debited amount once. A second refund for the same
// reference is a no-op; the bool reports whether this call wrote it.
func (l *Ledger) RefundTx(tx *gorm.DB, userID uint, amount int, reference string) (bool, error) {
	_, err := l.entries.FindEntryTx(tx, models.LedgerKindRefund, reference)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	entry := &models.CreditLedgerEntry{
		UserID:    userID,
		Delta:     amount,
		Kind:      models.LedgerKindRefund,
		Reference: reference,
	}
	if err := l.entries.CreateEntryTx(tx, entry); err != nil {
		return false, err
	}
	if _, err := l.entries.AdjustBalanceTx(tx, userID, amount, 0); err != nil {
		return false, err
	}
	return true, nil
}

// Read side.

type Balance struct {
	Credits int `json:"credits"`
}

func (l *Ledger) GetBalance(userID uint) (*Balance, error) {
	user, err := l.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Balance{Credits: user.Credits}, nil
}

func (l *Ledger) GetHistory(userID uint) ([]models.CreditLedgerEntry, error) {
	return l.entries.GetUserHistory(userID)
}
