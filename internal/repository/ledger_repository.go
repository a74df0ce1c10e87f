package repository

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

// LedgerRepository holds the storage primitives under the credit
// ledger: append an entry, adjust the cached balance, look entries up.
// The grant/debit/refund rules themselves live in service.Ledger.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) FindEntryTx(tx *gorm.DB, kind, reference string) (*models.CreditLedgerEntry, error) {
	var entry models.CreditLedgerEntry
	err := tx.Where("kind = ? AND reference = ?", kind, reference).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *LedgerRepository) CreateEntryTx(tx *gorm.DB, entry *models.CreditLedgerEntry) error {
	return tx.Create(entry).Error
}

// AdjustBalanceTx applies delta to the user's cached balance, but only
// when the current balance is at least minBalance. The guard and the
// update are one atomic statement; false means nothing changed.
func (r *LedgerRepository) AdjustBalanceTx(tx *gorm.DB, userID uint, delta int, minBalance int) (bool, error) {
	res := tx.Model(&models.User{}).
		Where("id = ? AND credits >= ?", userID, minBalance).
		UpdateColumn("credits", gorm.Expr("credits + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LedgerRepository) GetUserHistory(userID uint) ([]models.CreditLedgerEntry, error) {
	var entries []models.CreditLedgerEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// BalanceFromLedger recomputes the balance from the entries, bypassing
// the cached aggregate. Used for consistency checks.
func (r *LedgerRepository) BalanceFromLedger(userID uint) (int, error) {
	var balance int
	err := r.db.Model(&models.CreditLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&balance).Error
	return balance, err
}
