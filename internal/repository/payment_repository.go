package repository

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProcessedPaymentRepository is the dedup record behind the webhook
// reconciler. The unique payment reference turns the provider's
// at-least-once retries into exactly-once ledger effects.
type ProcessedPaymentRepository struct {
	db *gorm.DB
}

func NewProcessedPaymentRepository(db *gorm.DB) *ProcessedPaymentRepository {
	return &ProcessedPaymentRepository{db: db}
}

// MarkProcessedTx records the payment reference. Returns false when the
// reference was already recorded, in which case nothing was written.
func (r *ProcessedPaymentRepository) MarkProcessedTx(tx *gorm.DB, payment *models.ProcessedPayment) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(payment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
