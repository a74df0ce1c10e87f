package repository

import (
	"time"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository manages materialized class occurrences. A session
// row exists only once a booking or workout assignment attaches to the
// (class, date) pair.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// EnsureTx materializes the session for (class, date) if it does not
// exist yet. ON CONFLICT DO NOTHING keeps concurrent materialization
// from failing; the follow-up read returns whichever row won.
func (r *SessionRepository) EnsureTx(tx *gorm.DB, def *models.ClassDefinition, date time.Time) (*models.ClassSession, error) {
	session := models.ClassSession{
		ClassID:     def.ID,
		Date:        date,
		StartTime:   def.StartTime,
		MaxCapacity: def.MaxCapacity,
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&session).Error
	if err != nil {
		return nil, err
	}

	var out models.ClassSession
	if err := tx.Where("class_id = ? AND date = ?", def.ID, date).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// LockTx acquires the session row FOR UPDATE. Every reserve against
// the same occurrence serializes on this lock, which is what keeps the
// capacity check race-free.
func (r *SessionRepository) LockTx(tx *gorm.DB, sessionID uint) (*models.ClassSession, error) {
	var session models.ClassSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetByDateRange(from, to time.Time) ([]models.ClassSession, error) {
	var sessions []models.ClassSession
	err := r.db.Where("date >= ? AND date < ?", from, to).Find(&sessions).Error
	return sessions, err
}
