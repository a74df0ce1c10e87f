package repository

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkoutRepository struct {
	db *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

// UpsertTx creates or replaces the workout attached to a session.
// One workout per session; a re-assignment overwrites title and notes.
func (r *WorkoutRepository) UpsertTx(tx *gorm.DB, workout *models.WorkoutAssignment) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"trainer_id", "title", "notes", "updated_at"}),
	}).Create(workout).Error
}

func (r *WorkoutRepository) GetBySessionIDs(sessionIDs []uint) ([]models.WorkoutAssignment, error) {
	var workouts []models.WorkoutAssignment
	if len(sessionIDs) == 0 {
		return workouts, nil
	}
	err := r.db.Where("session_id IN ?", sessionIDs).Find(&workouts).Error
	return workouts, err
}
