package service

import (
	"errors"
	"time"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

// ClassService is the trainer-facing side of the class catalog.
type ClassService struct {
	db       TxRunner
	classes  ClassStore
	sessions SessionStore
	workouts WorkoutStore
}

func NewClassService(db TxRunner, classes ClassStore, sessions SessionStore, workouts WorkoutStore) *ClassService {
	return &ClassService{
		db:       db,
		classes:  classes,
		sessions: sessions,
		workouts: workouts,
	}
}

func (s *ClassService) CreateClass(trainerID uint, req models.CreateClassRequest) (*models.ClassDefinition, error) {
	def := &models.ClassDefinition{
		TrainerID:       trainerID,
		Title:           req.Title,
		DaysOfWeek:      req.DaysOfWeek,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		MaxCapacity:     req.MaxCapacity,
		PriceCents:      req.PriceCents,
		IsActive:        true,
	}
	if err := s.classes.Create(def); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *ClassService) GetTrainerClasses(trainerID uint) ([]models.ClassDefinition, error) {
	return s.classes.GetByTrainer(trainerID)
}

// AssignWorkout attaches a workout plan to one dated occurrence. This
// is the path that materializes a session row without any booking.
func (s *ClassService) AssignWorkout(trainerID uint, classID uint, dateStr string, req models.AssignWorkoutRequest) (*models.WorkoutAssignment, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return nil, ErrNotFound
	}

	def, err := s.classes.GetByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if def.TrainerID != trainerID {
		return nil, ErrForbidden
	}
	if !scheduledOn(def, date) {
		return nil, ErrNotFound
	}

	var workout *models.WorkoutAssignment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.EnsureTx(tx, def, date)
		if err != nil {
			return err
		}

		workout = &models.WorkoutAssignment{
			SessionID: session.ID,
			TrainerID: trainerID,
			Title:     req.Title,
			Notes:     req.Notes,
		}
		return s.workouts.UpsertTx(tx, workout)
	})
	if err != nil {
		return nil, err
	}
	return workout, nil
}
