package repository

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) Create(def *models.ClassDefinition) error {
	return r.db.Create(def).Error
}

func (r *ClassRepository) GetByID(id uint) (*models.ClassDefinition, error) {
	var def models.ClassDefinition
	err := r.db.First(&def, id).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *ClassRepository) GetActive() ([]models.ClassDefinition, error) {
	var defs []models.ClassDefinition
	err := r.db.Where("is_active = ?", true).Find(&defs).Error
	return defs, err
}

func (r *ClassRepository) GetByTrainer(trainerID uint) ([]models.ClassDefinition, error) {
	var defs []models.ClassDefinition
	err := r.db.Where("trainer_id = ?", trainerID).Find(&defs).Error
	return defs, err
}
