package database

import (
	"log"
	"os"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := RunMigrations(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.CreditPackage{},
		&models.Cart{},
		&models.CartItem{},
		&models.ClassDefinition{},
		&models.ClassSession{},
		&models.Booking{},
		&models.CreditLedgerEntry{},
		&models.ProcessedPayment{},
		&models.WorkoutAssignment{},
	)
	if err != nil {
		return err
	}

	return seedCreditPackages(db)
}

// seedCreditPackages inserts the default packages if they are missing.
func seedCreditPackages(db *gorm.DB) error {
	packages := []models.CreditPackage{
		{
			Name:        "Starter 5",
			Description: "5 class credits",
			Credits:     5,
			PriceCents:  2500,
			IsActive:    true,
		},
		{
			Name:        "Regular 10",
			Description: "10 class credits",
			Credits:     10,
			PriceCents:  4500,
			IsActive:    true,
		},
		{
			Name:        "Committed 20",
			Description: "20 class credits",
			Credits:     20,
			PriceCents:  8000,
			IsActive:    true,
		},
		{
			Name:        "Monthly 12",
			Description: "12 class credits, renews monthly",
			Credits:     12,
			PriceCents:  5000,
			Recurring:   true,
			IsActive:    true,
		},
	}

	for _, pkg := range packages {
		var count int64
		if err := db.Model(&models.CreditPackage{}).Where("name = ?", pkg.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&pkg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
