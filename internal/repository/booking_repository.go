package repository

import (
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateTx(tx *gorm.DB, booking *models.Booking) error {
	return tx.Create(booking).Error
}

// SumAttendeesTx returns the committed seat total for a session,
// counting only non-cancelled bookings. The caller must already hold
// the session row lock.
func (r *BookingRepository) SumAttendeesTx(tx *gorm.DB, sessionID uint) (int, error) {
	var sum int
	err := tx.Model(&models.Booking{}).
		Where("session_id = ? AND status <> ?", sessionID, models.BookingStatusCancelled).
		Select("COALESCE(SUM(attendee_count), 0)").
		Scan(&sum).Error
	return sum, err
}

// LockByIDTx fetches the booking FOR UPDATE so that concurrent cancels
// of the same booking serialize.
func (r *BookingRepository) LockByIDTx(tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) UpdateStatusTx(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&models.Booking{}).Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *BookingRepository) GetSessionTx(tx *gorm.DB, sessionID uint) (*models.ClassSession, error) {
	var session models.ClassSession
	err := tx.First(&session, sessionID).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *BookingRepository) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("Session").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// SumAttendeesBySession returns committed seat totals for a set of
// sessions in one query. Feeds the schedule availability view.
func (r *BookingRepository) SumAttendeesBySession(sessionIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int)
	if len(sessionIDs) == 0 {
		return counts, nil
	}

	type row struct {
		SessionID uint
		Total     int
	}
	var rows []row
	err := r.db.Model(&models.Booking{}).
		Where("session_id IN ? AND status <> ?", sessionIDs, models.BookingStatusCancelled).
		Select("session_id, COALESCE(SUM(attendee_count), 0) AS total").
		Group("session_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.SessionID] = r.Total
	}
	return counts, nil
}
