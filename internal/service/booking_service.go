package service

import (
	"errors"
	"time"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultCancellationCutoff is how close to session start a booking can
// still be cancelled with a refund. Policy pending a final product
// decision; configurable via CANCELLATION_CUTOFF_MINUTES.
const DefaultCancellationCutoff = 2 * time.Hour

// BookingService is the reservation engine. Reserve and Cancel each run
// in a single transaction that serializes on the contended rows (the
// session for capacity, the user for balance), so the capacity check
// and the credit debit commit or roll back together.
type BookingService struct {
	db       TxRunner
	classes  ClassStore
	sessions SessionStore
	bookings BookingStore
	ledger   *Ledger
	cutoff   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewBookingService(db TxRunner, classes ClassStore, sessions SessionStore, bookings BookingStore, ledger *Ledger, cutoff time.Duration, logger *zap.Logger) *BookingService {
	if cutoff <= 0 {
		cutoff = DefaultCancellationCutoff
	}
	return &BookingService{
		db:       db,
		classes:  classes,
		sessions: sessions,
		bookings: bookings,
		ledger:   ledger,
		cutoff:   cutoff,
		now:      time.Now,
		logger:   logger,
	}
}

// Reserve books attendeeCount seats on the class occurrence at date and
// debits one credit per seat. Fails with ErrCapacityExceeded or
// ErrInsufficientCredits; in either case nothing is written.
func (s *BookingService) Reserve(userID uint, req models.CreateBookingRequest) (*models.Booking, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, ErrNotFound
	}

	def, err := s.classes.GetByID(req.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !def.IsActive || !scheduledOn(def, date) {
		return nil, ErrNotFound
	}

	var booking *models.Booking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.EnsureTx(tx, def, date)
		if err != nil {
			return err
		}

		// Serializes every reserve against this occurrence.
		session, err = s.sessions.LockTx(tx, session.ID)
		if err != nil {
			return err
		}

		taken, err := s.bookings.SumAttendeesTx(tx, session.ID)
		if err != nil {
			return err
		}
		if taken+req.AttendeeCount > session.MaxCapacity {
			return ErrCapacityExceeded
		}

		reference := uuid.NewString()
		// Capacity is never consumed without a matching debit.
		if err := s.ledger.DebitTx(tx, userID, req.AttendeeCount, reference); err != nil {
			return err
		}

		booking = &models.Booking{
			UserID:        userID,
			SessionID:     session.ID,
			Reference:     reference,
			AttendeeCount: req.AttendeeCount,
			Status:        models.BookingStatusConfirmed,
		}
		return s.bookings.CreateTx(tx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking reserved",
		zap.Uint("user_id", userID),
		zap.Uint("class_id", req.ClassID),
		zap.String("date", req.Date),
		zap.Int("attendees", req.AttendeeCount),
	)
	return booking, nil
}

// Cancel voids the booking and refunds its debit exactly once, provided
// the cancellation window is still open. Cancelling an already
// cancelled booking is a no-op success.
func (s *BookingService) Cancel(userID uint, bookingID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		booking, err := s.bookings.LockByIDTx(tx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if booking.UserID != userID {
			return ErrForbidden
		}
		if booking.Status == models.BookingStatusCancelled {
			return nil
		}

		session, err := s.bookings.GetSessionTx(tx, booking.SessionID)
		if err != nil {
			return err
		}
		if !s.now().Before(session.StartsAt().Add(-s.cutoff)) {
			return ErrCancellationWindowClosed
		}

		if err := s.bookings.UpdateStatusTx(tx, booking.ID, models.BookingStatusCancelled); err != nil {
			return err
		}

		// Same reference as the debit; the ledger refuses a second
		// refund for it.
		_, err = s.ledger.RefundTx(tx, booking.UserID, booking.AttendeeCount, booking.Reference)
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info("booking cancelled",
		zap.Uint("user_id", userID),
		zap.Uint("booking_id", bookingID),
	)
	return nil
}

func (s *BookingService) GetUserBookings(userID uint) ([]models.Booking, error) {
	return s.bookings.GetUserBookings(userID)
}

func scheduledOn(def *models.ClassDefinition, date time.Time) bool {
	weekday := int(date.Weekday())
	for _, d := range def.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
