package service

import (
	"database/sql"
	"time"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

// Store interfaces consumed by the services. The concrete
// implementations live in internal/repository; tests substitute
// in-memory fakes. *gorm.DB satisfies TxRunner directly.

type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

type ClassStore interface {
	GetByID(id uint) (*models.ClassDefinition, error)
	GetActive() ([]models.ClassDefinition, error)
	Create(def *models.ClassDefinition) error
	GetByTrainer(trainerID uint) ([]models.ClassDefinition, error)
}

type SessionStore interface {
	EnsureTx(tx *gorm.DB, def *models.ClassDefinition, date time.Time) (*models.ClassSession, error)
	LockTx(tx *gorm.DB, sessionID uint) (*models.ClassSession, error)
	GetByDateRange(from, to time.Time) ([]models.ClassSession, error)
}

type BookingStore interface {
	CreateTx(tx *gorm.DB, booking *models.Booking) error
	SumAttendeesTx(tx *gorm.DB, sessionID uint) (int, error)
	LockByIDTx(tx *gorm.DB, id uint) (*models.Booking, error)
	UpdateStatusTx(tx *gorm.DB, id uint, status string) error
	GetSessionTx(tx *gorm.DB, sessionID uint) (*models.ClassSession, error)
	GetUserBookings(userID uint) ([]models.Booking, error)
	SumAttendeesBySession(sessionIDs []uint) (map[uint]int, error)
}

type LedgerEntryStore interface {
	FindEntryTx(tx *gorm.DB, kind, reference string) (*models.CreditLedgerEntry, error)
	CreateEntryTx(tx *gorm.DB, entry *models.CreditLedgerEntry) error
	AdjustBalanceTx(tx *gorm.DB, userID uint, delta int, minBalance int) (bool, error)
	GetUserHistory(userID uint) ([]models.CreditLedgerEntry, error)
	BalanceFromLedger(userID uint) (int, error)
}

type CartStore interface {
	GetOrCreateByUser(userID uint) (*models.Cart, error)
	GetByUser(userID uint) (*models.Cart, error)
	GetByIDTx(tx *gorm.DB, cartID uint) (*models.Cart, error)
	AddItem(item *models.CartItem) error
	GetItem(itemID uint) (*models.CartItem, error)
	UpdateItemQuantity(itemID uint, quantity int) error
	RemoveItem(itemID uint) error
	IncrementCheckoutAttempts(cartID uint) (int, error)
	ClearItemsTx(tx *gorm.DB, cartID uint) error
}

type PackageStore interface {
	GetByID(id uint) (*models.CreditPackage, error)
	GetAll() ([]models.CreditPackage, error)
}

type ProcessedPaymentStore interface {
	MarkProcessedTx(tx *gorm.DB, payment *models.ProcessedPayment) (bool, error)
}

type WorkoutStore interface {
	UpsertTx(tx *gorm.DB, workout *models.WorkoutAssignment) error
	GetBySessionIDs(sessionIDs []uint) ([]models.WorkoutAssignment, error)
}
