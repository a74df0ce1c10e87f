package repository

import (
	"errors"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateByUser returns the user's cart, creating the row on first
// use. The unique user_id index makes the create race-safe.
func (r *CartRepository) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Package").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		// Lost the race to a concurrent first add; read the winner.
		var existing models.Cart
		if ferr := r.db.Preload("Items.Package").Where("user_id = ?", userID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items.Package").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) GetByIDTx(tx *gorm.DB, cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Preload("Items.Package").First(&cart, cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) AddItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

func (r *CartRepository) GetItem(itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		UpdateColumn("quantity", quantity).Error
}

func (r *CartRepository) RemoveItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// IncrementCheckoutAttempts bumps the cart's attempt counter and
// returns the new value. The counter feeds the provider idempotency
// key, so every distinct attempt gets a distinct key.
func (r *CartRepository) IncrementCheckoutAttempts(cartID uint) (int, error) {
	err := r.db.Model(&models.Cart{}).Where("id = ?", cartID).
		UpdateColumn("checkout_attempts", gorm.Expr("checkout_attempts + 1")).Error
	if err != nil {
		return 0, err
	}

	var cart models.Cart
	if err := r.db.First(&cart, cartID).Error; err != nil {
		return 0, err
	}
	return cart.CheckoutAttempts, nil
}

// ClearItemsTx empties the cart inside the reconciler's transaction.
func (r *CartRepository) ClearItemsTx(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
