package service

import (
	"errors"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	"gorm.io/gorm"
)

// CartService mutates the user's pending purchase. Every operation is
// scoped to the owning user; the cart survives until a confirmed
// payment clears it.
type CartService struct {
	carts    CartStore
	packages PackageStore
}

func NewCartService(carts CartStore, packages PackageStore) *CartService {
	return &CartService{
		carts:    carts,
		packages: packages,
	}
}

func (s *CartService) GetCart(userID uint) (*models.Cart, error) {
	return s.carts.GetOrCreateByUser(userID)
}

// AddItem puts a package into the user's cart, merging with an existing
// line for the same package.
func (s *CartService) AddItem(userID uint, req models.AddCartItemRequest) (*models.Cart, error) {
	pkg, err := s.packages.GetByID(req.PackageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, ErrNotFound
	}

	cart, err := s.carts.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for _, item := range cart.Items {
		if item.PackageID == pkg.ID {
			if err := s.carts.UpdateItemQuantity(item.ID, item.Quantity+req.Quantity); err != nil {
				return nil, err
			}
			merged = true
			break
		}
	}
	if !merged {
		item := &models.CartItem{
			CartID:    cart.ID,
			PackageID: pkg.ID,
			Quantity:  req.Quantity,
		}
		if err := s.carts.AddItem(item); err != nil {
			return nil, err
		}
	}

	return s.carts.GetByUser(userID)
}

// RemoveItem deletes a cart line after verifying it belongs to the
// caller's cart.
func (s *CartService) RemoveItem(userID uint, itemID uint) error {
	cart, err := s.carts.GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	item, err := s.carts.GetItem(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if item.CartID != cart.ID {
		return ErrForbidden
	}

	return s.carts.RemoveItem(item.ID)
}
