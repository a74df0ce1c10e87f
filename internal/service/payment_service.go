package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	pay "github.com/fitgrid/fitgrid-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutProvider is the slice of the Stripe wrapper the service uses.
type CheckoutProvider interface {
	CreateCheckoutSession(userEmail string, items []pay.LineItem, metadata map[string]string, idempotencyKey string) (*stripe.CheckoutSession, error)
}

// PaymentService owns checkout and the webhook reconciler. Checkout
// holds no database locks across the provider call; the reconciler
// applies each confirmed payment in exactly one transaction.
type PaymentService struct {
	db        TxRunner
	provider  CheckoutProvider
	users     UserStore
	carts     CartStore
	ledger    *Ledger
	processed ProcessedPaymentStore
	logger    *zap.Logger
}

func NewPaymentService(db TxRunner, provider CheckoutProvider, users UserStore, carts CartStore, ledger *Ledger, processed ProcessedPaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		db:        db,
		provider:  provider,
		users:     users,
		carts:     carts,
		ledger:    ledger,
		processed: processed,
		logger:    logger,
	}
}

// Checkout opens a provider checkout for the cart's contents. The cart
// is left untouched; it is cleared only when the payment is confirmed,
// so an abandoned checkout can simply be retried.
func (s *PaymentService) Checkout(userID uint) (*models.CheckoutSession, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cart, err := s.carts.GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]pay.LineItem, 0, len(cart.Items))
	var totalCents int64
	for _, item := range cart.Items {
		items = append(items, pay.LineItem{
			Name:       item.Package.Name,
			PriceCents: item.Package.PriceCents,
			Quantity:   int64(item.Quantity),
		})
		totalCents += item.Package.PriceCents * int64(item.Quantity)
	}

	attempts, err := s.carts.IncrementCheckoutAttempts(cart.ID)
	if err != nil {
		return nil, err
	}
	idempotencyKey := fmt.Sprintf("cart-%d-attempt-%d", cart.ID, attempts)

	session, err := s.provider.CreateCheckoutSession(
		user.Email,
		items,
		map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
			"cart_id": fmt.Sprintf("%d", cart.ID),
		},
		idempotencyKey,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.Uint("user_id", userID),
		zap.Uint("cart_id", cart.ID),
		zap.Int64("total_cents", totalCents),
		zap.String("session_id", session.ID),
	)

	return &models.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}

// HandleStripeWebhook applies provider events. A checkout completion is
// reconciled exactly once; re-deliveries of the same payment reference
// return success without further writes.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}

		userID, err := strconv.ParseUint(session.Metadata["user_id"], 10, 32)
		if err != nil {
			return fmt.Errorf("webhook session %s: bad user_id metadata: %w", session.ID, err)
		}
		cartID, err := strconv.ParseUint(session.Metadata["cart_id"], 10, 32)
		if err != nil {
			return fmt.Errorf("webhook session %s: bad cart_id metadata: %w", session.ID, err)
		}

		return s.applyPayment(session.ID, uint(userID), uint(cartID))

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		// Nothing to reconcile; the cart stays intact for retry.
		return nil
	}

	return nil
}

// applyPayment converts the cart into a ledger grant inside one
// transaction: record the reference, grant the credits, clear the cart.
// Any failure rolls back all three, so a provider retry starts clean.
func (s *PaymentService) applyPayment(reference string, userID, cartID uint) error {
	var granted int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.carts.GetByIDTx(tx, cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		credits := 0
		for _, item := range cart.Items {
			credits += item.Package.Credits * item.Quantity
		}

		inserted, err := s.processed.MarkProcessedTx(tx, &models.ProcessedPayment{
			Reference: reference,
			UserID:    userID,
			Credits:   credits,
		})
		if err != nil {
			return err
		}
		if !inserted {
			// Already reconciled on a previous delivery.
			return nil
		}

		if credits > 0 {
			if _, err := s.ledger.GrantTx(tx, userID, credits, reference); err != nil {
				return err
			}
		}
		granted = credits

		return s.carts.ClearItemsTx(tx, cart.ID)
	})
	if err != nil {
		return err
	}

	if granted > 0 {
		s.logger.Info("payment reconciled",
			zap.String("reference", reference),
			zap.Uint("user_id", userID),
			zap.Int("credits", granted),
		)
	}
	return nil
}
