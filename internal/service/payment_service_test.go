package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"github.com/fitgrid/fitgrid-backend/internal/models"
)

func (e *testEnv) addPackage(name string, credits int, priceCents int64) *models.CreditPackage {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	p := &models.CreditPackage{
		ID:         e.db.id(),
		Name:       name,
		Credits:    credits,
		PriceCents: priceCents,
		IsActive:   true,
	}
	e.db.packages[p.ID] = p
	return p
}

func (e *testEnv) addCartWithItem(userID, packageID uint, quantity int) *models.Cart {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	cart := &models.Cart{ID: e.db.id(), UserID: userID}
	e.db.carts[cart.ID] = cart
	item := &models.CartItem{
		ID:        e.db.id(),
		CartID:    cart.ID,
		PackageID: packageID,
		Quantity:  quantity,
	}
	e.db.items[item.ID] = item
	return cart
}

func (e *testEnv) cartItemCount(cartID uint) int {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	n := 0
	for _, item := range e.db.items {
		if item.CartID == cartID {
			n++
		}
	}
	return n
}

func completedEvent(t *testing.T, reference string, userID, cartID uint) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id": reference,
		"metadata": map[string]string{
			"user_id": fmt.Sprintf("%d", userID),
			"cart_id": fmt.Sprintf("%d", cartID),
		},
	})
	require.NoError(t, err)
	return &stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCheckoutBuildsSessionFromCart(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)
	pkg := env.addPackage("Regular", 10, 4500)
	cart := env.addCartWithItem(user.ID, pkg.ID, 2)

	session, err := env.payment.Checkout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.NotEmpty(t, session.URL)

	require.Len(t, env.provider.calls, 1)
	call := env.provider.calls[0]
	assert.Equal(t, user.Email, call.email)
	require.Len(t, call.items, 1)
	assert.Equal(t, "Regular", call.items[0].Name)
	assert.Equal(t, int64(4500), call.items[0].PriceCents)
	assert.Equal(t, int64(2), call.items[0].Quantity)
	assert.Equal(t, fmt.Sprintf("%d", cart.ID), call.metadata["cart_id"])

	// Checkout never clears the cart; only a confirmed payment does.
	assert.Equal(t, 1, env.cartItemCount(cart.ID))
}

func TestCheckoutIdempotencyKeyAdvancesPerAttempt(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)
	pkg := env.addPackage("Starter", 5, 2500)
	cart := env.addCartWithItem(user.ID, pkg.ID, 1)

	_, err := env.payment.Checkout(user.ID)
	require.NoError(t, err)
	_, err = env.payment.Checkout(user.ID)
	require.NoError(t, err)

	require.Len(t, env.provider.calls, 2)
	assert.Equal(t, fmt.Sprintf("cart-%d-attempt-1", cart.ID), env.provider.calls[0].idempotencyKey)
	assert.Equal(t, fmt.Sprintf("cart-%d-attempt-2", cart.ID), env.provider.calls[1].idempotencyKey)
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)

	_, err := env.payment.Checkout(user.ID)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, env.provider.calls)
}

func TestWebhookDoubleDeliveryGrantsOnce(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)
	pkg := env.addPackage("Committed", 20, 8000)
	cart := env.addCartWithItem(user.ID, pkg.ID, 1)

	event := completedEvent(t, "cs_live_abc", user.ID, cart.ID)

	require.NoError(t, env.payment.HandleStripeWebhook(event))
	assert.Equal(t, 20, env.balance(user.ID))
	assert.Equal(t, 0, env.cartItemCount(cart.ID))

	// Provider retry with the same payment reference.
	require.NoError(t, env.payment.HandleStripeWebhook(event))
	assert.Equal(t, 20, env.balance(user.ID))

	history, err := env.entries.GetUserHistory(user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.Equal(t, models.LedgerKindGrant, history[0].Kind)
	assert.Equal(t, "cs_live_abc", history[0].Reference)
}

func TestWebhookGrantsSumOfCartItems(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(3, models.RoleClient)
	starter := env.addPackage("Starter", 5, 2500)
	regular := env.addPackage("Regular", 10, 4500)
	cart := env.addCartWithItem(user.ID, starter.ID, 2)
	env.db.mu.Lock()
	item := &models.CartItem{ID: env.db.id(), CartID: cart.ID, PackageID: regular.ID, Quantity: 1}
	env.db.items[item.ID] = item
	env.db.mu.Unlock()

	event := completedEvent(t, "cs_live_mix", user.ID, cart.ID)
	require.NoError(t, env.payment.HandleStripeWebhook(event))

	// 3 existing + 2*5 + 1*10
	assert.Equal(t, 23, env.balance(user.ID))
	assert.Equal(t, 0, env.cartItemCount(cart.ID))
}

func TestWebhookIgnoresNonCompletionEvents(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)
	pkg := env.addPackage("Starter", 5, 2500)
	cart := env.addCartWithItem(user.ID, pkg.ID, 1)

	for _, typ := range []string{"checkout.session.expired", "checkout.session.async_payment_failed"} {
		event := &stripe.Event{Type: typ, Data: &stripe.EventData{Raw: json.RawMessage(`{}`)}}
		require.NoError(t, env.payment.HandleStripeWebhook(event))
	}

	assert.Equal(t, 0, env.balance(user.ID))
	assert.Equal(t, 1, env.cartItemCount(cart.ID))
}

func TestWebhookUnknownCartRollsBack(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(0, models.RoleClient)

	event := completedEvent(t, "cs_live_ghost", user.ID, 424242)
	err := env.payment.HandleStripeWebhook(event)
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing recorded, so a corrected retry can still apply.
	env.db.mu.Lock()
	processed := len(env.db.processed)
	env.db.mu.Unlock()
	assert.Zero(t, processed)
	assert.Equal(t, 0, env.balance(user.ID))
}
