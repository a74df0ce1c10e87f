package service

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"github.com/fitgrid/fitgrid-backend/internal/models"
	pay "github.com/fitgrid/fitgrid-backend/pkg/payment"
)

// memDB backs the store fakes. One mutex stands in for the database's
// row locks: Transaction holds it for the whole callback, serializing
// transactions the way the session row lock serializes reserves.
// A failed callback restores the pre-transaction state, mirroring a
// rollback.
type memDB struct {
	mu     sync.Mutex
	nextID uint

	users     map[uint]*models.User
	classes   map[uint]*models.ClassDefinition
	sessions  map[uint]*models.ClassSession
	bookings  map[uint]*models.Booking
	entries   []*models.CreditLedgerEntry
	carts     map[uint]*models.Cart
	items     map[uint]*models.CartItem
	packages  map[uint]*models.CreditPackage
	processed map[string]*models.ProcessedPayment
	workouts  map[uint]*models.WorkoutAssignment
}

func newMemDB() *memDB {
	return &memDB{
		users:     make(map[uint]*models.User),
		classes:   make(map[uint]*models.ClassDefinition),
		sessions:  make(map[uint]*models.ClassSession),
		bookings:  make(map[uint]*models.Booking),
		carts:     make(map[uint]*models.Cart),
		items:     make(map[uint]*models.CartItem),
		packages:  make(map[uint]*models.CreditPackage),
		processed: make(map[string]*models.ProcessedPayment),
		workouts:  make(map[uint]*models.WorkoutAssignment),
	}
}

func (d *memDB) id() uint {
	d.nextID++
	return d.nextID
}

func cloneMap[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

type memState struct {
	nextID    uint
	users     map[uint]*models.User
	classes   map[uint]*models.ClassDefinition
	sessions  map[uint]*models.ClassSession
	bookings  map[uint]*models.Booking
	entries   []*models.CreditLedgerEntry
	carts     map[uint]*models.Cart
	items     map[uint]*models.CartItem
	packages  map[uint]*models.CreditPackage
	processed map[string]*models.ProcessedPayment
	workouts  map[uint]*models.WorkoutAssignment
}

func (d *memDB) snapshot() memState {
	entries := make([]*models.CreditLedgerEntry, len(d.entries))
	for i, e := range d.entries {
		cp := *e
		entries[i] = &cp
	}
	return memState{
		nextID:    d.nextID,
		users:     cloneMap(d.users),
		classes:   cloneMap(d.classes),
		sessions:  cloneMap(d.sessions),
		bookings:  cloneMap(d.bookings),
		entries:   entries,
		carts:     cloneMap(d.carts),
		items:     cloneMap(d.items),
		packages:  cloneMap(d.packages),
		processed: cloneMap(d.processed),
		workouts:  cloneMap(d.workouts),
	}
}

func (d *memDB) restore(s memState) {
	d.nextID = s.nextID
	d.users = s.users
	d.classes = s.classes
	d.sessions = s.sessions
	d.bookings = s.bookings
	d.entries = s.entries
	d.carts = s.carts
	d.items = s.items
	d.packages = s.packages
	d.processed = s.processed
	d.workouts = s.workouts
}

// Transaction implements TxRunner. The callback receives a nil
// *gorm.DB; the Tx fakes ignore it and operate under the held mutex.
func (d *memDB) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	snap := d.snapshot()
	if err := fc(nil); err != nil {
		d.restore(snap)
		return err
	}
	return nil
}

// --- users ---

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

// --- classes ---

type fakeClasses struct{ db *memDB }

func (f *fakeClasses) GetByID(id uint) (*models.ClassDefinition, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClasses) GetActive() ([]models.ClassDefinition, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.ClassDefinition
	for _, c := range f.db.classes {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeClasses) Create(def *models.ClassDefinition) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	def.ID = f.db.id()
	cp := *def
	f.db.classes[def.ID] = &cp
	return nil
}

func (f *fakeClasses) GetByTrainer(trainerID uint) ([]models.ClassDefinition, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.ClassDefinition
	for _, c := range f.db.classes {
		if c.TrainerID == trainerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

// --- sessions ---

type fakeSessions struct{ db *memDB }

func (f *fakeSessions) EnsureTx(_ *gorm.DB, def *models.ClassDefinition, date time.Time) (*models.ClassSession, error) {
	for _, s := range f.db.sessions {
		if s.ClassID == def.ID && s.Date.Equal(date) {
			cp := *s
			return &cp, nil
		}
	}
	s := &models.ClassSession{
		ID:          f.db.id(),
		ClassID:     def.ID,
		Date:        date,
		StartTime:   def.StartTime,
		MaxCapacity: def.MaxCapacity,
	}
	f.db.sessions[s.ID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) LockTx(_ *gorm.DB, sessionID uint) (*models.ClassSession, error) {
	s, ok := f.db.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) GetByDateRange(from, to time.Time) ([]models.ClassSession, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.ClassSession
	for _, s := range f.db.sessions {
		if !s.Date.Before(from) && s.Date.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// --- bookings ---

type fakeBookings struct{ db *memDB }

func (f *fakeBookings) CreateTx(_ *gorm.DB, booking *models.Booking) error {
	booking.ID = f.db.id()
	cp := *booking
	f.db.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookings) SumAttendeesTx(_ *gorm.DB, sessionID uint) (int, error) {
	sum := 0
	for _, b := range f.db.bookings {
		if b.SessionID == sessionID && b.Status != models.BookingStatusCancelled {
			sum += b.AttendeeCount
		}
	}
	return sum, nil
}

func (f *fakeBookings) LockByIDTx(_ *gorm.DB, id uint) (*models.Booking, error) {
	b, ok := f.db.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) UpdateStatusTx(_ *gorm.DB, id uint, status string) error {
	b, ok := f.db.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookings) GetSessionTx(_ *gorm.DB, sessionID uint) (*models.ClassSession, error) {
	s, ok := f.db.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeBookings) GetUserBookings(userID uint) ([]models.Booking, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.Booking
	for _, b := range f.db.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) SumAttendeesBySession(sessionIDs []uint) (map[uint]int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	counts := make(map[uint]int)
	for _, id := range sessionIDs {
		for _, b := range f.db.bookings {
			if b.SessionID == id && b.Status != models.BookingStatusCancelled {
				counts[id] += b.AttendeeCount
			}
		}
	}
	return counts, nil
}

// --- ledger entries ---

type fakeLedgerEntries struct{ db *memDB }

func (f *fakeLedgerEntries) FindEntryTx(_ *gorm.DB, kind, reference string) (*models.CreditLedgerEntry, error) {
	for _, e := range f.db.entries {
		if e.Kind == kind && e.Reference == reference {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLedgerEntries) CreateEntryTx(_ *gorm.DB, entry *models.CreditLedgerEntry) error {
	entry.ID = f.db.id()
	cp := *entry
	f.db.entries = append(f.db.entries, &cp)
	return nil
}

func (f *fakeLedgerEntries) AdjustBalanceTx(_ *gorm.DB, userID uint, delta int, minBalance int) (bool, error) {
	u, ok := f.db.users[userID]
	if !ok || u.Credits < minBalance {
		return false, nil
	}
	u.Credits += delta
	return true, nil
}

func (f *fakeLedgerEntries) GetUserHistory(userID uint) ([]models.CreditLedgerEntry, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.CreditLedgerEntry
	for _, e := range f.db.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeLedgerEntries) BalanceFromLedger(userID uint) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	sum := 0
	for _, e := range f.db.entries {
		if e.UserID == userID {
			sum += e.Delta
		}
	}
	return sum, nil
}

// --- carts ---

type fakeCarts struct{ db *memDB }

func (f *fakeCarts) cartWithItems(cart *models.Cart) *models.Cart {
	cp := *cart
	cp.Items = nil
	for _, item := range f.db.items {
		if item.CartID == cart.ID {
			it := *item
			if pkg, ok := f.db.packages[it.PackageID]; ok {
				it.Package = *pkg
			}
			cp.Items = append(cp.Items, it)
		}
	}
	return &cp
}

func (f *fakeCarts) GetOrCreateByUser(userID uint) (*models.Cart, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.carts {
		if c.UserID == userID {
			return f.cartWithItems(c), nil
		}
	}
	cart := &models.Cart{ID: f.db.id(), UserID: userID}
	f.db.carts[cart.ID] = cart
	return f.cartWithItems(cart), nil
}

func (f *fakeCarts) GetByUser(userID uint) (*models.Cart, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, c := range f.db.carts {
		if c.UserID == userID {
			return f.cartWithItems(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCarts) GetByIDTx(_ *gorm.DB, cartID uint) (*models.Cart, error) {
	c, ok := f.db.carts[cartID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cartWithItems(c), nil
}

func (f *fakeCarts) AddItem(item *models.CartItem) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	item.ID = f.db.id()
	cp := *item
	f.db.items[item.ID] = &cp
	return nil
}

func (f *fakeCarts) GetItem(itemID uint) (*models.CartItem, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	item, ok := f.db.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *item
	return &cp, nil
}

func (f *fakeCarts) UpdateItemQuantity(itemID uint, quantity int) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	item, ok := f.db.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCarts) RemoveItem(itemID uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	delete(f.db.items, itemID)
	return nil
}

func (f *fakeCarts) IncrementCheckoutAttempts(cartID uint) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.carts[cartID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	c.CheckoutAttempts++
	return c.CheckoutAttempts, nil
}

func (f *fakeCarts) ClearItemsTx(_ *gorm.DB, cartID uint) error {
	for id, item := range f.db.items {
		if item.CartID == cartID {
			delete(f.db.items, id)
		}
	}
	return nil
}

// --- packages ---

type fakePackages struct{ db *memDB }

func (f *fakePackages) GetByID(id uint) (*models.CreditPackage, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.packages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePackages) GetAll() ([]models.CreditPackage, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.CreditPackage
	for _, p := range f.db.packages {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- processed payments ---

type fakeProcessed struct{ db *memDB }

func (f *fakeProcessed) MarkProcessedTx(_ *gorm.DB, payment *models.ProcessedPayment) (bool, error) {
	if _, ok := f.db.processed[payment.Reference]; ok {
		return false, nil
	}
	payment.ID = f.db.id()
	cp := *payment
	f.db.processed[payment.Reference] = &cp
	return true, nil
}

// --- workouts ---

type fakeWorkouts struct{ db *memDB }

func (f *fakeWorkouts) UpsertTx(_ *gorm.DB, workout *models.WorkoutAssignment) error {
	if existing, ok := f.db.workouts[workout.SessionID]; ok {
		existing.TrainerID = workout.TrainerID
		existing.Title = workout.Title
		existing.Notes = workout.Notes
		workout.ID = existing.ID
		return nil
	}
	workout.ID = f.db.id()
	cp := *workout
	f.db.workouts[workout.SessionID] = &cp
	return nil
}

func (f *fakeWorkouts) GetBySessionIDs(sessionIDs []uint) ([]models.WorkoutAssignment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []models.WorkoutAssignment
	for _, id := range sessionIDs {
		if w, ok := f.db.workouts[id]; ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

// --- checkout provider ---

type providerCall struct {
	email          string
	items          []pay.LineItem
	metadata       map[string]string
	idempotencyKey string
}

type fakeProvider struct {
	mu    sync.Mutex
	calls []providerCall
	err   error
}

func (f *fakeProvider) CreateCheckoutSession(userEmail string, items []pay.LineItem, metadata map[string]string, idempotencyKey string) (*stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, providerCall{
		email:          userEmail,
		items:          items,
		metadata:       metadata,
		idempotencyKey: idempotencyKey,
	})
	return &stripe.CheckoutSession{
		ID:  fmt.Sprintf("cs_test_%d", len(f.calls)),
		URL: "https://checkout.stripe.test/session",
	}, nil
}
