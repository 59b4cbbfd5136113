package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/database/dbtest"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/services/cart"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.PurchaseEvent
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, e notify.PurchaseEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

type env struct {
	db       *gorm.DB
	catalog  *catalog.Service
	carts    *cart.Service
	ledger   *inventory.Ledger
	recorder *Recorder
	notifier *recordingNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvOn(dbtest.New(t))
}

func newEnvOn(db *gorm.DB) *env {
	e := &env{
		db:       db,
		catalog:  catalog.NewService(db, nil),
		carts:    cart.NewService(db, nil),
		ledger:   inventory.NewLedger(db, nil),
		notifier: &recordingNotifier{},
	}
	e.recorder = NewRecorder(db, e.catalog, e.carts, e.ledger, nil,
		WithClock(func() time.Time { return fixedNow }),
		WithNotifier(e.notifier),
	)
	return e
}

func (e *env) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: models.RoleClient}
	require.NoError(t, e.db.Create(&u).Error)
	return u
}

func (e *env) product(t *testing.T, name, price string, quantity int) (models.Product, models.Stock) {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), catalog.NewProduct{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	s, err := e.ledger.Register(context.Background(), p.ID, quantity)
	require.NoError(t, err)
	return p, s
}

func (e *env) quantity(t *testing.T, stockID uint) int {
	t.Helper()
	s, err := e.ledger.FindByID(context.Background(), stockID)
	require.NoError(t, err)
	return s.Quantity
}

func (e *env) timesPurchased(t *testing.T, productID uint) int {
	t.Helper()
	p, err := e.catalog.FindProduct(context.Background(), productID)
	require.NoError(t, err)
	return p.TimesPurchased
}

func (e *env) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func TestPerformCommitsEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ana")
	a, stockA := e.product(t, "a", "10.00", 5)
	b, stockB := e.product(t, "b", "5.00", 3)

	require.NoError(t, e.carts.Add(ctx, u.ID, a.ID, 2))
	require.NoError(t, e.carts.Add(ctx, u.ID, b.ID, 1))

	p, err := e.recorder.Perform(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.00").Equal(p.TotalAmount), "total %s", p.TotalAmount)
	assert.Equal(t, u.ID, p.UserID)
	assert.True(t, fixedNow.Equal(p.PurchasedAt))
	assert.Len(t, p.Reference, 36)

	assert.Equal(t, 3, e.quantity(t, stockA.ID))
	assert.Equal(t, 2, e.quantity(t, stockB.ID))
	assert.Equal(t, 2, e.timesPurchased(t, a.ID))
	assert.Equal(t, 1, e.timesPurchased(t, b.ID))
	assert.Zero(t, e.count(t, &models.CartItem{}))
	assert.Equal(t, int64(1), e.count(t, &models.Purchase{}))

	require.Len(t, e.notifier.events, 1)
	ev := e.notifier.events[0]
	assert.Equal(t, p.ID, ev.PurchaseID)
	assert.Equal(t, p.Reference, ev.Reference)
	require.Len(t, ev.Items, 2)
	assert.Equal(t, a.ID, ev.Items[0].ProductID)
	assert.Equal(t, 2, ev.Items[0].Quantity)
}

func TestPerformEmptyCart(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ana")
	_, stock := e.product(t, "a", "10.00", 5)

	_, err := e.recorder.Perform(context.Background(), u.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrCartEmpty)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, StatePending, rejected.Stage)

	assert.Equal(t, 5, e.quantity(t, stock.ID))
	assert.Zero(t, e.count(t, &models.Purchase{}))
	assert.Empty(t, e.notifier.events)
}

func TestPerformUnknownUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.recorder.Perform(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPerformInsufficientStockChangesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ana")
	a, stockA := e.product(t, "a", "10.00", 5)
	b, stockB := e.product(t, "b", "5.00", 1)

	require.NoError(t, e.carts.Add(ctx, u.ID, a.ID, 2))
	require.NoError(t, e.carts.Add(ctx, u.ID, b.ID, 2))

	_, err := e.recorder.Perform(ctx, u.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Contains(t, err.Error(), `"b"`)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, StateValidating, rejected.Stage)

	assert.Equal(t, 5, e.quantity(t, stockA.ID))
	assert.Equal(t, 1, e.quantity(t, stockB.ID))
	assert.Zero(t, e.timesPurchased(t, a.ID))
	assert.Equal(t, int64(2), e.count(t, &models.CartItem{}))
	assert.Zero(t, e.count(t, &models.Purchase{}))
}

func TestPerformMissingStockRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ana")
	p, err := e.catalog.CreateProduct(ctx, catalog.NewProduct{Name: "ghost", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.NoError(t, e.carts.Add(ctx, u.ID, p.ID, 1))

	_, err = e.recorder.Perform(ctx, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, int64(1), e.count(t, &models.CartItem{}))
}

func TestNotifierFailureKeepsPurchase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.notifier.err = errors.New("socket gone")
	u := e.user(t, "ana")
	a, _ := e.product(t, "a", "1.00", 1)
	require.NoError(t, e.carts.Add(ctx, u.ID, a.ID, 1))

	_, err := e.recorder.Perform(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.count(t, &models.Purchase{}))
}

// The two carts together want more than the shelf holds; on postgres the
// checkouts really overlap, so only the row lock keeps one of them out.
func TestConcurrentPurchasesNeverOversell(t *testing.T) {
	dbtest.Each(t, func(t *testing.T, db *gorm.DB) {
		e := newEnvOn(db)
		ctx := context.Background()
		a, stock := e.product(t, "a", "2.00", 5)

		ana, bob := e.user(t, "ana"), e.user(t, "bob")
		require.NoError(t, e.carts.Add(ctx, ana.ID, a.ID, 3))
		require.NoError(t, e.carts.Add(ctx, bob.ID, a.ID, 3))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, u := range []models.User{ana, bob} {
			wg.Add(1)
			go func(i int, userID uint) {
				defer wg.Done()
				_, errs[i] = e.recorder.Perform(ctx, userID)
			}(i, u.ID)
		}
		wg.Wait()

		var ok, short int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperr.ErrInsufficientStock):
				short++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, short)
		assert.Equal(t, 2, e.quantity(t, stock.ID))
		assert.Equal(t, 3, e.timesPurchased(t, a.ID))
		assert.Equal(t, int64(1), e.count(t, &models.Purchase{}))
	})
}

func TestConcurrentSingleUnitBuyers(t *testing.T) {
	dbtest.Each(t, func(t *testing.T, db *gorm.DB) {
		e := newEnvOn(db)
		ctx := context.Background()
		a, stock := e.product(t, "a", "1.00", 5)

		const buyers = 12
		users := make([]models.User, buyers)
		for i := range users {
			users[i] = e.user(t, fmt.Sprintf("u%d", i))
			require.NoError(t, e.carts.Add(ctx, users[i].ID, a.ID, 1))
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			failures  []error
		)
		start := make(chan struct{})
		for _, u := range users {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				<-start
				_, err := e.recorder.Perform(ctx, userID)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					succeeded++
				} else {
					failures = append(failures, err)
				}
			}(u.ID)
		}
		close(start)
		wg.Wait()

		for _, err := range failures {
			assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
		}
		assert.Equal(t, 5, succeeded)
		assert.Zero(t, e.quantity(t, stock.ID))
		assert.Equal(t, 5, e.timesPurchased(t, a.ID))
		assert.Equal(t, int64(5), e.count(t, &models.Purchase{}))
		assert.Equal(t, int64(buyers-5), e.count(t, &models.CartItem{}))
	})
}

// Buyers of two products put them in opposite cart order; locking by
// product id keeps the checkouts from deadlocking each other.
func TestConcurrentCrossedCartsDoNotDeadlock(t *testing.T) {
	dbtest.Each(t, func(t *testing.T, db *gorm.DB) {
		e := newEnvOn(db)
		ctx := context.Background()
		a, stockA := e.product(t, "a", "1.00", 20)
		b, stockB := e.product(t, "b", "1.00", 20)

		const buyers = 8
		users := make([]models.User, buyers)
		for i := range users {
			users[i] = e.user(t, fmt.Sprintf("u%d", i))
			first, second := a.ID, b.ID
			if i%2 == 1 {
				first, second = second, first
			}
			require.NoError(t, e.carts.Add(ctx, users[i].ID, first, 1))
			require.NoError(t, e.carts.Add(ctx, users[i].ID, second, 1))
		}

		var wg sync.WaitGroup
		errs := make([]error, buyers)
		for i, u := range users {
			wg.Add(1)
			go func(i int, userID uint) {
				defer wg.Done()
				_, errs[i] = e.recorder.Perform(ctx, userID)
			}(i, u.ID)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}
		assert.Equal(t, 20-buyers, e.quantity(t, stockA.ID))
		assert.Equal(t, 20-buyers, e.quantity(t, stockB.ID))
	})
}

// Deactivating a product only stops new adds: a line already in the cart
// is still bought at checkout.
func TestPerformBuysLinesDeactivatedAfterAdd(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ana")
	a, stock := e.product(t, "a", "4.00", 5)

	require.NoError(t, e.carts.Add(ctx, u.ID, a.ID, 2))
	require.NoError(t, e.catalog.Deactivate(ctx, a.ID))

	err := e.carts.Add(ctx, u.ID, a.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrProductInactive)

	p, err := e.recorder.Perform(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("8.00").Equal(p.TotalAmount), "total %s", p.TotalAmount)
	assert.Equal(t, 3, e.quantity(t, stock.ID))
	assert.Equal(t, 2, e.timesPurchased(t, a.ID))
	assert.Zero(t, e.count(t, &models.CartItem{}))
}

func TestTotal(t *testing.T) {
	lines := []models.CartLine{
		{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
		{UnitPrice: decimal.RequireFromString("19.99"), Quantity: 2},
	}
	assert.Equal(t, "40.28", Total(lines).StringFixed(2))
	assert.True(t, Total(nil).IsZero())
}
