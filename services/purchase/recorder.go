// Package purchase turns a user's cart into a committed purchase.
package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/services/cart"
	"github.com/junaidrashid-git/storefront-api/services/catalog"
	"github.com/junaidrashid-git/storefront-api/services/inventory"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type State string

const (
	StatePending    State = "pending"
	StateValidating State = "validating"
	StateReserving  State = "reserving"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
	StateRejected   State = "rejected"
)

// RejectedError is returned when a purchase is rejected. Stage is the
// state the recorder was in when it gave up; Err carries the apperr kind.
type RejectedError struct {
	UserID uint
	Stage  State
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("purchase for user %d rejected while %s: %v", e.UserID, e.Stage, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

type Recorder struct {
	db       *gorm.DB
	catalog  *catalog.Service
	carts    *cart.Service
	ledger   *inventory.Ledger
	notifier notify.Notifier
	log      *slog.Logger
	now      func() time.Time
}

type Option func(*Recorder)

// WithClock overrides the purchase timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// WithNotifier registers a receiver for committed purchases.
func WithNotifier(n notify.Notifier) Option {
	return func(r *Recorder) { r.notifier = n }
}

func NewRecorder(db *gorm.DB, cat *catalog.Service, carts *cart.Service, ledger *inventory.Ledger, log *slog.Logger, opts ...Option) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	r := &Recorder{
		db:      db,
		catalog: cat,
		carts:   carts,
		ledger:  ledger,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Perform checks out the user's whole cart. Stock decrements, purchase
// counters, the purchase row and the cart deletion commit together or not
// at all. Stock rows are locked in ascending product id order.
func (r *Recorder) Perform(ctx context.Context, userID uint) (models.Purchase, error) {
	state := StatePending
	var (
		purchase models.Purchase
		lines    []models.CartLine
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat, carts, ledger := r.catalog.WithTx(tx), r.carts.WithTx(tx), r.ledger.WithTx(tx)

		if _, err := cat.FindUser(ctx, userID); err != nil {
			return err
		}

		var err error
		lines, err = carts.Lines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrCartEmpty
		}

		state = StateValidating
		stocks := make([]models.Stock, len(lines))
		for i, line := range lines {
			stock, err := ledger.LockByProduct(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if line.Quantity > stock.Quantity {
				return fmt.Errorf("product %q has %d, cart wants %d: %w",
					line.ProductName, stock.Quantity, line.Quantity, apperr.ErrInsufficientStock)
			}
			stocks[i] = stock
		}

		state = StateReserving
		for i, line := range lines {
			if _, err := ledger.Decrease(ctx, stocks[i].ID, line.Quantity); err != nil {
				return err
			}
			if err := cat.IncrementTimesPurchased(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		state = StateCommitting
		purchase = models.Purchase{
			Reference:   uuid.NewString(),
			UserID:      userID,
			TotalAmount: Total(lines),
			PurchasedAt: r.now().UTC(),
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}
		return carts.Clear(ctx, userID)
	})
	if err != nil {
		r.log.Warn("purchase rejected", "user_id", userID, "stage", state, "error", err)
		return models.Purchase{}, &RejectedError{UserID: userID, Stage: state, Err: err}
	}

	r.log.Info("purchase committed",
		"user_id", userID,
		"purchase_id", purchase.ID,
		"reference", purchase.Reference,
		"lines", len(lines),
		"total", purchase.TotalAmount.StringFixed(2),
	)
	r.publish(ctx, purchase, lines)
	return purchase, nil
}

// Total is Σ unit price × quantity over the lines.
func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// publish runs after commit; a failing notifier never undoes the purchase.
func (r *Recorder) publish(ctx context.Context, p models.Purchase, lines []models.CartLine) {
	if r.notifier == nil {
		return
	}
	items := make([]notify.LineItem, len(lines))
	for i, l := range lines {
		items[i] = notify.LineItem{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	event := notify.PurchaseEvent{
		PurchaseID:  p.ID,
		Reference:   p.Reference,
		UserID:      p.UserID,
		TotalAmount: p.TotalAmount,
		PurchasedAt: p.PurchasedAt,
		Items:       items,
	}
	if err := r.notifier.Notify(ctx, event); err != nil {
		r.log.Error("purchase notification failed", "purchase_id", p.ID, "error", err)
	}
}
