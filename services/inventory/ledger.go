// Package inventory owns every mutation of stock quantities.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockView is a stock row joined with its product's name.
type StockView struct {
	ID             uint   `json:"id"`
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	TimesPurchased int    `json:"times_purchased"`
}

// Ledger reads and writes stock rows. Quantity changes are single
// conditional UPDATE statements, so each one is atomic against its row
// without relying on the transaction isolation level.
type Ledger struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

func NewLedger(db *gorm.DB, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{db: db, log: log, now: time.Now}
}

// WithTx returns a ledger bound to tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, log: l.log, now: l.now}
}

// Register creates the stock row of a product. A product has at most one.
func (l *Ledger) Register(ctx context.Context, productID uint, quantity int) (models.Stock, error) {
	if quantity < 0 {
		return models.Stock{}, apperr.ErrInvalidQuantity
	}

	var product models.Product
	if err := l.db.WithContext(ctx).Select("id").First(&product, productID).Error; err != nil {
		return models.Stock{}, notFound(err, "product %d", productID)
	}

	var existing int64
	if err := l.db.WithContext(ctx).Model(&models.Stock{}).Where("product_id = ?", productID).Count(&existing).Error; err != nil {
		return models.Stock{}, err
	}
	if existing > 0 {
		return models.Stock{}, fmt.Errorf("product %d: %w", productID, apperr.ErrDuplicateStock)
	}

	stock := models.Stock{ProductID: productID, Quantity: quantity}
	if err := l.db.WithContext(ctx).Create(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Stock{}, fmt.Errorf("product %d: %w", productID, apperr.ErrDuplicateStock)
		}
		return models.Stock{}, err
	}

	l.log.Info("stock registered", "stock_id", stock.ID, "product_id", productID, "quantity", quantity)
	return stock, nil
}

// Increase adds quantity to a stock row. There is no upper bound.
func (l *Ledger) Increase(ctx context.Context, stockID uint, quantity int) (models.Stock, error) {
	if quantity <= 0 {
		return models.Stock{}, apperr.ErrInvalidQuantity
	}

	res := l.db.WithContext(ctx).Model(&models.Stock{}).
		Where("id = ?", stockID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": l.now(),
		})
	if res.Error != nil {
		return models.Stock{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Stock{}, fmt.Errorf("stock %d: %w", stockID, apperr.ErrNotFound)
	}

	stock, err := l.FindByID(ctx, stockID)
	if err != nil {
		return models.Stock{}, err
	}
	l.log.Debug("stock increased", "stock_id", stockID, "by", quantity, "quantity", stock.Quantity)
	return stock, nil
}

// Decrease subtracts quantity from a stock row. It fails with
// ErrInsufficientStock and leaves the row untouched when quantity exceeds
// what is on hand; the guard lives in the WHERE clause so two callers can
// never both pass it against the same units.
func (l *Ledger) Decrease(ctx context.Context, stockID uint, quantity int) (models.Stock, error) {
	if quantity <= 0 {
		return models.Stock{}, apperr.ErrInvalidQuantity
	}

	res := l.db.WithContext(ctx).Model(&models.Stock{}).
		Where("id = ? AND quantity >= ?", stockID, quantity).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", quantity),
			"updated_at": l.now(),
		})
	if res.Error != nil {
		return models.Stock{}, res.Error
	}
	if res.RowsAffected == 0 {
		stock, err := l.FindByID(ctx, stockID)
		if err != nil {
			return models.Stock{}, err
		}
		return models.Stock{}, fmt.Errorf("stock %d has %d, requested %d: %w",
			stockID, stock.Quantity, quantity, apperr.ErrInsufficientStock)
	}

	stock, err := l.FindByID(ctx, stockID)
	if err != nil {
		return models.Stock{}, err
	}
	l.log.Debug("stock decreased", "stock_id", stockID, "by", quantity, "quantity", stock.Quantity)
	return stock, nil
}

func (l *Ledger) FindByID(ctx context.Context, stockID uint) (models.Stock, error) {
	var stock models.Stock
	if err := l.db.WithContext(ctx).First(&stock, stockID).Error; err != nil {
		return models.Stock{}, notFound(err, "stock %d", stockID)
	}
	return stock, nil
}

// LockByProduct loads the stock row of a product with SELECT ... FOR UPDATE.
// Must run inside a transaction.
func (l *Ledger) LockByProduct(ctx context.Context, productID uint) (models.Stock, error) {
	var stock models.Stock
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&stock).Error
	if err != nil {
		return models.Stock{}, notFound(err, "stock for product %d", productID)
	}
	return stock, nil
}

// View returns one stock row with its product name.
func (l *Ledger) View(ctx context.Context, stockID uint) (StockView, error) {
	var views []StockView
	err := l.joined(ctx).Select(stockViewColumns).Where("stocks.id = ?", stockID).Scan(&views).Error
	if err != nil {
		return StockView{}, err
	}
	if len(views) == 0 {
		return StockView{}, fmt.Errorf("stock %d: %w", stockID, apperr.ErrNotFound)
	}
	return views[0], nil
}

// List pages through every stock row ordered by id.
func (l *Ledger) List(ctx context.Context, req pagination.Request) (pagination.Page[StockView], error) {
	return l.page(ctx, req, func(q *gorm.DB) *gorm.DB { return q })
}

// LowStock pages through rows whose quantity is below threshold.
func (l *Ledger) LowStock(ctx context.Context, threshold int, req pagination.Request) (pagination.Page[StockView], error) {
	return l.page(ctx, req, func(q *gorm.DB) *gorm.DB {
		return q.Where("stocks.quantity < ?", threshold)
	})
}

// All returns every stock row, for exports.
func (l *Ledger) All(ctx context.Context) ([]StockView, error) {
	var views []StockView
	if err := l.joined(ctx).Select(stockViewColumns).Order("stocks.id ASC").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

const stockViewColumns = "stocks.id, stocks.product_id, products.name AS product_name, stocks.quantity, products.times_purchased"

func (l *Ledger) joined(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).
		Table("stocks").
		Joins("JOIN products ON products.id = stocks.product_id")
}

func (l *Ledger) page(ctx context.Context, req pagination.Request, filter func(*gorm.DB) *gorm.DB) (pagination.Page[StockView], error) {
	var total int64
	if err := filter(l.joined(ctx)).Count(&total).Error; err != nil {
		return pagination.Page[StockView]{}, err
	}

	var views []StockView
	err := filter(l.joined(ctx)).
		Select(stockViewColumns).
		Order("stocks.id ASC").
		Scopes(req.Scope).
		Scan(&views).Error
	if err != nil {
		return pagination.Page[StockView]{}, err
	}
	return pagination.NewPage(views, req, total), nil
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, apperr.ErrNotFound)...)
	}
	return err
}
