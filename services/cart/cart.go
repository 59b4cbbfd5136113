// Package cart keeps the (user, product) → quantity lines a user intends
// to buy.
package cart

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

type Service struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log, now: time.Now}
}

// WithTx returns a service bound to tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, log: s.log, now: s.now}
}

// Add puts quantity units of a product into the user's cart. A second add
// of the same product merges into the existing line.
func (s *Service) Add(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperr.ErrInvalidQuantity
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			return notFound(err, "user %d", userID)
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return notFound(err, "product %d", productID)
		}
		if !product.Active() {
			return fmt.Errorf("product %q: %w", product.Name, apperr.ErrProductInactive)
		}

		// The unique (user_id, product_id) index turns a concurrent second
		// insert into an increment instead of a duplicate row.
		item := models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			AddedAt:   s.now(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("cart_items.quantity + ?", quantity),
				"added_at": item.AddedAt,
			}),
		}).Create(&item).Error
		if err != nil {
			return err
		}

		s.log.Debug("cart item added", "user_id", userID, "product_id", productID, "quantity", quantity)
		return nil
	})
}

// Get pages through the user's cart lines by item id.
func (s *Service) Get(ctx context.Context, userID uint, req pagination.Request) (pagination.Page[models.CartLine], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return pagination.Page[models.CartLine]{}, err
	}

	var lines []models.CartLine
	err := s.linesQuery(ctx, userID).
		Order("cart_items.id ASC").
		Scopes(req.Scope).
		Scan(&lines).Error
	if err != nil {
		return pagination.Page[models.CartLine]{}, err
	}
	return pagination.NewPage(lines, req, total), nil
}

// Lines returns every cart line of the user ordered by ascending product
// id, the order in which the purchase recorder locks stock rows.
func (s *Service) Lines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := s.linesQuery(ctx, userID).Order("cart_items.product_id ASC").Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Clear deletes every cart line of the user.
func (s *Service) Clear(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

func (s *Service) linesQuery(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name AS product_name, products.price AS unit_price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID)
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, apperr.ErrNotFound)...)
	}
	return err
}
