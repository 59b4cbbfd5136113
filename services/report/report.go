// Package report aggregates committed purchases for sales analytics.
package report

import (
	"context"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/junaidrashid-git/storefront-api/services/period"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock overrides the source of "now" used to resolve periods.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{db: s.db, now: now}
}

// TotalAmount sums purchase totals inside the period; zero when none. The
// sum is rounded to cents since some drivers hand back SUM as a float.
func (s *Service) TotalAmount(ctx context.Context, keyword string) (decimal.Decimal, error) {
	w, err := period.Resolve(keyword, s.now())
	if err != nil {
		return decimal.Zero, err
	}

	var total decimal.NullDecimal
	err = s.inWindow(ctx, w).
		Select("SUM(total_amount)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// TotalPurchases counts purchases inside the period.
func (s *Service) TotalPurchases(ctx context.Context, keyword string) (int64, error) {
	w, err := period.Resolve(keyword, s.now())
	if err != nil {
		return 0, err
	}

	var count int64
	if err := s.inWindow(ctx, w).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TopBuyers ranks users by number of purchases, most first, ties by user
// id. An empty keyword ranks over all time.
func (s *Service) TopBuyers(ctx context.Context, keyword string, req pagination.Request) (pagination.Page[models.TopBuyer], error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Purchase{})
	}
	if keyword != "" {
		w, err := period.Resolve(keyword, s.now())
		if err != nil {
			return pagination.Page[models.TopBuyer]{}, err
		}
		base = func() *gorm.DB { return s.inWindow(ctx, w) }
	}

	var total int64
	if err := base().Distinct("user_id").Count(&total).Error; err != nil {
		return pagination.Page[models.TopBuyer]{}, err
	}

	var buyers []models.TopBuyer
	err := base().
		Select("purchases.user_id AS user_id, users.name AS user_name, COUNT(purchases.id) AS purchase_count").
		Joins("JOIN users ON users.id = purchases.user_id").
		Group("purchases.user_id, users.name").
		Order("purchase_count DESC, purchases.user_id ASC").
		Scopes(req.Scope).
		Scan(&buyers).Error
	if err != nil {
		return pagination.Page[models.TopBuyer]{}, err
	}
	return pagination.NewPage(buyers, req, total), nil
}

// inWindow filters purchases to [w.Start, w.End). Timestamps are stored in
// UTC, so the bounds are converted before comparing.
func (s *Service) inWindow(ctx context.Context, w period.Window) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("purchases.purchased_at >= ? AND purchases.purchased_at < ?", w.Start.UTC(), w.End.UTC())
}
