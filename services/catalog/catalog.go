// Package catalog holds products and users: the records the cart and
// purchase flows look up but never own.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/pagination"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewService(db *gorm.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log}
}

// WithTx returns a service bound to tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, log: s.log}
}

func (s *Service) FindProduct(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return models.Product{}, notFound(err, "product %d", id)
	}
	return product, nil
}

func (s *Service) FindUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, notFound(err, "user %d", id)
	}
	return user, nil
}

type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// CreateProduct registers an ACTIVE product that has never been purchased.
func (s *Service) CreateProduct(ctx context.Context, in NewProduct) (models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || !in.Price.IsPositive() {
		return models.Product{}, fmt.Errorf("name and a positive price are required: %w", apperr.ErrInvalidInput)
	}

	product := models.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Status:      models.ProductStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Product{}, fmt.Errorf("product %q: %w", in.Name, apperr.ErrDuplicateProduct)
		}
		return models.Product{}, err
	}

	s.log.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Deactivate marks a product INACTIVE; it can no longer be added to carts.
func (s *Service) Deactivate(ctx context.Context, id uint) error {
	return s.update(ctx, id, map[string]interface{}{"status": models.ProductStatusInactive})
}

func (s *Service) UpdatePrice(ctx context.Context, id uint, price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive: %w", apperr.ErrInvalidInput)
	}
	return s.update(ctx, id, map[string]interface{}{"price": price.Round(2)})
}

// DeleteProduct removes a product that nobody has bought yet, together
// with its stock row and any cart lines pointing at it.
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			return notFound(err, "product %d", id)
		}
		if product.TimesPurchased > 0 {
			return fmt.Errorf("product %d: %w", id, apperr.ErrDeleteNotAllowed)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Stock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

// ListProducts pages through products by id.
func (s *Service) ListProducts(ctx context.Context, req pagination.Request) (pagination.Page[models.Product], error) {
	return s.productPage(ctx, req, "id ASC")
}

// BestSelling ranks products by times purchased.
func (s *Service) BestSelling(ctx context.Context, req pagination.Request) (pagination.Page[models.Product], error) {
	return s.productPage(ctx, req, "times_purchased DESC, id ASC")
}

func (s *Service) productPage(ctx context.Context, req pagination.Request, order string) (pagination.Page[models.Product], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return pagination.Page[models.Product]{}, err
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Order(order).Scopes(req.Scope).Find(&products).Error; err != nil {
		return pagination.Page[models.Product]{}, err
	}
	return pagination.NewPage(products, req, total), nil
}

// IncrementTimesPurchased bumps the purchase counter in a single UPDATE.
func (s *Service) IncrementTimesPurchased(ctx context.Context, productID uint, by int) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("times_purchased", gorm.Expr("times_purchased + ?", by))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	return nil
}

type NewUser struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// RegisterUser stores a user with a bcrypt password hash.
func (s *Service) RegisterUser(ctx context.Context, in NewUser) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Email == "" || len(in.Password) < 6 {
		return models.User{}, fmt.Errorf("name, email and a 6+ character password are required: %w", apperr.ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = models.RoleClient
	}
	if in.Role != models.RoleClient && in.Role != models.RoleAdmin {
		return models.User{}, fmt.Errorf("role %q: %w", in.Role, apperr.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash), Role: in.Role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, fmt.Errorf("email %q: %w", in.Email, apperr.ErrDuplicateEmail)
		}
		return models.User{}, err
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks an email/password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperr.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// ListUsers pages through users by id.
func (s *Service) ListUsers(ctx context.Context, req pagination.Request) (pagination.Page[models.User], error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return pagination.Page[models.User]{}, err
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Scopes(req.Scope).Find(&users).Error; err != nil {
		return pagination.Page[models.User]{}, err
	}
	return pagination.NewPage(users, req, total), nil
}

// UpdatePassword replaces a user's password after checking the current one.
// next must match confirmed.
func (s *Service) UpdatePassword(ctx context.Context, id uint, current, next, confirmed string) error {
	if next != confirmed {
		return fmt.Errorf("new password and confirmation differ: %w", apperr.ErrInvalidInput)
	}
	if len(next) < 6 {
		return fmt.Errorf("password needs 6+ characters: %w", apperr.ErrInvalidInput)
	}

	user, err := s.FindUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperr.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", string(hash)).Error
	if err != nil {
		return err
	}

	s.log.Info("password updated", "user_id", id)
	return nil
}

func (s *Service) update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
	}
	s.log.Info("product updated", "product_id", id)
	return nil
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, apperr.ErrNotFound)...)
	}
	return err
}
