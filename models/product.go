package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusInactive ProductStatus = "INACTIVE"
)

type Product struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string          `gorm:"size:400;not null" json:"description"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status         ProductStatus   `gorm:"type:VARCHAR(8);not null;default:'ACTIVE'" json:"status"`
	TimesPurchased int             `gorm:"not null;default:0" json:"times_purchased"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p Product) Active() bool { return p.Status == ProductStatusActive }
