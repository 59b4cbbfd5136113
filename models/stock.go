package models

import "time"

// Stock is the single quantity counter of one product.
type Stock struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"` // one stock row per product
	Quantity  int       `gorm:"not null;check:quantity >= 0" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}
