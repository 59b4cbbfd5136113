package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is append-only; it is written once by the purchase recorder.
type Purchase struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference   string          `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	PurchasedAt time.Time       `gorm:"index;not null" json:"purchased_at"`
}

// TopBuyer is a row of the top buyers ranking.
type TopBuyer struct {
	UserID        uint   `json:"user_id"`
	UserName      string `json:"user_name"`
	PurchaseCount int64  `json:"purchase_count"`
}
