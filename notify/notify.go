// Package notify fans committed purchases out to live listeners.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type PurchaseEvent struct {
	PurchaseID  uint            `json:"purchase_id"`
	Reference   string          `json:"reference"`
	UserID      uint            `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PurchasedAt time.Time       `json:"purchased_at"`
	Items       []LineItem      `json:"items"`
}

// Notifier receives purchases after they commit.
type Notifier interface {
	Notify(ctx context.Context, e PurchaseEvent) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, e PurchaseEvent) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Encode is the wire form shared by every notifier.
func Encode(e PurchaseEvent) ([]byte, error) {
	return json.Marshal(e)
}
