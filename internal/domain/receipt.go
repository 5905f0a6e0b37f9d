package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptItem is a by-value snapshot of a cart line at checkout time.
// Receipts keep their own copy so later cart mutations cannot alter history.
type ReceiptItem struct {
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Qty          int             `json:"qty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// Receipt is an immutable record of a completed checkout.
type Receipt struct {
	ID        int64           `json:"-" db:"id"`
	ReceiptID string          `json:"receiptId" db:"receipt_id"`
	Name      string          `json:"name" db:"name"`
	Email     string          `json:"email" db:"email"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Items     []ReceiptItem   `json:"items" db:"cart_items"`
	Timestamp string          `json:"timestamp" db:"ts"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// ReceiptSummary is the reduced listing form: identifying fields plus an
// item count, without full line detail.
type ReceiptSummary struct {
	ReceiptID  string          `json:"receiptId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Total      decimal.Decimal `json:"total"`
	Timestamp  string          `json:"timestamp"`
	ItemsCount int             `json:"itemsCount"`
}
