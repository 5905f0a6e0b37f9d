package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem represents one cart line: a product reference with a quantity and
// a denormalized subtotal priced at the moment of the last mutation. Catalog
// price changes do not retroactively reprice existing lines.
type CartItem struct {
	ID        int64           `json:"id" db:"id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Qty       int             `json:"qty" db:"qty"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`

	// Joined product fields, populated on reads.
	ProductName        string          `json:"productName" db:"product_name"`
	ProductDescription string          `json:"productDescription" db:"product_description"`
	ProductPrice       decimal.Decimal `json:"productPrice" db:"product_price"`
	ProductImageURL    string          `json:"productImageUrl" db:"product_image_url"`
}

// Cart is the full current cart contents with the server-computed total.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}
