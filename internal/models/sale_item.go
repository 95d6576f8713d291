package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultProductCode is recorded when an item is keyed in without a code.
const DefaultProductCode = "MANUAL"

// SaleItem is one product entry within a sale. Items are immutable once
// created; corrections are handled by cancelling the sale.
//
// Invariant: Subtotal = Quantity*UnitPrice - DiscountAmount for unit-priced
// items, or WeightKg*PricePerKg - DiscountAmount for weighed items.
type SaleItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SaleID         uuid.UUID `json:"sale_id" db:"sale_id"`
	ProductCode    string    `json:"product_code" db:"product_code"`
	ProductName    string    `json:"product_name" db:"product_name"`
	Quantity       int       `json:"quantity" db:"quantity"`
	WeightKg       *float64  `json:"weight_kg" db:"weight_kg"`
	UnitPrice      float64   `json:"unit_price" db:"unit_price"`
	PricePerKg     *float64  `json:"price_per_kg" db:"price_per_kg"`
	DiscountAmount float64   `json:"discount_amount" db:"discount_amount"`
	Subtotal       float64   `json:"subtotal" db:"subtotal"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
