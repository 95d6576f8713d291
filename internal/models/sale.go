package models

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus is the lifecycle state of a table sale. Open sales transition to
// exactly one of the two terminal states and never leave them.
type SaleStatus string

const (
	SaleOpen      SaleStatus = "open"
	SaleClosed    SaleStatus = "closed"
	SaleCancelled SaleStatus = "cancelled"
)

// Valid reports whether the status is one of the known sale states.
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleOpen, SaleClosed, SaleCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave the state.
func (s SaleStatus) Terminal() bool {
	return s == SaleClosed || s == SaleCancelled
}

// PaymentType enumerates the accepted payment methods.
type PaymentType string

const (
	PaymentCash       PaymentType = "cash"
	PaymentPix        PaymentType = "pix"
	PaymentCreditCard PaymentType = "credit_card"
	PaymentDebitCard  PaymentType = "debit_card"
	PaymentVoucher    PaymentType = "voucher"
	PaymentMixed      PaymentType = "mixed"
)

// Valid reports whether the payment type is one of the enumerated methods.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCash, PaymentPix, PaymentCreditCard, PaymentDebitCard, PaymentVoucher, PaymentMixed:
		return true
	}
	return false
}

// Sale is one customer-facing tab tied to a table, accumulating line items
// until it is finalized.
//
// Invariant: TotalAmount = Subtotal - DiscountAmount, all monetary fields >= 0.
// ChangeAmount is meaningful only when PaymentType is cash.
type Sale struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	TableID        uuid.UUID    `json:"table_id" db:"table_id"`
	SaleNumber     int          `json:"sale_number" db:"sale_number"`
	OperatorName   string       `json:"operator_name" db:"operator_name"`
	CustomerName   string       `json:"customer_name" db:"customer_name"`
	CustomerCount  int          `json:"customer_count" db:"customer_count"`
	Subtotal       float64      `json:"subtotal" db:"subtotal"`
	DiscountAmount float64      `json:"discount_amount" db:"discount_amount"`
	TotalAmount    float64      `json:"total_amount" db:"total_amount"`
	PaymentType    *PaymentType `json:"payment_type" db:"payment_type"`
	ChangeAmount   float64      `json:"change_amount" db:"change_amount"`
	Status         SaleStatus   `json:"status" db:"status"`
	Notes          *string      `json:"notes" db:"notes"`
	OpenedAt       time.Time    `json:"opened_at" db:"opened_at"`
	ClosedAt       *time.Time   `json:"closed_at" db:"closed_at"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`

	// Items is populated on hydrated reads only.
	Items []*SaleItem `json:"items,omitempty" db:"-"`
}
