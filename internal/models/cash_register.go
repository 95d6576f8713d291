package models

import (
	"time"

	"github.com/google/uuid"
)

// CashEntryType enumerates ledger entry kinds. Finalized sales post income;
// outflows exist for register reconciliation done elsewhere.
type CashEntryType string

const (
	CashEntryIncome  CashEntryType = "income"
	CashEntryExpense CashEntryType = "expense"
)

// Valid reports whether the entry type is known.
func (t CashEntryType) Valid() bool {
	return t == CashEntryIncome || t == CashEntryExpense
}

// CashSession is one cash-register shift. A session with a nil ClosedAt is
// the store's currently open register; at most one is expected per store.
type CashSession struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OperatorName  string     `json:"operator_name" db:"operator_name"`
	OpeningAmount float64    `json:"opening_amount" db:"opening_amount"`
	OpenedAt      time.Time  `json:"opened_at" db:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at" db:"closed_at"`
}

// CashEntry is an append-only ledger record inside a register session.
// Entries are never modified or deleted.
type CashEntry struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	RegisterID    uuid.UUID     `json:"register_id" db:"register_id"`
	Type          CashEntryType `json:"type" db:"type"`
	Amount        float64       `json:"amount" db:"amount"`
	Description   string        `json:"description" db:"description"`
	PaymentMethod PaymentType   `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}
