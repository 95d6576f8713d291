package models

import (
	"time"

	"github.com/google/uuid"
)

// TableStatus is the occupancy state of a restaurant table.
type TableStatus string

const (
	TableFree            TableStatus = "free"
	TableOccupied        TableStatus = "occupied"
	TableAwaitingPayment TableStatus = "awaiting_payment"
	TableCleaning        TableStatus = "cleaning"
)

// Valid reports whether the status is one of the known table states.
func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableAwaitingPayment, TableCleaning:
		return true
	}
	return false
}

// Table represents one physical restaurant table.
//
// Invariant: Status == TableOccupied exactly when CurrentSaleID is set;
// a table holds at most one open sale at a time.
type Table struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	Number        int         `json:"number" db:"number"`
	Name          string      `json:"name" db:"name"`
	Capacity      int         `json:"capacity" db:"capacity"`
	Status        TableStatus `json:"status" db:"status"`
	Location      *string     `json:"location" db:"location"`
	IsActive      bool        `json:"is_active" db:"is_active"`
	CurrentSaleID *uuid.UUID  `json:"current_sale_id" db:"current_sale_id"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}
