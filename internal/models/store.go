package models

import "fmt"

// StoreID identifies a physical store location. Collections in the backing
// database are partitioned per store by a fixed naming prefix.
type StoreID int

const (
	Store1 StoreID = 1
	Store2 StoreID = 2
)

// ParseStoreID validates a numeric store identifier.
func ParseStoreID(n int) (StoreID, error) {
	switch StoreID(n) {
	case Store1, Store2:
		return StoreID(n), nil
	}
	return 0, fmt.Errorf("unknown store id %d", n)
}

// Prefix returns the table-name prefix for tables, sales and sale items.
func (s StoreID) Prefix() string {
	switch s {
	case Store2:
		return "store2"
	default:
		return "store1"
	}
}

// RegisterPrefix returns the table-name prefix for cash registers and entries.
// The register collections predate the per-store naming scheme, hence "pdv".
func (s StoreID) RegisterPrefix() string {
	switch s {
	case Store2:
		return "pdv2"
	default:
		return "pdv"
	}
}

func (s StoreID) String() string {
	return fmt.Sprintf("store-%d", int(s))
}
