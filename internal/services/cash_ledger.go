package services

import (
	"context"
	"fmt"
	"log"

	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
)

// CashLedgerInterface posts finalized sales to the store's cash register.
type CashLedgerInterface interface {
	PostSaleIncome(ctx context.Context, store models.StoreID, sale *models.Sale) error
}

type cashLedger struct {
	registerRepo repositories.CashRegisterRepository
}

// NewCashLedger creates a new cash ledger poster.
func NewCashLedger(registerRepo repositories.CashRegisterRepository) CashLedgerInterface {
	return &cashLedger{registerRepo: registerRepo}
}

// PostSaleIncome appends an income entry for the sale's total to the
// currently open register session. When no session is open the entry is
// skipped without error; the register module reconciles such sales manually.
func (l *cashLedger) PostSaleIncome(ctx context.Context, store models.StoreID, sale *models.Sale) error {
	session, err := l.registerRepo.GetOpenSession(ctx, store)
	if err != nil {
		return fmt.Errorf("find open register session: %w", err)
	}
	if session == nil {
		log.Printf("WARN: no open register session for %s; sale #%d not posted to ledger", store, sale.SaleNumber)
		return nil
	}

	var method models.PaymentType
	if sale.PaymentType != nil {
		method = *sale.PaymentType
	}

	entry := &models.CashEntry{
		ID:            uuid.New(),
		RegisterID:    session.ID,
		Type:          models.CashEntryIncome,
		Amount:        sale.TotalAmount,
		Description:   fmt.Sprintf("Venda Mesa #%d", sale.SaleNumber),
		PaymentMethod: method,
	}
	if err := l.registerRepo.AppendEntry(ctx, store, entry); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}
