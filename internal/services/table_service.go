package services

import (
	"context"

	"comanda/internal/common"
	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
)

// TableServiceInterface exposes the table registry: listing plus the
// housekeeping transitions that are not part of the sale workflow.
type TableServiceInterface interface {
	ListTables(ctx context.Context, store models.StoreID) ([]*models.Table, error)
	MarkCleaning(ctx context.Context, store models.StoreID, tableID uuid.UUID) (*models.Table, error)
	MarkFree(ctx context.Context, store models.StoreID, tableID uuid.UUID) (*models.Table, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
}

// NewTableService creates a new table service instance.
func NewTableService(tableRepo repositories.TableRepository) TableServiceInterface {
	return &tableService{tableRepo: tableRepo}
}

func (s *tableService) ListTables(ctx context.Context, store models.StoreID) ([]*models.Table, error) {
	tables, err := s.tableRepo.List(ctx, store)
	if err != nil {
		return nil, common.NewStoreError("list tables", err)
	}
	return tables, nil
}

// MarkCleaning moves a table from awaiting-payment to cleaning once the bill
// has been settled and the guests have left.
func (s *tableService) MarkCleaning(ctx context.Context, store models.StoreID, tableID uuid.UUID) (*models.Table, error) {
	return s.transition(ctx, store, tableID, models.TableAwaitingPayment, models.TableCleaning, "mark cleaning")
}

// MarkFree returns a cleaned table to the pool of assignable tables.
func (s *tableService) MarkFree(ctx context.Context, store models.StoreID, tableID uuid.UUID) (*models.Table, error) {
	return s.transition(ctx, store, tableID, models.TableCleaning, models.TableFree, "mark free")
}

func (s *tableService) transition(ctx context.Context, store models.StoreID, tableID uuid.UUID, from, to models.TableStatus, op string) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, store, tableID)
	if err != nil {
		return nil, common.NewStoreError("get table", err)
	}
	if table == nil {
		return nil, common.NewValidationError("table_id", "table not found")
	}
	if table.Status != from {
		return nil, common.NewInvalidStateError("table", string(table.Status), op)
	}

	if err := s.tableRepo.UpdateStatus(ctx, store, tableID, to); err != nil {
		return nil, common.NewStoreError(op, err)
	}
	table.Status = to
	table.CurrentSaleID = nil
	return table, nil
}
