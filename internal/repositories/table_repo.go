package repositories

import (
	"context"
	"fmt"

	"comanda/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TableRepository interface {
	List(ctx context.Context, store models.StoreID) ([]*models.Table, error)
	GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Table, error)
	MarkOccupied(ctx context.Context, store models.StoreID, tableID, saleID uuid.UUID) error
	MarkAwaitingPayment(ctx context.Context, store models.StoreID, tableID uuid.UUID) error
	UpdateStatus(ctx context.Context, store models.StoreID, tableID uuid.UUID, status models.TableStatus) error
}

type tableRepo struct {
	db Database
}

func NewTableRepo(db Database) TableRepository {
	return &tableRepo{db: db}
}

const tableColumns = "id, number, name, capacity, status, location, is_active, current_sale_id, created_at, updated_at"

func tablesTable(store models.StoreID) string {
	return store.Prefix() + "_tables"
}

func (r *tableRepo) List(ctx context.Context, store models.StoreID) ([]*models.Table, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY number
	`, tableColumns, tablesTable(store))
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table := &models.Table{}
		if err := scanTable(rows, table); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepo) GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Table, error) {
	table := &models.Table{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, tableColumns, tablesTable(store))
	err := scanTable(r.db.QueryRow(ctx, query, id), table)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return table, nil
}

// MarkOccupied attaches the sale to the table. The status guard makes the
// occupancy transition safe against a concurrent open on the same table.
func (r *tableRepo) MarkOccupied(ctx context.Context, store models.StoreID, tableID, saleID uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, current_sale_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND is_active = TRUE
	`, tablesTable(store))
	tag, err := r.db.Exec(ctx, query, models.TableOccupied, saleID, tableID, models.TableFree)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table %s is not free", tableID)
	}
	return nil
}

// MarkAwaitingPayment releases the table's sale reference as part of finalize.
func (r *tableRepo) MarkAwaitingPayment(ctx context.Context, store models.StoreID, tableID uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, current_sale_id = NULL, updated_at = NOW()
		WHERE id = $2
	`, tablesTable(store))
	_, err := r.db.Exec(ctx, query, models.TableAwaitingPayment, tableID)
	return err
}

// UpdateStatus drives the housekeeping transitions (cleaning, free). Any
// stale sale reference is cleared since only occupied tables may carry one.
func (r *tableRepo) UpdateStatus(ctx context.Context, store models.StoreID, tableID uuid.UUID, status models.TableStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, current_sale_id = NULL, updated_at = NOW()
		WHERE id = $2
	`, tablesTable(store))
	tag, err := r.db.Exec(ctx, query, status, tableID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table %s not found", tableID)
	}
	return nil
}

func scanTable(row pgx.Row, table *models.Table) error {
	return row.Scan(&table.ID, &table.Number, &table.Name, &table.Capacity, &table.Status,
		&table.Location, &table.IsActive, &table.CurrentSaleID, &table.CreatedAt, &table.UpdatedAt)
}
