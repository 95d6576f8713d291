package repositories

import (
	"context"
	"fmt"
	"time"

	"comanda/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SaleRepository interface {
	Create(ctx context.Context, store models.StoreID, sale *models.Sale) error
	GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Sale, error)
	ListOpen(ctx context.Context, store models.StoreID) ([]*models.Sale, error)
	UpdateTotals(ctx context.Context, store models.StoreID, saleID uuid.UUID, subtotal, total float64) error
	Close(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeAmount float64, closedAt time.Time) error
	MarkCancelled(ctx context.Context, store models.StoreID, saleID uuid.UUID, closedAt time.Time) error
	NextSaleNumber(ctx context.Context, store models.StoreID) (int, error)
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

const saleColumns = "id, table_id, sale_number, operator_name, customer_name, customer_count, subtotal, discount_amount, total_amount, payment_type, change_amount, status, notes, opened_at, closed_at, created_at, updated_at"

func salesTable(store models.StoreID) string {
	return store.Prefix() + "_table_sales"
}

func (r *saleRepo) Create(ctx context.Context, store models.StoreID, sale *models.Sale) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, table_id, sale_number, operator_name, customer_name, customer_count, subtotal, discount_amount, total_amount, payment_type, change_amount, status, notes, opened_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`, salesTable(store))
	_, err := r.db.Exec(ctx, query, sale.ID, sale.TableID, sale.SaleNumber, sale.OperatorName,
		sale.CustomerName, sale.CustomerCount, sale.Subtotal, sale.DiscountAmount, sale.TotalAmount,
		sale.PaymentType, sale.ChangeAmount, sale.Status, sale.Notes, sale.OpenedAt)
	return err
}

func (r *saleRepo) GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Sale, error) {
	sale := &models.Sale{}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, saleColumns, salesTable(store))
	err := scanSale(r.db.QueryRow(ctx, query, id), sale)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return sale, nil
}

func (r *saleRepo) ListOpen(ctx context.Context, store models.StoreID) ([]*models.Sale, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE status = $1
		ORDER BY opened_at DESC
	`, saleColumns, salesTable(store))
	rows, err := r.db.Query(ctx, query, models.SaleOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*models.Sale
	for rows.Next() {
		sale := &models.Sale{}
		if err := scanSale(rows, sale); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (r *saleRepo) UpdateTotals(ctx context.Context, store models.StoreID, saleID uuid.UUID, subtotal, total float64) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET subtotal = $1, total_amount = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, salesTable(store))
	tag, err := r.db.Exec(ctx, query, subtotal, total, saleID, models.SaleOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	return nil
}

// Close records payment and the closed_at timestamp. The status guard makes
// the open -> closed transition happen at most once even under concurrent
// finalize attempts.
func (r *saleRepo) Close(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeAmount float64, closedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, payment_type = $2, change_amount = $3, closed_at = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, salesTable(store))
	tag, err := r.db.Exec(ctx, query, models.SaleClosed, payment, changeAmount, closedAt, saleID, models.SaleOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	return nil
}

func (r *saleRepo) MarkCancelled(ctx context.Context, store models.StoreID, saleID uuid.UUID, closedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, closed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, salesTable(store))
	tag, err := r.db.Exec(ctx, query, models.SaleCancelled, closedAt, saleID, models.SaleOpen)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	return nil
}

// NextSaleNumber draws from the store's sale-number sequence.
func (r *saleRepo) NextSaleNumber(ctx context.Context, store models.StoreID) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT nextval('%s_sale_number_seq')`, store.Prefix())
	if err := r.db.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanSale(row pgx.Row, sale *models.Sale) error {
	return row.Scan(&sale.ID, &sale.TableID, &sale.SaleNumber, &sale.OperatorName, &sale.CustomerName,
		&sale.CustomerCount, &sale.Subtotal, &sale.DiscountAmount, &sale.TotalAmount, &sale.PaymentType,
		&sale.ChangeAmount, &sale.Status, &sale.Notes, &sale.OpenedAt, &sale.ClosedAt, &sale.CreatedAt, &sale.UpdatedAt)
}
