package repositories

import (
	"context"
	"fmt"

	"comanda/internal/models"

	"github.com/google/uuid"
)

type SaleItemRepository interface {
	Create(ctx context.Context, store models.StoreID, item *models.SaleItem) error
	ListBySale(ctx context.Context, store models.StoreID, saleID uuid.UUID) ([]*models.SaleItem, error)
}

type saleItemRepo struct {
	db Database
}

func NewSaleItemRepo(db Database) SaleItemRepository {
	return &saleItemRepo{db: db}
}

const saleItemColumns = "id, sale_id, product_code, product_name, quantity, weight_kg, unit_price, price_per_kg, discount_amount, subtotal, notes, created_at"

func saleItemsTable(store models.StoreID) string {
	return store.Prefix() + "_table_sale_items"
}

func (r *saleItemRepo) Create(ctx context.Context, store models.StoreID, item *models.SaleItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, sale_id, product_code, product_name, quantity, weight_kg, unit_price, price_per_kg, discount_amount, subtotal, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`, saleItemsTable(store))
	_, err := r.db.Exec(ctx, query, item.ID, item.SaleID, item.ProductCode, item.ProductName,
		item.Quantity, item.WeightKg, item.UnitPrice, item.PricePerKg, item.DiscountAmount,
		item.Subtotal, item.Notes)
	return err
}

func (r *saleItemRepo) ListBySale(ctx context.Context, store models.StoreID, saleID uuid.UUID) ([]*models.SaleItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE sale_id = $1
		ORDER BY created_at
	`, saleItemColumns, saleItemsTable(store))
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.SaleItem
	for rows.Next() {
		item := &models.SaleItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductCode, &item.ProductName,
			&item.Quantity, &item.WeightKg, &item.UnitPrice, &item.PricePerKg,
			&item.DiscountAmount, &item.Subtotal, &item.Notes, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
