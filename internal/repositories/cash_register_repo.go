package repositories

import (
	"context"
	"fmt"

	"comanda/internal/models"

	"github.com/jackc/pgx/v5"
)

type CashRegisterRepository interface {
	// GetOpenSession returns the store's currently open register session,
	// or nil when no session is open.
	GetOpenSession(ctx context.Context, store models.StoreID) (*models.CashSession, error)
	AppendEntry(ctx context.Context, store models.StoreID, entry *models.CashEntry) error
}

type cashRegisterRepo struct {
	db Database
}

func NewCashRegisterRepo(db Database) CashRegisterRepository {
	return &cashRegisterRepo{db: db}
}

func registersTable(store models.StoreID) string {
	return store.RegisterPrefix() + "_cash_registers"
}

func entriesTable(store models.StoreID) string {
	return store.RegisterPrefix() + "_cash_entries"
}

func (r *cashRegisterRepo) GetOpenSession(ctx context.Context, store models.StoreID) (*models.CashSession, error) {
	session := &models.CashSession{}
	query := fmt.Sprintf(`
		SELECT id, operator_name, opening_amount, opened_at, closed_at
		FROM %s
		WHERE closed_at IS NULL
		ORDER BY opened_at DESC
		LIMIT 1
	`, registersTable(store))
	err := r.db.QueryRow(ctx, query).Scan(&session.ID, &session.OperatorName,
		&session.OpeningAmount, &session.OpenedAt, &session.ClosedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

func (r *cashRegisterRepo) AppendEntry(ctx context.Context, store models.StoreID, entry *models.CashEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, register_id, type, amount, description, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, entriesTable(store))
	_, err := r.db.Exec(ctx, query, entry.ID, entry.RegisterID, entry.Type, entry.Amount,
		entry.Description, entry.PaymentMethod)
	return err
}
