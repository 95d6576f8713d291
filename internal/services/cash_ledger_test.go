package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"comanda/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCashRegisterRepository struct {
	mock.Mock
}

func (m *MockCashRegisterRepository) GetOpenSession(ctx context.Context, store models.StoreID) (*models.CashSession, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashSession), args.Error(1)
}

func (m *MockCashRegisterRepository) AppendEntry(ctx context.Context, store models.StoreID, entry *models.CashEntry) error {
	args := m.Called(ctx, store, entry)
	return args.Error(0)
}

func closedSale(number int, total float64, payment models.PaymentType) *models.Sale {
	closedAt := time.Now()
	return &models.Sale{
		ID: uuid.New(), TableID: uuid.New(), SaleNumber: number,
		OperatorName: "Operador", CustomerName: "Ana", CustomerCount: 2,
		Subtotal: total, TotalAmount: total,
		Status: models.SaleClosed, PaymentType: &payment, ClosedAt: &closedAt,
		OpenedAt: closedAt.Add(-time.Hour),
	}
}

func TestPostSaleIncome_AppendsToOpenSession(t *testing.T) {
	ctx := context.Background()
	registerRepo := &MockCashRegisterRepository{}
	session := &models.CashSession{ID: uuid.New(), OperatorName: "Operador", OpeningAmount: 100.00, OpenedAt: time.Now()}

	registerRepo.On("GetOpenSession", ctx, models.Store1).Return(session, nil)
	registerRepo.On("AppendEntry", ctx, models.Store1, mock.AnythingOfType("*models.CashEntry")).Return(nil)

	ledger := NewCashLedger(registerRepo)
	err := ledger.PostSaleIncome(ctx, models.Store1, closedSale(1002, 40.00, models.PaymentPix))
	require.NoError(t, err)

	entry := registerRepo.Calls[1].Arguments.Get(2).(*models.CashEntry)
	assert.Equal(t, session.ID, entry.RegisterID)
	assert.Equal(t, models.CashEntryIncome, entry.Type)
	assert.Equal(t, 40.00, entry.Amount)
	assert.Equal(t, "Venda Mesa #1002", entry.Description)
	assert.Equal(t, models.PaymentPix, entry.PaymentMethod)
}

func TestPostSaleIncome_NoOpenSessionIsSkipped(t *testing.T) {
	ctx := context.Background()
	registerRepo := &MockCashRegisterRepository{}
	registerRepo.On("GetOpenSession", ctx, models.Store1).Return(nil, nil)

	ledger := NewCashLedger(registerRepo)
	err := ledger.PostSaleIncome(ctx, models.Store1, closedSale(1002, 40.00, models.PaymentCash))

	assert.NoError(t, err)
	registerRepo.AssertNotCalled(t, "AppendEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostSaleIncome_SessionLookupError(t *testing.T) {
	ctx := context.Background()
	registerRepo := &MockCashRegisterRepository{}
	registerRepo.On("GetOpenSession", ctx, models.Store1).Return(nil, errors.New("connection reset"))

	ledger := NewCashLedger(registerRepo)
	err := ledger.PostSaleIncome(ctx, models.Store1, closedSale(1002, 40.00, models.PaymentPix))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "find open register session")
}

func TestPostSaleIncome_AppendError(t *testing.T) {
	ctx := context.Background()
	registerRepo := &MockCashRegisterRepository{}
	session := &models.CashSession{ID: uuid.New(), OperatorName: "Operador", OpenedAt: time.Now()}

	registerRepo.On("GetOpenSession", ctx, models.Store1).Return(session, nil)
	registerRepo.On("AppendEntry", ctx, models.Store1, mock.AnythingOfType("*models.CashEntry")).
		Return(errors.New("connection reset"))

	ledger := NewCashLedger(registerRepo)
	err := ledger.PostSaleIncome(ctx, models.Store1, closedSale(1002, 40.00, models.PaymentPix))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "append ledger entry")
}
