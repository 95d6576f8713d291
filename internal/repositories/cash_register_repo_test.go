package repositories

import (
	"context"
	"testing"
	"time"

	"comanda/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CashRegisterRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CashRegisterRepository
	context context.Context
}

func (suite *CashRegisterRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCashRegisterRepo(mock)
	suite.context = context.Background()
}

func (suite *CashRegisterRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCashRegisterRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CashRegisterRepoTestSuite))
}

func (suite *CashRegisterRepoTestSuite) TestGetOpenSession_Success() {
	sessionID := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "operator_name", "opening_amount", "opened_at", "closed_at"}).
		AddRow(sessionID, "Operador", 100.00, time.Now(), (*time.Time)(nil))

	suite.mock.ExpectQuery(`
		SELECT id, operator_name, opening_amount, opened_at, closed_at
		FROM pdv_cash_registers
		WHERE closed_at IS NULL
		ORDER BY opened_at DESC
		LIMIT 1
	`).WillReturnRows(rows)

	session, err := suite.repo.GetOpenSession(suite.context, models.Store1)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), sessionID, session.ID)
	assert.Nil(suite.T(), session.ClosedAt)
}

func (suite *CashRegisterRepoTestSuite) TestGetOpenSession_NoneOpen() {
	suite.mock.ExpectQuery(`
		SELECT id, operator_name, opening_amount, opened_at, closed_at
		FROM pdv_cash_registers
		WHERE closed_at IS NULL
		ORDER BY opened_at DESC
		LIMIT 1
	`).WillReturnError(pgx.ErrNoRows)

	session, err := suite.repo.GetOpenSession(suite.context, models.Store1)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), session)
}

func (suite *CashRegisterRepoTestSuite) TestGetOpenSession_SecondStorePrefix() {
	suite.mock.ExpectQuery(`
		SELECT id, operator_name, opening_amount, opened_at, closed_at
		FROM pdv2_cash_registers
		WHERE closed_at IS NULL
		ORDER BY opened_at DESC
		LIMIT 1
	`).WillReturnError(pgx.ErrNoRows)

	session, err := suite.repo.GetOpenSession(suite.context, models.Store2)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), session)
}

func (suite *CashRegisterRepoTestSuite) TestAppendEntry_Success() {
	entry := &models.CashEntry{
		ID:            uuid.New(),
		RegisterID:    uuid.New(),
		Type:          models.CashEntryIncome,
		Amount:        45.90,
		Description:   "Venda Mesa #1001",
		PaymentMethod: models.PaymentPix,
	}

	suite.mock.ExpectExec(`
		INSERT INTO pdv_cash_entries \(id, register_id, type, amount, description, payment_method, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, NOW\(\)\)
	`).WithArgs(entry.ID, entry.RegisterID, entry.Type, entry.Amount, entry.Description, entry.PaymentMethod).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.AppendEntry(suite.context, models.Store1, entry)
	assert.NoError(suite.T(), err)
}
