package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"comanda/internal/fixture"
	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStaleSales_FlagsSalesPastThreshold(t *testing.T) {
	ctx := context.Background()
	dataset := fixture.NewDataset()
	svc := NewStaleSaleAlertService(dataset.Sales())

	// Seeded sale just opened; nothing is stale yet.
	alerts, err := svc.CheckStaleSales(ctx, models.Store1, DefaultStaleThreshold)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	// Five hours later the same sale has outlived the service window.
	svc.now = func() time.Time { return time.Now().Add(5 * time.Hour) }
	alerts, err = svc.CheckStaleSales(ctx, models.Store1, DefaultStaleThreshold)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.Store1, alerts[0].Store)
	assert.Equal(t, 1001, alerts[0].SaleNumber)
	assert.Equal(t, "Operador", alerts[0].Operator)
	assert.GreaterOrEqual(t, alerts[0].OpenFor, DefaultStaleThreshold)
}

func TestCheckStaleSales_ZeroThresholdUsesDefault(t *testing.T) {
	ctx := context.Background()
	dataset := fixture.NewDataset()
	svc := NewStaleSaleAlertService(dataset.Sales())
	svc.now = func() time.Time { return time.Now().Add(3 * time.Hour) }

	alerts, err := svc.CheckStaleSales(ctx, models.Store1, 0)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

type failingSaleRepo struct {
	repositories.SaleRepository
}

func (f *failingSaleRepo) ListOpen(ctx context.Context, store models.StoreID) ([]*models.Sale, error) {
	return nil, errors.New("connection reset")
}

func TestCheckStaleSales_ListError(t *testing.T) {
	svc := NewStaleSaleAlertService(&failingSaleRepo{})

	alerts, err := svc.CheckStaleSales(context.Background(), models.Store1, DefaultStaleThreshold)
	assert.Error(t, err)
	assert.Nil(t, alerts)
}

func TestScheduledStaleSaleCheck_ContinuesPastStoreFailure(t *testing.T) {
	svc := NewStaleSaleAlertService(&failingSaleRepo{})

	// Per-store failures are logged, not propagated.
	err := svc.ScheduledStaleSaleCheck(context.Background())
	assert.NoError(t, err)
}

func TestLogStaleSaleAlerts_EmptyIsNoop(t *testing.T) {
	svc := NewStaleSaleAlertService(fixture.NewDataset().Sales())
	svc.LogStaleSaleAlerts(nil)
	svc.LogStaleSaleAlerts([]StaleSaleAlert{{
		Store:      models.Store2,
		SaleID:     uuid.New(),
		SaleNumber: 1001,
		TableID:    uuid.New(),
		Operator:   "Operador",
		OpenFor:    6 * time.Hour,
	}})
}
