package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"comanda/internal/caching"
	"comanda/internal/common"
	"comanda/internal/fixture"
	"comanda/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTables wraps the table service to observe snapshot loads.
type countingTables struct {
	TableServiceInterface
	loads int32
}

func (c *countingTables) ListTables(ctx context.Context, store models.StoreID) ([]*models.Table, error) {
	atomic.AddInt32(&c.loads, 1)
	return c.TableServiceInterface.ListTables(ctx, store)
}

type panelFixture struct {
	dataset *fixture.Dataset
	panel   PanelServiceInterface
	tables  *countingTables

	freeTableID  uuid.UUID
	seededSaleID uuid.UUID
}

func newPanelFixture(t *testing.T) *panelFixture {
	dataset := fixture.NewDataset()
	ledger := NewCashLedger(dataset.CashRegisters())
	workflow := NewSaleWorkflow(dataset.Sales(), dataset.SaleItems(), dataset.Tables(), ledger, nil)
	tables := &countingTables{TableServiceInterface: NewTableService(dataset.Tables())}
	panel := NewPanelService(workflow, tables, caching.NewMemoryCacheService(), true)

	seeded, err := dataset.Tables().List(context.Background(), models.Store1)
	require.NoError(t, err)
	require.Len(t, seeded, 2)

	return &panelFixture{
		dataset:      dataset,
		panel:        panel,
		tables:       tables,
		freeTableID:  seeded[0].ID,
		seededSaleID: *seeded[1].CurrentSaleID,
	}
}

func TestSnapshot_ServedFromCacheUntilMutation(t *testing.T) {
	ctx := context.Background()
	f := newPanelFixture(t)

	first, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Len(t, first.Tables, 2)
	assert.Len(t, first.OpenSales, 1)
	assert.True(t, first.DemoMode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tables.loads))

	second, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Equal(t, first.LoadedAt, second.LoadedAt)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tables.loads))

	_, err = f.panel.OpenSale(ctx, models.Store1, &OpenSaleRequest{
		TableID: f.freeTableID, CustomerName: "Maria", CustomerCount: 2, OperatorName: "Operador",
	})
	require.NoError(t, err)

	third, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.tables.loads))
	assert.Len(t, third.OpenSales, 2)
}

func TestSnapshot_FailedMutationKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := newPanelFixture(t)

	_, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)

	// Opening on a missing table fails validation before any write.
	_, err = f.panel.OpenSale(ctx, models.Store1, &OpenSaleRequest{
		TableID: uuid.New(), CustomerName: "Maria", CustomerCount: 2, OperatorName: "Operador",
	})
	assert.True(t, common.IsValidation(err))

	_, err = f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tables.loads))
}

func TestReload_BypassesCache(t *testing.T) {
	ctx := context.Background()
	f := newPanelFixture(t)

	_, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)

	snapshot, err := f.panel.Reload(ctx, models.Store1)
	require.NoError(t, err)
	assert.Equal(t, models.Store1, snapshot.Store)
	assert.Equal(t, int32(2), atomic.LoadInt32(&f.tables.loads))
}

func TestSnapshot_StoresAreCachedIndependently(t *testing.T) {
	ctx := context.Background()
	f := newPanelFixture(t)

	_, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)

	_, err = f.panel.Finalize(ctx, models.Store1, f.seededSaleID, models.PaymentPix, nil)
	require.NoError(t, err)

	other, err := f.panel.Snapshot(ctx, models.Store2)
	require.NoError(t, err)
	assert.Equal(t, models.Store2, other.Store)
	assert.Len(t, other.OpenSales, 1)
}

// blockingWorkflow holds OpenSale until released so the in-flight guard can be
// observed from a second goroutine.
type blockingWorkflow struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingWorkflow) OpenSale(ctx context.Context, store models.StoreID, req *OpenSaleRequest) (*models.Sale, error) {
	close(b.started)
	<-b.release
	return &models.Sale{ID: uuid.New(), TableID: req.TableID, Status: models.SaleOpen}, nil
}

func (b *blockingWorkflow) AddItem(ctx context.Context, store models.StoreID, saleID uuid.UUID, req *AddItemRequest) (*models.SaleItem, error) {
	return &models.SaleItem{ID: uuid.New(), SaleID: saleID}, nil
}

func (b *blockingWorkflow) Finalize(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeFor *float64) (*models.Sale, error) {
	return &models.Sale{ID: saleID, Status: models.SaleClosed}, nil
}

func (b *blockingWorkflow) Cancel(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error) {
	return &models.Sale{ID: saleID, Status: models.SaleCancelled}, nil
}

func (b *blockingWorkflow) GetSale(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error) {
	return nil, nil
}

func (b *blockingWorkflow) ListOpenSales(ctx context.Context, store models.StoreID) ([]*models.Sale, error) {
	return nil, nil
}

func TestOpenSale_DuplicateSubmissionRejectedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	dataset := fixture.NewDataset()
	workflow := &blockingWorkflow{started: make(chan struct{}), release: make(chan struct{})}
	panel := NewPanelService(workflow, NewTableService(dataset.Tables()), caching.NewMemoryCacheService(), false)

	tableID := uuid.New()
	req := &OpenSaleRequest{TableID: tableID, CustomerName: "Maria", CustomerCount: 2, OperatorName: "Operador"}

	done := make(chan error, 1)
	go func() {
		_, err := panel.OpenSale(ctx, models.Store1, req)
		done <- err
	}()
	<-workflow.started

	_, err := panel.OpenSale(ctx, models.Store1, req)
	assert.True(t, errors.Is(err, common.ErrActionInFlight))

	// A different sale's control is independent of the busy one.
	_, err = panel.AddItem(ctx, models.Store1, uuid.New(), &AddItemRequest{ProductName: "Burger", Quantity: 1, UnitPrice: 15.00})
	assert.NoError(t, err)

	close(workflow.release)
	require.NoError(t, <-done)

	// The control is released once the first call finishes.
	_, err = panel.Finalize(ctx, models.Store1, uuid.New(), models.PaymentPix, nil)
	assert.NoError(t, err)
}

func TestSnapshot_ExpiredEntryReloads(t *testing.T) {
	ctx := context.Background()
	f := newPanelFixture(t)
	cache := caching.NewMemoryCacheService()

	stale := &models.PanelSnapshot{Store: models.Store1, LoadedAt: time.Now().Add(-time.Minute)}
	require.NoError(t, cache.SetSnapshot(ctx, models.Store1, stale, time.Nanosecond))
	time.Sleep(time.Millisecond)

	got, err := cache.GetSnapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The panel treats the expired entry as a miss and loads fresh state.
	snapshot, err := f.panel.Snapshot(ctx, models.Store1)
	require.NoError(t, err)
	assert.Len(t, snapshot.Tables, 2)
}
