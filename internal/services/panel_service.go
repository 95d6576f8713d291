package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"comanda/internal/caching"
	"comanda/internal/common"
	"comanda/internal/models"

	"github.com/google/uuid"
)

// snapshotTTL bounds how long a cached panel snapshot may serve reads before
// a full reload. Mutations invalidate the snapshot immediately.
const snapshotTTL = 30 * time.Second

// PanelServiceInterface orchestrates the table-sales panel: it serves the
// cached view state and dispatches the user-triggered actions, reloading the
// snapshot after every successful mutation.
type PanelServiceInterface interface {
	Snapshot(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error)
	Reload(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error)
	OpenSale(ctx context.Context, store models.StoreID, req *OpenSaleRequest) (*models.Sale, error)
	AddItem(ctx context.Context, store models.StoreID, saleID uuid.UUID, req *AddItemRequest) (*models.SaleItem, error)
	Finalize(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeFor *float64) (*models.Sale, error)
	Cancel(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error)
}

type panelService struct {
	workflow SaleWorkflowInterface
	tables   TableServiceInterface
	cache    caching.CacheService
	demoMode bool

	// inflight tracks which interactive controls currently have a call in
	// flight, one key per (store, action, entity).
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPanelService creates the panel orchestrator.
func NewPanelService(workflow SaleWorkflowInterface, tables TableServiceInterface,
	cache caching.CacheService, demoMode bool) PanelServiceInterface {
	return &panelService{
		workflow: workflow,
		tables:   tables,
		cache:    cache,
		demoMode: demoMode,
		inflight: make(map[string]struct{}),
	}
}

// Snapshot serves the cached panel state, loading it on a miss.
func (p *panelService) Snapshot(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error) {
	snapshot, err := p.cache.GetSnapshot(ctx, store)
	if err != nil {
		log.Printf("WARN: panel cache read failed for %s: %v", store, err)
	}
	if snapshot != nil {
		return snapshot, nil
	}
	return p.Reload(ctx, store)
}

// Reload replaces the panel state with a full load from the store: every
// table plus all open sales with their items.
func (p *panelService) Reload(ctx context.Context, store models.StoreID) (*models.PanelSnapshot, error) {
	tables, err := p.tables.ListTables(ctx, store)
	if err != nil {
		return nil, err
	}
	sales, err := p.workflow.ListOpenSales(ctx, store)
	if err != nil {
		return nil, err
	}

	snapshot := &models.PanelSnapshot{
		Store:     store,
		Tables:    tables,
		OpenSales: sales,
		DemoMode:  p.demoMode,
		LoadedAt:  time.Now(),
	}
	if err := p.cache.SetSnapshot(ctx, store, snapshot, snapshotTTL); err != nil {
		log.Printf("WARN: panel cache write failed for %s: %v", store, err)
	}
	return snapshot, nil
}

func (p *panelService) invalidate(ctx context.Context, store models.StoreID) {
	if err := p.cache.InvalidateSnapshot(ctx, store); err != nil {
		log.Printf("WARN: panel cache invalidation failed for %s: %v", store, err)
	}
}

// acquire claims the control identified by key, mirroring the panel disabling
// a button while its call is in flight. Duplicate submissions are rejected
// rather than queued.
func (p *panelService) acquire(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, busy := p.inflight[key]; busy {
		return common.ErrActionInFlight
	}
	p.inflight[key] = struct{}{}
	return nil
}

func (p *panelService) release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.inflight, key)
}

func actionKey(store models.StoreID, action string, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", store, action, id)
}

func (p *panelService) OpenSale(ctx context.Context, store models.StoreID, req *OpenSaleRequest) (*models.Sale, error) {
	key := actionKey(store, "open", req.TableID)
	if err := p.acquire(key); err != nil {
		return nil, err
	}
	defer p.release(key)

	sale, err := p.workflow.OpenSale(ctx, store, req)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, store)
	return sale, nil
}

func (p *panelService) AddItem(ctx context.Context, store models.StoreID, saleID uuid.UUID, req *AddItemRequest) (*models.SaleItem, error) {
	key := actionKey(store, "item", saleID)
	if err := p.acquire(key); err != nil {
		return nil, err
	}
	defer p.release(key)

	item, err := p.workflow.AddItem(ctx, store, saleID, req)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, store)
	return item, nil
}

func (p *panelService) Finalize(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeFor *float64) (*models.Sale, error) {
	key := actionKey(store, "finalize", saleID)
	if err := p.acquire(key); err != nil {
		return nil, err
	}
	defer p.release(key)

	sale, err := p.workflow.Finalize(ctx, store, saleID, payment, changeFor)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, store)
	return sale, nil
}

func (p *panelService) Cancel(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error) {
	key := actionKey(store, "cancel", saleID)
	if err := p.acquire(key); err != nil {
		return nil, err
	}
	defer p.release(key)

	sale, err := p.workflow.Cancel(ctx, store, saleID)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, store)
	return sale, nil
}
