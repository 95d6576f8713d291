// Package fixture provides in-memory implementations of the repository
// interfaces, seeded with a demonstration dataset. It is selected at startup
// when no database is configured; writes mutate process memory only.
package fixture

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
)

// Dataset holds the demo records for every store. Repository views over it
// are obtained from Tables, Sales, SaleItems and CashRegisters.
type Dataset struct {
	mu sync.RWMutex

	tables   map[models.StoreID]map[uuid.UUID]*models.Table
	sales    map[models.StoreID]map[uuid.UUID]*models.Sale
	items    map[models.StoreID]map[uuid.UUID][]*models.SaleItem
	sessions map[models.StoreID][]*models.CashSession
	entries  map[models.StoreID][]*models.CashEntry

	nextSaleNumber map[models.StoreID]int
}

// NewDataset builds a seeded demo dataset: per store, one free table, one
// occupied table with an open sale carrying a single item, and an open
// register session.
func NewDataset() *Dataset {
	d := &Dataset{
		tables:         make(map[models.StoreID]map[uuid.UUID]*models.Table),
		sales:          make(map[models.StoreID]map[uuid.UUID]*models.Sale),
		items:          make(map[models.StoreID]map[uuid.UUID][]*models.SaleItem),
		sessions:       make(map[models.StoreID][]*models.CashSession),
		entries:        make(map[models.StoreID][]*models.CashEntry),
		nextSaleNumber: make(map[models.StoreID]int),
	}
	for _, store := range []models.StoreID{models.Store1, models.Store2} {
		d.seedStore(store)
	}
	return d
}

func (d *Dataset) seedStore(store models.StoreID) {
	now := time.Now()
	inside := "Área interna"
	outside := "Área externa"

	d.tables[store] = make(map[uuid.UUID]*models.Table)
	d.sales[store] = make(map[uuid.UUID]*models.Sale)
	d.items[store] = make(map[uuid.UUID][]*models.SaleItem)
	d.nextSaleNumber[store] = 1002

	t1 := &models.Table{
		ID: uuid.New(), Number: 1, Name: "Mesa 1", Capacity: 4,
		Status: models.TableFree, Location: &inside, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	t2 := &models.Table{
		ID: uuid.New(), Number: 2, Name: "Mesa 2", Capacity: 2,
		Status: models.TableOccupied, Location: &outside, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}

	sale := &models.Sale{
		ID: uuid.New(), TableID: t2.ID, SaleNumber: 1001,
		OperatorName: "Operador", CustomerName: "João Silva", CustomerCount: 2,
		Subtotal: 45.90, DiscountAmount: 0, TotalAmount: 45.90,
		Status: models.SaleOpen, OpenedAt: now, CreatedAt: now, UpdatedAt: now,
	}
	t2.CurrentSaleID = &sale.ID

	item := &models.SaleItem{
		ID: uuid.New(), SaleID: sale.ID,
		ProductCode: "ACAI500", ProductName: "Açaí 500ml",
		Quantity: 2, UnitPrice: 22.95, DiscountAmount: 0, Subtotal: 45.90,
		CreatedAt: now,
	}

	d.tables[store][t1.ID] = t1
	d.tables[store][t2.ID] = t2
	d.sales[store][sale.ID] = sale
	d.items[store][sale.ID] = []*models.SaleItem{item}
	d.sessions[store] = []*models.CashSession{{
		ID: uuid.New(), OperatorName: "Operador", OpeningAmount: 100.00, OpenedAt: now,
	}}
}

// Tables returns the table repository view.
func (d *Dataset) Tables() repositories.TableRepository { return &tableFixture{d} }

// Sales returns the sale repository view.
func (d *Dataset) Sales() repositories.SaleRepository { return &saleFixture{d} }

// SaleItems returns the sale item repository view.
func (d *Dataset) SaleItems() repositories.SaleItemRepository { return &saleItemFixture{d} }

// CashRegisters returns the cash register repository view.
func (d *Dataset) CashRegisters() repositories.CashRegisterRepository { return &registerFixture{d} }

// Entries returns a copy of the store's ledger, oldest first. Used by tests.
func (d *Dataset) Entries(store models.StoreID) []*models.CashEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*models.CashEntry, 0, len(d.entries[store]))
	for _, e := range d.entries[store] {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// CloseSessions marks every register session closed. Used by tests to model
// the no-open-register case.
func (d *Dataset) CloseSessions(store models.StoreID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for _, s := range d.sessions[store] {
		if s.ClosedAt == nil {
			at := now
			s.ClosedAt = &at
		}
	}
}

type tableFixture struct{ d *Dataset }

func (f *tableFixture) List(ctx context.Context, store models.StoreID) ([]*models.Table, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	tables := make([]*models.Table, 0, len(f.d.tables[store]))
	for _, t := range f.d.tables[store] {
		cp := *t
		tables = append(tables, &cp)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (f *tableFixture) GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Table, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	t, ok := f.d.tables[store][id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *tableFixture) MarkOccupied(ctx context.Context, store models.StoreID, tableID, saleID uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	t, ok := f.d.tables[store][tableID]
	if !ok || t.Status != models.TableFree || !t.IsActive {
		return fmt.Errorf("table %s is not free", tableID)
	}
	sid := saleID
	t.Status = models.TableOccupied
	t.CurrentSaleID = &sid
	t.UpdatedAt = time.Now()
	return nil
}

func (f *tableFixture) MarkAwaitingPayment(ctx context.Context, store models.StoreID, tableID uuid.UUID) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	t, ok := f.d.tables[store][tableID]
	if !ok {
		return fmt.Errorf("table %s not found", tableID)
	}
	t.Status = models.TableAwaitingPayment
	t.CurrentSaleID = nil
	t.UpdatedAt = time.Now()
	return nil
}

func (f *tableFixture) UpdateStatus(ctx context.Context, store models.StoreID, tableID uuid.UUID, status models.TableStatus) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	t, ok := f.d.tables[store][tableID]
	if !ok {
		return fmt.Errorf("table %s not found", tableID)
	}
	t.Status = status
	t.CurrentSaleID = nil
	t.UpdatedAt = time.Now()
	return nil
}

type saleFixture struct{ d *Dataset }

func (f *saleFixture) Create(ctx context.Context, store models.StoreID, sale *models.Sale) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	cp := *sale
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.d.sales[store][cp.ID] = &cp
	return nil
}

func (f *saleFixture) GetByID(ctx context.Context, store models.StoreID, id uuid.UUID) (*models.Sale, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	s, ok := f.d.sales[store][id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *saleFixture) ListOpen(ctx context.Context, store models.StoreID) ([]*models.Sale, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	var sales []*models.Sale
	for _, s := range f.d.sales[store] {
		if s.Status == models.SaleOpen {
			cp := *s
			sales = append(sales, &cp)
		}
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].OpenedAt.After(sales[j].OpenedAt) })
	return sales, nil
}

func (f *saleFixture) UpdateTotals(ctx context.Context, store models.StoreID, saleID uuid.UUID, subtotal, total float64) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	s, ok := f.d.sales[store][saleID]
	if !ok || s.Status != models.SaleOpen {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	s.Subtotal = subtotal
	s.TotalAmount = total
	s.UpdatedAt = time.Now()
	return nil
}

func (f *saleFixture) Close(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeAmount float64, closedAt time.Time) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	s, ok := f.d.sales[store][saleID]
	if !ok || s.Status != models.SaleOpen {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	p := payment
	at := closedAt
	s.Status = models.SaleClosed
	s.PaymentType = &p
	s.ChangeAmount = changeAmount
	s.ClosedAt = &at
	s.UpdatedAt = time.Now()
	return nil
}

func (f *saleFixture) MarkCancelled(ctx context.Context, store models.StoreID, saleID uuid.UUID, closedAt time.Time) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	s, ok := f.d.sales[store][saleID]
	if !ok || s.Status != models.SaleOpen {
		return fmt.Errorf("open sale %s not found", saleID)
	}
	at := closedAt
	s.Status = models.SaleCancelled
	s.ClosedAt = &at
	s.UpdatedAt = time.Now()
	return nil
}

func (f *saleFixture) NextSaleNumber(ctx context.Context, store models.StoreID) (int, error) {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	n := f.d.nextSaleNumber[store]
	f.d.nextSaleNumber[store] = n + 1
	return n, nil
}

type saleItemFixture struct{ d *Dataset }

func (f *saleItemFixture) Create(ctx context.Context, store models.StoreID, item *models.SaleItem) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	cp := *item
	cp.CreatedAt = time.Now()
	f.d.items[store][cp.SaleID] = append(f.d.items[store][cp.SaleID], &cp)
	return nil
}

func (f *saleItemFixture) ListBySale(ctx context.Context, store models.StoreID, saleID uuid.UUID) ([]*models.SaleItem, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	items := make([]*models.SaleItem, 0, len(f.d.items[store][saleID]))
	for _, it := range f.d.items[store][saleID] {
		cp := *it
		items = append(items, &cp)
	}
	return items, nil
}

type registerFixture struct{ d *Dataset }

func (f *registerFixture) GetOpenSession(ctx context.Context, store models.StoreID) (*models.CashSession, error) {
	f.d.mu.RLock()
	defer f.d.mu.RUnlock()

	for i := len(f.d.sessions[store]) - 1; i >= 0; i-- {
		if f.d.sessions[store][i].ClosedAt == nil {
			cp := *f.d.sessions[store][i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *registerFixture) AppendEntry(ctx context.Context, store models.StoreID, entry *models.CashEntry) error {
	f.d.mu.Lock()
	defer f.d.mu.Unlock()

	cp := *entry
	cp.CreatedAt = time.Now()
	f.d.entries[store] = append(f.d.entries[store], &cp)
	return nil
}
