package services

import (
	"context"
	"log"
	"time"

	"comanda/internal/common"
	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
)

// OpenSaleRequest carries the inputs for opening a tab on a table.
type OpenSaleRequest struct {
	TableID       uuid.UUID
	CustomerName  string
	CustomerCount int
	OperatorName  string
}

// AddItemRequest carries the inputs for one line item. Items are priced per
// unit or per kilogram; exactly the unit fields are required for the former,
// the weight fields for the latter.
type AddItemRequest struct {
	ProductCode    string
	ProductName    string
	Quantity       int
	UnitPrice      float64
	WeightKg       *float64
	PricePerKg     *float64
	DiscountAmount float64
	Notes          *string
}

// SaleWorkflowInterface manages the lifecycle of a table sale:
// open -> items accumulate -> closed, or open -> cancelled. Both end states
// are terminal.
type SaleWorkflowInterface interface {
	OpenSale(ctx context.Context, store models.StoreID, req *OpenSaleRequest) (*models.Sale, error)
	AddItem(ctx context.Context, store models.StoreID, saleID uuid.UUID, req *AddItemRequest) (*models.SaleItem, error)
	Finalize(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeFor *float64) (*models.Sale, error)
	Cancel(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error)
	GetSale(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error)
	ListOpenSales(ctx context.Context, store models.StoreID) ([]*models.Sale, error)
}

type saleWorkflow struct {
	saleRepo  repositories.SaleRepository
	itemRepo  repositories.SaleItemRepository
	tableRepo repositories.TableRepository
	ledger    CashLedgerInterface
	receipts  ReceiptArchiver

	// now is swapped out by tests.
	now func() time.Time
}

// NewSaleWorkflow creates a new sale workflow instance. receipts may be nil
// when no archive is configured.
func NewSaleWorkflow(saleRepo repositories.SaleRepository, itemRepo repositories.SaleItemRepository,
	tableRepo repositories.TableRepository, ledger CashLedgerInterface, receipts ReceiptArchiver) SaleWorkflowInterface {
	return &saleWorkflow{
		saleRepo:  saleRepo,
		itemRepo:  itemRepo,
		tableRepo: tableRepo,
		ledger:    ledger,
		receipts:  receipts,
		now:       time.Now,
	}
}

// OpenSale creates a sale in the open state and marks its table occupied.
// The two writes are separate store calls: when the second fails the sale is
// already recorded and the table still shows free. That partial state is
// surfaced in the returned error rather than repaired here.
func (s *saleWorkflow) OpenSale(ctx context.Context, store models.StoreID, req *OpenSaleRequest) (*models.Sale, error) {
	if err := common.ValidateRequiredString(req.CustomerName, "customer_name"); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(req.OperatorName, "operator_name"); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveInteger(req.CustomerCount, "customer_count", 100); err != nil {
		return nil, err
	}
	if req.TableID == uuid.Nil {
		return nil, common.NewValidationError("table_id", "is required")
	}

	table, err := s.tableRepo.GetByID(ctx, store, req.TableID)
	if err != nil {
		return nil, common.NewStoreError("get table", err)
	}
	if table == nil {
		return nil, common.NewValidationError("table_id", "table not found")
	}
	if !table.IsActive {
		return nil, common.NewValidationError("table_id", "table is not active")
	}
	if table.Status != models.TableFree {
		return nil, common.NewValidationError("table_id", "table is not free")
	}

	number, err := s.saleRepo.NextSaleNumber(ctx, store)
	if err != nil {
		return nil, common.NewStoreError("next sale number", err)
	}

	sale := &models.Sale{
		ID:            uuid.New(),
		TableID:       req.TableID,
		SaleNumber:    number,
		OperatorName:  req.OperatorName,
		CustomerName:  req.CustomerName,
		CustomerCount: req.CustomerCount,
		Status:        models.SaleOpen,
		OpenedAt:      s.now(),
	}
	if err := s.saleRepo.Create(ctx, store, sale); err != nil {
		return nil, common.NewStoreError("create sale", err)
	}

	if err := s.tableRepo.MarkOccupied(ctx, store, req.TableID, sale.ID); err != nil {
		log.Printf("ERROR: sale %s recorded but table %s not marked occupied: %v", sale.ID, req.TableID, err)
		return nil, common.NewStoreError("mark table occupied (sale already recorded)", err)
	}

	return sale, nil
}

// AddItem persists a line item and then folds its subtotal into the sale's
// totals. The totals update is a second store call; if it fails the item is
// already persisted and the sale totals are stale.
func (s *saleWorkflow) AddItem(ctx context.Context, store models.StoreID, saleID uuid.UUID, req *AddItemRequest) (*models.SaleItem, error) {
	if err := common.ValidateRequiredString(req.ProductName, "product_name"); err != nil {
		return nil, err
	}
	weighed := req.WeightKg != nil
	if weighed {
		if common.SafeFloat64(req.WeightKg) <= 0 {
			return nil, common.NewValidationError("weight_kg", "must be positive")
		}
		if req.PricePerKg == nil || common.SafeFloat64(req.PricePerKg) < 0 {
			return nil, common.NewValidationError("price_per_kg", "is required for weighed items")
		}
	} else {
		if err := common.ValidatePositiveInteger(req.Quantity, "quantity", 1000); err != nil {
			return nil, err
		}
		if err := common.ValidateNonNegativeFloat(req.UnitPrice, "unit_price", 100000); err != nil {
			return nil, err
		}
	}
	if err := common.ValidateNonNegativeFloat(req.DiscountAmount, "discount_amount", 100000); err != nil {
		return nil, err
	}

	sale, err := s.saleRepo.GetByID(ctx, store, saleID)
	if err != nil {
		return nil, common.NewStoreError("get sale", err)
	}
	if sale == nil {
		return nil, common.NewValidationError("sale_id", "sale not found")
	}
	if sale.Status != models.SaleOpen {
		return nil, common.NewInvalidStateError("sale", string(sale.Status), "add item to")
	}

	var itemSubtotal float64
	if weighed {
		itemSubtotal = common.SafeFloat64(req.WeightKg)*common.SafeFloat64(req.PricePerKg) - req.DiscountAmount
	} else {
		itemSubtotal = float64(req.Quantity)*req.UnitPrice - req.DiscountAmount
	}
	if itemSubtotal < 0 {
		return nil, common.NewValidationError("discount_amount", "cannot exceed the item price")
	}

	code := req.ProductCode
	if code == "" {
		code = models.DefaultProductCode
	}

	item := &models.SaleItem{
		ID:             uuid.New(),
		SaleID:         saleID,
		ProductCode:    code,
		ProductName:    req.ProductName,
		Quantity:       req.Quantity,
		WeightKg:       req.WeightKg,
		UnitPrice:      req.UnitPrice,
		PricePerKg:     req.PricePerKg,
		DiscountAmount: req.DiscountAmount,
		Subtotal:       itemSubtotal,
		Notes:          req.Notes,
	}
	if err := s.itemRepo.Create(ctx, store, item); err != nil {
		return nil, common.NewStoreError("create sale item", err)
	}

	newSubtotal := sale.Subtotal + itemSubtotal
	newTotal := newSubtotal - sale.DiscountAmount
	if err := s.saleRepo.UpdateTotals(ctx, store, saleID, newSubtotal, newTotal); err != nil {
		log.Printf("ERROR: item %s persisted but totals of sale %s not updated: %v", item.ID, saleID, err)
		return nil, common.NewStoreError("update sale totals (item already recorded)", err)
	}

	return item, nil
}

// Finalize closes the sale, posts its total to the open cash register and
// releases the table. The three effects are separate sequential store calls:
// a failure in the ledger post or the table release after the sale closed
// leaves that state stale. Such failures are logged and do not fail the
// finalization, matching the register's manual reconciliation procedure.
func (s *saleWorkflow) Finalize(ctx context.Context, store models.StoreID, saleID uuid.UUID, payment models.PaymentType, changeFor *float64) (*models.Sale, error) {
	if payment == "" {
		return nil, common.NewValidationError("payment_type", "is required")
	}
	if !payment.Valid() {
		return nil, common.NewValidationError("payment_type", "unknown payment type")
	}

	sale, err := s.saleRepo.GetByID(ctx, store, saleID)
	if err != nil {
		return nil, common.NewStoreError("get sale", err)
	}
	if sale == nil {
		return nil, common.NewValidationError("sale_id", "sale not found")
	}
	if sale.Status != models.SaleOpen {
		return nil, common.NewInvalidStateError("sale", string(sale.Status), "finalize")
	}

	// changeFor is recorded as given; it is not validated against the total
	// and no change owed is computed.
	change := common.SafeFloat64(changeFor)
	closedAt := s.now()
	if err := s.saleRepo.Close(ctx, store, saleID, payment, change, closedAt); err != nil {
		return nil, common.NewStoreError("close sale", err)
	}

	sale.Status = models.SaleClosed
	sale.PaymentType = &payment
	sale.ChangeAmount = change
	sale.ClosedAt = &closedAt

	if err := s.ledger.PostSaleIncome(ctx, store, sale); err != nil {
		log.Printf("ERROR: sale #%d closed but ledger not credited: %v", sale.SaleNumber, err)
	}

	if err := s.tableRepo.MarkAwaitingPayment(ctx, store, sale.TableID); err != nil {
		log.Printf("ERROR: sale #%d closed but table %s not released: %v", sale.SaleNumber, sale.TableID, err)
	}

	if s.receipts != nil {
		items, err := s.itemRepo.ListBySale(ctx, store, saleID)
		if err == nil {
			sale.Items = items
		}
		if err := s.receipts.ArchiveReceipt(ctx, store, sale); err != nil {
			log.Printf("WARN: receipt for sale #%d not archived: %v", sale.SaleNumber, err)
		}
	}

	return sale, nil
}

// Cancel voids an open sale and returns its table to the free pool.
func (s *saleWorkflow) Cancel(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, store, saleID)
	if err != nil {
		return nil, common.NewStoreError("get sale", err)
	}
	if sale == nil {
		return nil, common.NewValidationError("sale_id", "sale not found")
	}
	if sale.Status != models.SaleOpen {
		return nil, common.NewInvalidStateError("sale", string(sale.Status), "cancel")
	}

	closedAt := s.now()
	if err := s.saleRepo.MarkCancelled(ctx, store, saleID, closedAt); err != nil {
		return nil, common.NewStoreError("cancel sale", err)
	}
	sale.Status = models.SaleCancelled
	sale.ClosedAt = &closedAt

	if err := s.tableRepo.UpdateStatus(ctx, store, sale.TableID, models.TableFree); err != nil {
		log.Printf("ERROR: sale #%d cancelled but table %s not freed: %v", sale.SaleNumber, sale.TableID, err)
	}

	return sale, nil
}

// GetSale returns one sale hydrated with its items.
func (s *saleWorkflow) GetSale(ctx context.Context, store models.StoreID, saleID uuid.UUID) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, store, saleID)
	if err != nil {
		return nil, common.NewStoreError("get sale", err)
	}
	if sale == nil {
		return nil, nil
	}
	items, err := s.itemRepo.ListBySale(ctx, store, saleID)
	if err != nil {
		return nil, common.NewStoreError("list sale items", err)
	}
	sale.Items = items
	return sale, nil
}

// ListOpenSales returns the store's open sales, newest first, hydrated with
// their items.
func (s *saleWorkflow) ListOpenSales(ctx context.Context, store models.StoreID) ([]*models.Sale, error) {
	sales, err := s.saleRepo.ListOpen(ctx, store)
	if err != nil {
		return nil, common.NewStoreError("list open sales", err)
	}
	for _, sale := range sales {
		items, err := s.itemRepo.ListBySale(ctx, store, sale.ID)
		if err != nil {
			return nil, common.NewStoreError("list sale items", err)
		}
		sale.Items = items
	}
	return sales, nil
}
