package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"comanda/internal/common"
	"comanda/internal/models"
	"comanda/internal/services"

	"github.com/labstack/echo/v4"
)

// SaleHandlers handles HTTP requests for the sale lifecycle
type SaleHandlers struct {
	panel    services.PanelServiceInterface
	workflow services.SaleWorkflowInterface
}

// NewSaleHandlers creates a new sale handlers instance. Mutations go through
// the panel so they pick up the in-flight guard and cache invalidation; reads
// hit the workflow directly.
func NewSaleHandlers(panel services.PanelServiceInterface, workflow services.SaleWorkflowInterface) *SaleHandlers {
	return &SaleHandlers{panel: panel, workflow: workflow}
}

// parseStoreParam resolves the :store path segment to a known store.
func parseStoreParam(c echo.Context) (models.StoreID, error) {
	n, err := strconv.Atoi(c.Param("store"))
	if err != nil {
		return 0, common.NewValidationError("store", "must be a number")
	}
	store, err := models.ParseStoreID(n)
	if err != nil {
		return 0, common.NewValidationError("store", "unknown store")
	}
	return store, nil
}

// sendServiceError maps the workflow's error classes to HTTP responses.
// Validation problems are the caller's to fix; state and in-flight rejections
// are conflicts; store failures get the generic retry notice with the detail
// kept in the server log.
func sendServiceError(c echo.Context, err error) error {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return common.SendValidationError(c, ve.Field, ve.Message)
	}
	if common.IsInvalidState(err) || errors.Is(err, common.ErrActionInFlight) {
		return common.SendConflictError(c, err.Error())
	}
	log.Printf("ERROR: %s %s failed: %v", c.Request().Method, c.Path(), err)
	if common.IsStore(err) {
		return common.SendStoreError(c)
	}
	return common.SendServerError(c, "Unexpected error")
}

// OpenSale handles POST /stores/:store/sales
func (h *SaleHandlers) OpenSale(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	var req struct {
		TableID       string `json:"table_id"`
		CustomerName  string `json:"customer_name"`
		CustomerCount int    `json:"customer_count"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tableID, err := common.ValidateUUID(req.TableID, "table_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	operator, ok := common.GetOperatorNameFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	sale, err := h.panel.OpenSale(ctx, store, &services.OpenSaleRequest{
		TableID:       tableID,
		CustomerName:  req.CustomerName,
		CustomerCount: req.CustomerCount,
		OperatorName:  operator,
	})
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Sale opened successfully",
		"sale":    sale,
	})
}

// AddItem handles POST /stores/:store/sales/:id/items
func (h *SaleHandlers) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	saleID, err := common.ValidateUUID(c.Param("id"), "sale_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	var req struct {
		ProductCode    string   `json:"product_code"`
		ProductName    string   `json:"product_name"`
		Quantity       int      `json:"quantity"`
		UnitPrice      float64  `json:"unit_price"`
		WeightKg       *float64 `json:"weight_kg"`
		PricePerKg     *float64 `json:"price_per_kg"`
		DiscountAmount float64  `json:"discount_amount"`
		Notes          *string  `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.panel.AddItem(ctx, store, saleID, &services.AddItemRequest{
		ProductCode:    req.ProductCode,
		ProductName:    req.ProductName,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		WeightKg:       req.WeightKg,
		PricePerKg:     req.PricePerKg,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
	})
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Item added successfully",
		"item":    item,
	})
}

// Finalize handles POST /stores/:store/sales/:id/finalize
func (h *SaleHandlers) Finalize(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	saleID, err := common.ValidateUUID(c.Param("id"), "sale_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	var req struct {
		PaymentType string   `json:"payment_type"`
		ChangeFor   *float64 `json:"change_for"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	sale, err := h.panel.Finalize(ctx, store, saleID, models.PaymentType(req.PaymentType), req.ChangeFor)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Sale finalized successfully",
		"sale":    sale,
	})
}

// Cancel handles POST /stores/:store/sales/:id/cancel
func (h *SaleHandlers) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	saleID, err := common.ValidateUUID(c.Param("id"), "sale_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	sale, err := h.panel.Cancel(ctx, store, saleID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Sale cancelled successfully",
		"sale":    sale,
	})
}

// GetSale handles GET /stores/:store/sales/:id
func (h *SaleHandlers) GetSale(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	saleID, err := common.ValidateUUID(c.Param("id"), "sale_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	sale, err := h.workflow.GetSale(ctx, store, saleID)
	if err != nil {
		return sendServiceError(c, err)
	}
	if sale == nil {
		return common.SendNotFoundError(c, "Sale")
	}

	return c.JSON(http.StatusOK, sale)
}

// ListOpenSales handles GET /stores/:store/sales
func (h *SaleHandlers) ListOpenSales(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	sales, err := h.workflow.ListOpenSales(ctx, store)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sales": sales,
		"count": len(sales),
	})
}
