package handlers

import (
	"net/http"

	"comanda/internal/common"
	"comanda/internal/services"

	"github.com/labstack/echo/v4"
)

// TableHandlers handles HTTP requests for the table registry
type TableHandlers struct {
	tableService services.TableServiceInterface
}

// NewTableHandlers creates a new table handlers instance
func NewTableHandlers(tableService services.TableServiceInterface) *TableHandlers {
	return &TableHandlers{tableService: tableService}
}

// ListTables handles GET /stores/:store/tables
func (h *TableHandlers) ListTables(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	tables, err := h.tableService.ListTables(ctx, store)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tables": tables,
		"count":  len(tables),
	})
}

// MarkCleaning handles POST /stores/:store/tables/:id/cleaning
func (h *TableHandlers) MarkCleaning(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	tableID, err := common.ValidateUUID(c.Param("id"), "table_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	table, err := h.tableService.MarkCleaning(ctx, store, tableID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Table marked for cleaning",
		"table":   table,
	})
}

// MarkFree handles POST /stores/:store/tables/:id/free
func (h *TableHandlers) MarkFree(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}
	tableID, err := common.ValidateUUID(c.Param("id"), "table_id")
	if err != nil {
		return sendServiceError(c, err)
	}

	table, err := h.tableService.MarkFree(ctx, store, tableID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Table released",
		"table":   table,
	})
}
