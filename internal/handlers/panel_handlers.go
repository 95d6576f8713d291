package handlers

import (
	"net/http"

	"comanda/internal/services"

	"github.com/labstack/echo/v4"
)

// PanelHandlers serves the aggregated panel view
type PanelHandlers struct {
	panel services.PanelServiceInterface
}

// NewPanelHandlers creates a new panel handlers instance
func NewPanelHandlers(panel services.PanelServiceInterface) *PanelHandlers {
	return &PanelHandlers{panel: panel}
}

// GetSnapshot handles GET /stores/:store/panel
func (h *PanelHandlers) GetSnapshot(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	snapshot, err := h.panel.Snapshot(ctx, store)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// Reload handles POST /stores/:store/panel/reload, forcing a fresh load
// past the cache.
func (h *PanelHandlers) Reload(c echo.Context) error {
	ctx := c.Request().Context()

	store, err := parseStoreParam(c)
	if err != nil {
		return sendServiceError(c, err)
	}

	snapshot, err := h.panel.Reload(ctx, store)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}
