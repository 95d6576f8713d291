package handlers

import (
	"net/http"
	"time"

	"comanda/internal/common"
	"comanda/internal/middleware"
	"comanda/internal/models"

	"github.com/labstack/echo/v4"
)

const tokenTTL = 12 * time.Hour

// AuthHandlers signs operators into a store.
type AuthHandlers struct {
	jwtSecret   string
	operatorPIN string
}

// NewAuthHandlers creates a new auth handlers instance. operatorPIN may be
// empty, in which case any PIN is accepted.
func NewAuthHandlers(jwtSecret, operatorPIN string) *AuthHandlers {
	return &AuthHandlers{jwtSecret: jwtSecret, operatorPIN: operatorPIN}
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		OperatorName string `json:"operator_name"`
		Store        int    `json:"store"`
		PIN          string `json:"pin"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.OperatorName, "operator_name"); err != nil {
		return sendServiceError(c, err)
	}
	store, err := models.ParseStoreID(req.Store)
	if err != nil {
		return common.SendValidationError(c, "store", "unknown store")
	}
	if h.operatorPIN != "" && req.PIN != h.operatorPIN {
		return common.SendUnauthorizedError(c)
	}

	token, err := middleware.IssueOperatorToken(h.jwtSecret, req.OperatorName, store, tokenTTL)
	if err != nil {
		return common.SendServerError(c, "Could not issue token")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": int(tokenTTL.Seconds()),
	})
}
