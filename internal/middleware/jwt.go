package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"comanda/internal/common"
	"comanda/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OperatorClaims is the token payload for a signed-in operator.
type OperatorClaims struct {
	Store int `json:"store"`
	jwt.RegisteredClaims
}

// OperatorContext copies the verified token claims into the request context.
// It must run after the echo-jwt verifier, which leaves the parsed token in
// the echo context under "user".
func OperatorContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}
			claims, ok := token.Claims.(*OperatorClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid claims")
			}

			if strings.TrimSpace(claims.Subject) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing operator in token")
			}
			store, err := models.ParseStoreID(claims.Store)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unknown store in token")
			}

			ctx := context.WithValue(c.Request().Context(), common.OperatorNameKey, claims.Subject)
			ctx = context.WithValue(ctx, common.StoreIDKey, int(store))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// DemoOperatorMiddleware stands in for JWT auth in demo mode, stamping every
// request with the demo operator so the workflow still has an operator name.
func DemoOperatorMiddleware(operatorName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := context.WithValue(c.Request().Context(), common.OperatorNameKey, operatorName)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// IssueOperatorToken signs a token for an operator at a store.
func IssueOperatorToken(jwtSecret, operatorName string, store models.StoreID, ttl time.Duration) (string, error) {
	claims := &OperatorClaims{
		Store: int(store),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  operatorName,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
