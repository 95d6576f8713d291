package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comanda/internal/common"
	"comanda/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func parseToken(t *testing.T, signed string) *jwt.Token {
	token, err := jwt.ParseWithClaims(signed, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return token
}

func TestIssueOperatorToken_RoundTrip(t *testing.T) {
	signed, err := IssueOperatorToken(testSecret, "Operador", models.Store2, 12*time.Hour)
	require.NoError(t, err)

	token := parseToken(t, signed)
	claims := token.Claims.(*OperatorClaims)
	assert.Equal(t, "Operador", claims.Subject)
	assert.Equal(t, 2, claims.Store)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssueOperatorToken_ZeroTTLOmitsExpiry(t *testing.T) {
	signed, err := IssueOperatorToken(testSecret, "Operador", models.Store1, 0)
	require.NoError(t, err)

	claims := parseToken(t, signed).Claims.(*OperatorClaims)
	assert.Nil(t, claims.ExpiresAt)
}

func runOperatorContext(t *testing.T, token *jwt.Token) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != nil {
		c.Set("user", token)
	}

	handler := OperatorContext()(func(c echo.Context) error {
		name, ok := common.GetOperatorNameFromContext(c.Request().Context())
		assert.True(t, ok)
		store, ok := common.GetStoreIDFromContext(c.Request().Context())
		assert.True(t, ok)
		return c.JSON(http.StatusOK, map[string]interface{}{"operator": name, "store": store})
	})
	return rec, handler(c)
}

func TestOperatorContext_CopiesClaims(t *testing.T) {
	signed, err := IssueOperatorToken(testSecret, "Operador", models.Store2, time.Hour)
	require.NoError(t, err)

	rec, err := runOperatorContext(t, parseToken(t, signed))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"operator":"Operador"`)
	assert.Contains(t, rec.Body.String(), `"store":2`)
}

func TestOperatorContext_MissingToken(t *testing.T) {
	_, err := runOperatorContext(t, nil)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOperatorContext_RejectsBadClaims(t *testing.T) {
	cases := []struct {
		name     string
		operator string
		store    int
	}{
		{"blank operator", "   ", 1},
		{"unknown store", "Operador", 9},
	}

	for _, tc := range cases {
		claims := &OperatorClaims{
			Store:            tc.store,
			RegisteredClaims: jwt.RegisteredClaims{Subject: tc.operator},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err, tc.name)

		_, err = runOperatorContext(t, parseToken(t, signed))
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok, tc.name)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code, tc.name)
	}
}

func TestDemoOperatorMiddleware_StampsOperator(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := DemoOperatorMiddleware("Demonstração")(func(c echo.Context) error {
		name, ok := common.GetOperatorNameFromContext(c.Request().Context())
		assert.True(t, ok)
		assert.Equal(t, "Demonstração", name)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
