package services

import (
	"strings"
	"testing"
	"time"

	"comanda/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRenderReceipt_UnitAndWeighedItems(t *testing.T) {
	payment := models.PaymentCash
	closedAt := time.Date(2026, 8, 30, 14, 35, 0, 0, time.UTC)
	weight := 0.450
	perKg := 59.90

	sale := &models.Sale{
		ID: uuid.New(), SaleNumber: 1002,
		OperatorName: "Operador", CustomerName: "Ana", CustomerCount: 2,
		Subtotal: 56.96, DiscountAmount: 5.00, TotalAmount: 51.96,
		PaymentType: &payment, ChangeAmount: 100.00,
		Status: models.SaleClosed, ClosedAt: &closedAt,
		Items: []*models.SaleItem{
			{ProductName: "Burger", Quantity: 2, UnitPrice: 15.00, Subtotal: 30.00},
			{ProductName: "Self-service", WeightKg: &weight, PricePerKg: &perKg, Subtotal: 26.96},
		},
	}

	body := string(RenderReceipt(models.Store1, sale))

	assert.True(t, strings.HasPrefix(body, "Venda Mesa #1002 (store-1)\n"))
	assert.Contains(t, body, "Cliente: Ana (2 pessoas)")
	assert.Contains(t, body, "Operador: Operador")
	assert.Contains(t, body, "Fechada em: 30/08/2026 14:35")
	assert.Contains(t, body, "2 x R$ 15.00  R$ 30.00")
	assert.Contains(t, body, "0.450kg x R$ 59.90  R$ 26.96")
	assert.Contains(t, body, "Subtotal:  R$ 56.96")
	assert.Contains(t, body, "Desconto: -R$ 5.00")
	assert.Contains(t, body, "Total:     R$ 51.96")
	assert.Contains(t, body, "Pagamento: cash")
	assert.Contains(t, body, "Troco para: R$ 100.00")
}

func TestRenderReceipt_OmitsOptionalLines(t *testing.T) {
	payment := models.PaymentPix

	sale := &models.Sale{
		ID: uuid.New(), SaleNumber: 1003,
		OperatorName: "Operador", CustomerName: "Maria", CustomerCount: 1,
		Subtotal: 8.00, TotalAmount: 8.00,
		PaymentType: &payment, Status: models.SaleClosed,
		Items: []*models.SaleItem{
			{ProductName: "Suco de laranja", Quantity: 1, UnitPrice: 8.00, Subtotal: 8.00},
		},
	}

	body := string(RenderReceipt(models.Store2, sale))

	assert.Contains(t, body, "(store-2)")
	assert.NotContains(t, body, "Fechada em")
	assert.NotContains(t, body, "Desconto")
	assert.NotContains(t, body, "Troco para")
	assert.Contains(t, body, "Pagamento: pix")
}
