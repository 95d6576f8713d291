package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"comanda/internal/common"
	"comanda/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReceiptBucket holds archived receipts for finalized sales.
const ReceiptBucket = "receipts"

// ReceiptArchiver stores a rendered receipt for a finalized sale.
type ReceiptArchiver interface {
	ArchiveReceipt(ctx context.Context, store models.StoreID, sale *models.Sale) error
	GetReceiptURL(store models.StoreID, saleNumber int, expiry time.Duration) (string, error)
}

type minioReceipts struct {
	client *minio.Client
}

// NewMinioReceipts connects the receipt archive and ensures its bucket exists.
func NewMinioReceipts(endpoint, accessKey, secretKey string, useSSL bool) (ReceiptArchiver, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	svc := &minioReceipts{client: client}
	if err := svc.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	return svc, nil
}

func (m *minioReceipts) ensureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, ReceiptBucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, ReceiptBucket, minio.MakeBucketOptions{})
	}
	return nil
}

func receiptObjectName(store models.StoreID, saleNumber int) string {
	return fmt.Sprintf("%s/%d.txt", store, saleNumber)
}

func (m *minioReceipts) ArchiveReceipt(ctx context.Context, store models.StoreID, sale *models.Sale) error {
	body := RenderReceipt(store, sale)
	_, err := m.client.PutObject(ctx, ReceiptBucket, receiptObjectName(store, sale.SaleNumber),
		bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
			ContentType: "text/plain; charset=utf-8",
		})
	return err
}

func (m *minioReceipts) GetReceiptURL(store models.StoreID, saleNumber int, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), ReceiptBucket,
		receiptObjectName(store, saleNumber), expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

// RenderReceipt produces the plain-text receipt for a finalized sale.
func RenderReceipt(store models.StoreID, sale *models.Sale) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Venda Mesa #%d (%s)\n", sale.SaleNumber, store)
	fmt.Fprintf(&buf, "Cliente: %s (%d pessoas)\n", sale.CustomerName, sale.CustomerCount)
	fmt.Fprintf(&buf, "Operador: %s\n", sale.OperatorName)
	if sale.ClosedAt != nil {
		fmt.Fprintf(&buf, "Fechada em: %s\n", sale.ClosedAt.Format("02/01/2006 15:04"))
	}
	buf.WriteString("\n")

	for _, item := range sale.Items {
		if item.WeightKg != nil {
			fmt.Fprintf(&buf, "%-30s %.3fkg x R$ %.2f  R$ %.2f\n", item.ProductName,
				common.SafeFloat64(item.WeightKg), common.SafeFloat64(item.PricePerKg), item.Subtotal)
		} else {
			fmt.Fprintf(&buf, "%-30s %d x R$ %.2f  R$ %.2f\n", item.ProductName,
				item.Quantity, item.UnitPrice, item.Subtotal)
		}
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "Subtotal:  R$ %.2f\n", sale.Subtotal)
	if sale.DiscountAmount > 0 {
		fmt.Fprintf(&buf, "Desconto: -R$ %.2f\n", sale.DiscountAmount)
	}
	fmt.Fprintf(&buf, "Total:     R$ %.2f\n", sale.TotalAmount)
	if sale.PaymentType != nil {
		fmt.Fprintf(&buf, "Pagamento: %s\n", *sale.PaymentType)
		if *sale.PaymentType == models.PaymentCash && sale.ChangeAmount > 0 {
			fmt.Fprintf(&buf, "Troco para: R$ %.2f\n", sale.ChangeAmount)
		}
	}

	return buf.Bytes()
}
