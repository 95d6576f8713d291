package jobs

import (
	"context"
	"log"
	"time"

	"comanda/internal/models"
	"comanda/internal/repositories"

	"github.com/google/uuid"
)

// DefaultStaleThreshold flags sales still open after a typical service window.
const DefaultStaleThreshold = 4 * time.Hour

type StaleSaleAlertService struct {
	saleRepo repositories.SaleRepository
	now      func() time.Time
}

type StaleSaleAlert struct {
	Store      models.StoreID
	SaleID     uuid.UUID
	SaleNumber int
	TableID    uuid.UUID
	Operator   string
	OpenFor    time.Duration
}

func NewStaleSaleAlertService(saleRepo repositories.SaleRepository) *StaleSaleAlertService {
	return &StaleSaleAlertService{
		saleRepo: saleRepo,
		now:      time.Now,
	}
}

// CheckStaleSales returns the store's sales that have been open longer than
// the threshold.
func (a *StaleSaleAlertService) CheckStaleSales(ctx context.Context, store models.StoreID, threshold time.Duration) ([]StaleSaleAlert, error) {
	if threshold <= 0 {
		threshold = DefaultStaleThreshold
	}

	sales, err := a.saleRepo.ListOpen(ctx, store)
	if err != nil {
		log.Printf("Failed to list open sales for %s: %v", store, err)
		return nil, err
	}

	var alerts []StaleSaleAlert
	for _, sale := range sales {
		openFor := a.now().Sub(sale.OpenedAt)
		if openFor >= threshold {
			alerts = append(alerts, StaleSaleAlert{
				Store:      store,
				SaleID:     sale.ID,
				SaleNumber: sale.SaleNumber,
				TableID:    sale.TableID,
				Operator:   sale.OperatorName,
				OpenFor:    openFor,
			})
		}
	}

	return alerts, nil
}

func (a *StaleSaleAlertService) LogStaleSaleAlerts(alerts []StaleSaleAlert) {
	if len(alerts) == 0 {
		return
	}

	log.Printf("Stale open sales for %s:", alerts[0].Store)
	for _, alert := range alerts {
		log.Printf("- Sale #%d (table %s, operator %s) open for %s",
			alert.SaleNumber,
			alert.TableID.String(),
			alert.Operator,
			alert.OpenFor.Round(time.Minute))
	}
}

// ScheduledStaleSaleCheck scans every store; reporting only, no state changes.
func (a *StaleSaleAlertService) ScheduledStaleSaleCheck(ctx context.Context) error {
	log.Println("Starting scheduled stale sale check")

	for _, store := range []models.StoreID{models.Store1, models.Store2} {
		alerts, err := a.CheckStaleSales(ctx, store, DefaultStaleThreshold)
		if err != nil {
			log.Printf("Scheduled stale sale check failed for %s: %v", store, err)
			continue
		}
		a.LogStaleSaleAlerts(alerts)
	}

	log.Println("Scheduled stale sale check completed")
	return nil
}
