package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/store"
	"github.com/MKhiriev/go-invoicer/models"
)

// ChartMonths is the number of calendar months in the revenue chart.
const ChartMonths = 6

// ChartMonthLayout formats the month labels of the revenue chart.
const ChartMonthLayout = "Jan 2006"

type dashboardService struct {
	invoiceRepository store.InvoiceRepository
	clientRepository  store.ClientRepository

	now    func() time.Time
	logger *logger.Logger
}

func NewDashboardService(invoiceRepository store.InvoiceRepository, clientRepository store.ClientRepository, logger *logger.Logger) DashboardService {
	return &dashboardService{
		invoiceRepository: invoiceRepository,
		clientRepository:  clientRepository,
		now:               time.Now,
		logger:            logger,
	}
}

// Stats reports revenue, invoice counts and the number of clients. ThisMonth
// sums invoices paid in the current calendar month (UTC).
func (s *dashboardService) Stats(ctx context.Context, userID int64) (models.DashboardStats, error) {
	invoices, err := s.invoiceRepository.ListInvoices(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*dashboardService.Stats").Msg("error listing invoices")
		return models.DashboardStats{}, fromStoreError(err)
	}
	clients, err := s.clientRepository.ListClients(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*dashboardService.Stats").Msg("error listing clients")
		return models.DashboardStats{}, fromStoreError(err)
	}

	stats := ComputeStats(invoices)
	currentMonth := monthStart(s.now())

	var thisMonth models.Money
	for _, inv := range invoices {
		if inv.Status == models.StatusPaid && inv.PaidAt != nil && monthStart(*inv.PaidAt).Equal(currentMonth) {
			thisMonth += inv.Total
		}
	}

	return models.DashboardStats{
		Revenue: models.RevenueSummary{
			Total:     stats.TotalRevenue,
			ThisMonth: thisMonth,
			Pending:   stats.PendingAmount,
		},
		Invoices: stats.Counts,
		Clients:  models.ClientSummary{Total: len(clients)},
	}, nil
}

// Charts returns the paid revenue of the last ChartMonths months, oldest
// first and ending with the current one, and the count of every status.
func (s *dashboardService) Charts(ctx context.Context, userID int64) (models.DashboardCharts, error) {
	invoices, err := s.invoiceRepository.ListInvoices(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*dashboardService.Charts").Msg("error listing invoices")
		return models.DashboardCharts{}, fromStoreError(err)
	}

	current := monthStart(s.now())
	first := current.AddDate(0, -(ChartMonths - 1), 0)

	revenue := make([]models.MonthlyRevenue, ChartMonths)
	for i := range revenue {
		revenue[i].Month = first.AddDate(0, i, 0).Format(ChartMonthLayout)
	}

	var counts models.InvoiceCounts
	for _, inv := range invoices {
		counts.Add(inv.Status)

		if inv.Status != models.StatusPaid || inv.PaidAt == nil {
			continue
		}
		paidMonth := monthStart(*inv.PaidAt)
		if paidMonth.Before(first) || paidMonth.After(current) {
			continue
		}
		idx := monthsBetween(first, paidMonth)
		revenue[idx].Revenue += inv.Total
	}

	distribution := make([]models.StatusShare, 0, len(models.InvoiceStatuses))
	for _, status := range models.InvoiceStatuses {
		distribution = append(distribution, models.StatusShare{Name: string(status), Value: counts.Of(status)})
	}

	return models.DashboardCharts{Revenue: revenue, StatusDistribution: distribution}, nil
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}
