package service

import (
	"context"
	"fmt"
	"time"

	"sacra/internal/cache"
	"sacra/internal/model"
	"sacra/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	recentSalesLimit = 10
	seriesDays       = 7
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (model.DashboardSnapshot, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	saleRepo      repository.SaleRepository
	paymentRepo   repository.PaymentRepository
	cache         cache.Store
	cacheTTL      time.Duration
	loc           *time.Location
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	store cache.Store,
	cacheTTL time.Duration,
	loc *time.Location,
	log logrus.FieldLogger,
) DashboardService {
	if store == nil {
		store = cache.NewNoopStore()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		saleRepo:      saleRepo,
		paymentRepo:   paymentRepo,
		cache:         store,
		cacheTTL:      cacheTTL,
		loc:           loc,
		log:           log.WithField("module", "dashboard"),
		now:           time.Now,
	}
}

// GetDashboard returns the collection snapshot, from cache when it is fresh.
func (s *dashboardService) GetDashboard(ctx context.Context) (model.DashboardSnapshot, error) {
	var snap model.DashboardSnapshot
	if hit, err := s.cache.GetObject(ctx, cache.DashboardKey, &snap); err != nil {
		s.log.WithError(err).Warn("dashboard cache read failed")
	} else if hit {
		return snap, nil
	}

	snap, err := s.build(ctx)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	if s.cacheTTL > 0 {
		if err := s.cache.SetObject(ctx, cache.DashboardKey, snap, s.cacheTTL); err != nil {
			s.log.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return snap, nil
}

func (s *dashboardService) build(ctx context.Context) (model.DashboardSnapshot, error) {
	now := s.now()

	totals, err := s.dashboardRepo.GetSaleTotals(ctx)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	recent, err := s.saleRepo.Recent(ctx, recentSalesLimit)
	if err != nil {
		return model.DashboardSnapshot{}, fmt.Errorf("failed to load recent sales: %w", err)
	}

	series, err := s.dailySeries(ctx, now)
	if err != nil {
		return model.DashboardSnapshot{}, err
	}

	snap := model.DashboardSnapshot{
		TotalCollected:   totals.Collected,
		TotalOutstanding: totals.Outstanding,
		PendingCount:     totals.PendingCount,
		RecentSales:      make([]model.RecentSale, 0, len(recent)),
		Series:           series,
		GeneratedAt:      now.UTC(),
	}
	for _, sale := range recent {
		row := model.RecentSale{
			ID:             sale.ID.String(),
			ContractNumber: sale.ContractNumber,
			CustomerName:   sale.CustomerName,
			SoldAt:         sale.SoldAt,
			TotalDebt:      sale.TotalDebt,
			AmountPaid:     sale.AmountPaid,
			Balance:        sale.Balance(),
			Status:         sale.Status,
		}
		if sale.Figurine != nil {
			row.FigurineName = sale.Figurine.Name
		}
		snap.RecentSales = append(snap.RecentSales, row)
	}
	return snap, nil
}

// dailySeries sums payments per calendar day in s.loc for the seven days
// ending today, oldest first.
func (s *dashboardService) dailySeries(ctx context.Context, now time.Time) ([]model.DailyCollection, error) {
	local := now.In(s.loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	from := today.AddDate(0, 0, -(seriesDays - 1))
	to := today.AddDate(0, 0, 1)

	payments, err := s.paymentRepo.InWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	byDay := make(map[string]decimal.Decimal, seriesDays)
	for _, p := range payments {
		key := p.PaidAt.In(s.loc).Format(dateLayout)
		byDay[key] = byDay[key].Add(p.Amount)
	}

	series := make([]model.DailyCollection, 0, seriesDays)
	for i := 0; i < seriesDays; i++ {
		day := from.AddDate(0, 0, i)
		key := day.Format(dateLayout)
		amount, ok := byDay[key]
		if !ok {
			amount = decimal.Zero
		}
		series = append(series, model.DailyCollection{
			Date:   key,
			Label:  day.Format("02 Jan"),
			Amount: amount,
		})
	}
	return series, nil
}
