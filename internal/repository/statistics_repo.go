package repository

import (
	"context"
	"fmt"

	"sacra/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleTotals are the store-wide aggregates shown on the dashboard.
type SaleTotals struct {
	Collected    decimal.Decimal
	Outstanding  decimal.Decimal
	PendingCount int64
}

type DashboardRepository interface {
	GetSaleTotals(ctx context.Context) (SaleTotals, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) GetSaleTotals(ctx context.Context) (SaleTotals, error) {
	var sums struct {
		Collected   decimal.Decimal
		Outstanding decimal.Decimal
	}
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Select("COALESCE(SUM(amount_paid), 0) AS collected, " +
			"COALESCE(SUM(CASE WHEN total_debt > amount_paid THEN total_debt - amount_paid ELSE 0 END), 0) AS outstanding").
		Scan(&sums).Error; err != nil {
		return SaleTotals{}, fmt.Errorf("failed to sum sales: %w", err)
	}

	var pending int64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("status <> ?", model.SaleStatusPaid).
		Count(&pending).Error; err != nil {
		return SaleTotals{}, fmt.Errorf("failed to count pending sales: %w", err)
	}

	return SaleTotals{
		Collected:    sums.Collected,
		Outstanding:  sums.Outstanding,
		PendingCount: pending,
	}, nil
}
