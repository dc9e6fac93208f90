package service

import (
	"context"
	"testing"
	"time"

	"sacra/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestDashboardEmpty(t *testing.T) {
	env := newTestEnv(t)

	snap, err := env.dashboard.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !snap.TotalCollected.IsZero() || !snap.TotalOutstanding.IsZero() || snap.PendingCount != 0 {
		t.Fatalf("expected zero totals, got %+v", snap)
	}
	if len(snap.RecentSales) != 0 {
		t.Fatalf("expected no recent sales, got %d", len(snap.RecentSales))
	}
	if len(snap.Series) != seriesDays {
		t.Fatalf("expected %d series points, got %d", seriesDays, len(snap.Series))
	}
	for _, p := range snap.Series {
		if !p.Amount.IsZero() {
			t.Fatalf("expected zero-filled series, got %s on %s", p.Amount, p.Date)
		}
	}
}

func TestDashboardTotals(t *testing.T) {
	env := newTestEnv(t)
	a := env.createFigurine(t, "A", "100", 1)
	b := env.createFigurine(t, "B", "50", 1)

	saleA := env.createSale(t, a.ID, "1")
	saleB := env.createSale(t, b.ID, "2")
	env.pay(t, saleA.ID, "30")
	env.pay(t, saleB.ID, "60")

	snap, err := env.dashboard.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !snap.TotalCollected.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected collected 90, got %s", snap.TotalCollected)
	}
	// The overpaid sale does not offset the other one's balance.
	if !snap.TotalOutstanding.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected outstanding 70, got %s", snap.TotalOutstanding)
	}
	if snap.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", snap.PendingCount)
	}
	if len(snap.RecentSales) != 2 {
		t.Fatalf("expected 2 recent sales, got %d", len(snap.RecentSales))
	}
}

func TestDashboardSeriesUsesLocalDays(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "C", "500", 1)
	sale := env.createSale(t, fig.ID, "1")
	saleID := uuid.MustParse(sale.ID)

	// 15:00 local on 10 May 2024, UTC-5.
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	env.dashboard.(*dashboardService).now = func() time.Time { return now }

	payments := []struct {
		at     time.Time
		amount string
	}{
		{time.Date(2024, 5, 10, 3, 0, 0, 0, time.UTC), "10"},  // 9 May, 22:00 local
		{time.Date(2024, 5, 10, 19, 0, 0, 0, time.UTC), "25"}, // 10 May
		{time.Date(2024, 5, 10, 19, 30, 0, 0, time.UTC), "5"}, // 10 May
		{time.Date(2024, 5, 4, 5, 30, 0, 0, time.UTC), "7"},   // 4 May, 00:30 local
		{time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC), "99"},  // outside the window
	}
	for _, p := range payments {
		err := env.payments.Create(context.Background(), &model.Payment{
			SaleID: saleID,
			Amount: decimal.RequireFromString(p.amount),
			PaidAt: p.at,
		})
		if err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	snap, err := env.dashboard.GetDashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	want := map[string]string{
		"2024-05-04": "7",
		"2024-05-05": "0",
		"2024-05-06": "0",
		"2024-05-07": "0",
		"2024-05-08": "0",
		"2024-05-09": "10",
		"2024-05-10": "30",
	}
	if len(snap.Series) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(snap.Series))
	}
	if snap.Series[0].Date != "2024-05-04" || snap.Series[6].Date != "2024-05-10" {
		t.Fatalf("expected oldest first, got %s..%s", snap.Series[0].Date, snap.Series[6].Date)
	}
	if snap.Series[6].Label != "10 May" {
		t.Fatalf("expected label 10 May, got %q", snap.Series[6].Label)
	}
	for _, p := range snap.Series {
		if !p.Amount.Equal(decimal.RequireFromString(want[p.Date])) {
			t.Fatalf("%s: expected %s, got %s", p.Date, want[p.Date], p.Amount)
		}
	}
}
