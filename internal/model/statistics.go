package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSnapshot aggregates collection totals for the admin dashboard
type DashboardSnapshot struct {
	TotalCollected   decimal.Decimal   `json:"total_collected"`
	TotalOutstanding decimal.Decimal   `json:"total_outstanding"`
	PendingCount     int64             `json:"pending_count"`
	RecentSales      []RecentSale      `json:"recent_sales"`
	Series           []DailyCollection `json:"series"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// RecentSale is a row of the dashboard's latest-sales table
type RecentSale struct {
	ID             string          `json:"id"`
	ContractNumber *string         `json:"contract_number"`
	CustomerName   string          `json:"customer_name"`
	FigurineName   string          `json:"figurine_name"`
	SoldAt         time.Time       `json:"sold_at"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	Balance        decimal.Decimal `json:"balance"`
	Status         string          `json:"status"`
}

// DailyCollection is the sum of payments received on one calendar day
type DailyCollection struct {
	Date   string          `json:"date"`  // 2006-01-02
	Label  string          `json:"label"` // 02 Jan
	Amount decimal.Decimal `json:"amount"`
}
