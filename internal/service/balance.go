package service

import (
	"strings"

	"sacra/internal/model"

	"github.com/shopspring/decimal"
)

// RecalculateBalance derives the cached paid amount and the status of a sale
// from its payment amounts. The result depends only on the inputs.
func RecalculateBalance(totalDebt decimal.Decimal, amounts []decimal.Decimal) (decimal.Decimal, string) {
	paid := decimal.Zero
	for _, a := range amounts {
		paid = paid.Add(a)
	}
	if paid.GreaterThanOrEqual(totalDebt) {
		return paid, model.SaleStatusPaid
	}
	return paid, model.SaleStatusPending
}

// maxMoney bounds prices, payments and the paid total of a sale so they fit
// the decimal(12,2) columns on every dialect.
var maxMoney = decimal.New(1, 8)

// parseMoney reads a money amount rounded to cents.
func parseMoney(field, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, invalidf("%s %q is not a decimal number", field, raw)
	}
	v = v.Round(2)
	if v.GreaterThanOrEqual(maxMoney) {
		return decimal.Zero, invalidf("%s must be below %s", field, maxMoney)
	}
	return v, nil
}
