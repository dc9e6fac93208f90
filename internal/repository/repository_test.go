package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"sacra/internal/database/dbtest"
	"sacra/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedFigurine(t *testing.T, db *gorm.DB, name string, stock int) *model.Figurine {
	t.Helper()
	f := &model.Figurine{
		Name:     name,
		Size:     model.DefaultFigurineSize,
		Material: model.MaterialResin,
		Price:    decimal.NewFromInt(100),
		Stock:    stock,
	}
	if err := NewFigurineRepository(db).Create(context.Background(), f); err != nil {
		t.Fatalf("create figurine: %v", err)
	}
	return f
}

func seedSale(t *testing.T, db *gorm.DB, f *model.Figurine, idNumber string, soldAt time.Time, paid int64) *model.Sale {
	t.Helper()
	s := &model.Sale{
		CustomerName:    "Cliente " + idNumber,
		IDNumber:        idNumber,
		FigurineID:      f.ID,
		PaymentModality: model.ModalityInPerson,
		SoldAt:          soldAt,
		TotalDebt:       f.Price,
		AmountPaid:      decimal.NewFromInt(paid),
		DueDate:         soldAt.AddDate(0, 1, 0),
		Status:          model.SaleStatusPending,
	}
	if decimal.NewFromInt(paid).GreaterThanOrEqual(f.Price) {
		s.Status = model.SaleStatusPaid
	}
	if err := NewSaleRepository(db).Create(context.Background(), s); err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return s
}

func TestFigurineDecrementStockStopsAtZero(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewFigurineRepository(db)
	ctx := context.Background()
	f := seedFigurine(t, db, "San Miguel", 1)

	ok, err := repo.DecrementStock(ctx, f.ID)
	if err != nil || !ok {
		t.Fatalf("first decrement: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecrementStock(ctx, f.ID)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if ok {
		t.Fatalf("expected no unit left")
	}

	got, err := repo.FindByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}
}

func TestFigurineListSearchAndPaging(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewFigurineRepository(db)
	seedFigurine(t, db, "Virgen del Cisne", 2)
	seedFigurine(t, db, "Divino Niño", 2)
	seedFigurine(t, db, "Virgen de Guadalupe", 2)

	items, total, err := repo.List(context.Background(), 1, 10, "virgen")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(items))
	}

	items, total, err = repo.List(context.Background(), 2, 2, "")
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("expected 1 item on page 2 of 3, got total=%d len=%d", total, len(items))
	}
}

func TestFindByIDMissing(t *testing.T) {
	db := dbtest.Open(t)
	_, err := NewFigurineRepository(db).FindByID(context.Background(), uuid.New())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSaleFindByIDNumberOldestFirst(t *testing.T) {
	db := dbtest.Open(t)
	f := seedFigurine(t, db, "San José", 5)
	base := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	newer := seedSale(t, db, f, "0102030405", base.Add(48*time.Hour), 0)
	older := seedSale(t, db, f, "0102030405", base, 0)
	seedSale(t, db, f, "9999999999", base, 0)

	sales, err := NewSaleRepository(db).FindByIDNumber(context.Background(), "0102030405")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].ID != older.ID || sales[1].ID != newer.ID {
		t.Fatalf("expected oldest first")
	}
	if sales[0].Figurine == nil || sales[0].Figurine.Name != "San José" {
		t.Fatalf("expected figurine preloaded")
	}
}

func TestContractNumberUnique(t *testing.T) {
	db := dbtest.Open(t)
	f := seedFigurine(t, db, "San Judas", 5)
	repo := NewSaleRepository(db)
	contract := "C-001"

	mk := func() *model.Sale {
		return &model.Sale{
			CustomerName:    "Ana",
			FigurineID:      f.ID,
			ContractNumber:  &contract,
			PaymentModality: model.ModalityCash,
			SoldAt:          time.Now().UTC(),
			TotalDebt:       f.Price,
			DueDate:         time.Now().UTC(),
			Status:          model.SaleStatusPending,
		}
	}
	if err := repo.Create(context.Background(), mk()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := repo.Create(context.Background(), mk()); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestDashboardTotalsClampOverpayment(t *testing.T) {
	db := dbtest.Open(t)
	f := seedFigurine(t, db, "Sagrado Corazón", 5)
	now := time.Now().UTC()
	seedSale(t, db, f, "1", now, 40)  // owes 60
	seedSale(t, db, f, "2", now, 100) // settled
	seedSale(t, db, f, "3", now, 130) // overpaid, owes nothing

	totals, err := NewDashboardRepository(db).GetSaleTotals(context.Background())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Collected.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("expected collected 270, got %s", totals.Collected)
	}
	if !totals.Outstanding.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected outstanding 60, got %s", totals.Outstanding)
	}
	if totals.PendingCount != 1 {
		t.Fatalf("expected 1 pending, got %d", totals.PendingCount)
	}
}

func TestDashboardTotalsEmpty(t *testing.T) {
	db := dbtest.Open(t)
	totals, err := NewDashboardRepository(db).GetSaleTotals(context.Background())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Collected.IsZero() || !totals.Outstanding.IsZero() || totals.PendingCount != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	tm := NewTransactionManager(db)
	repo := NewFigurineRepository(db)
	boom := errors.New("boom")

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if !InTx(txCtx) {
			t.Fatalf("expected tx in context")
		}
		if err := repo.Create(txCtx, &model.Figurine{Name: "x", Size: "1", Material: model.MaterialResin}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_, total, err := repo.List(context.Background(), 1, 10, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected rollback, found %d rows", total)
	}
}

func TestPaymentsDeleteBySales(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	f := seedFigurine(t, db, "San Antonio", 5)
	s1 := seedSale(t, db, f, "1", time.Now().UTC(), 0)
	s2 := seedSale(t, db, f, "2", time.Now().UTC(), 0)
	payments := NewPaymentRepository(db)
	for _, sid := range []uuid.UUID{s1.ID, s1.ID, s2.ID} {
		if err := payments.Create(ctx, &model.Payment{SaleID: sid, Amount: decimal.NewFromInt(10), PaidAt: time.Now().UTC()}); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}

	amounts, err := payments.AmountsBySale(ctx, s1.ID)
	if err != nil || len(amounts) != 2 {
		t.Fatalf("expected 2 amounts, got %v err=%v", amounts, err)
	}

	n, err := payments.DeleteBySales(ctx, []uuid.UUID{s1.ID, s2.ID})
	if err != nil || n != 3 {
		t.Fatalf("expected 3 deleted, got %d err=%v", n, err)
	}
}
