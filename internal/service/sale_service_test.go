package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sacra/internal/model"
	ws "sacra/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func countRows(t *testing.T, env *testEnv, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := env.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func figurineStock(t *testing.T, env *testEnv, id string) int {
	t.Helper()
	f, err := env.figurines.FindByID(context.Background(), uuid.MustParse(id))
	if err != nil {
		t.Fatalf("find figurine: %v", err)
	}
	return f.Stock
}

func TestSaleAndInstallmentsSettleDebt(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Virgen del Cisne", "100", 1)

	sale := env.createSale(t, fig.ID, "0102030405")
	if !sale.TotalDebt.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected debt 100, got %s", sale.TotalDebt)
	}
	if sale.Status != model.SaleStatusPending || !sale.AmountPaid.IsZero() {
		t.Fatalf("unexpected initial state %s/%s", sale.Status, sale.AmountPaid)
	}
	if sale.PaymentModality != model.ModalityInPerson {
		t.Fatalf("expected default modality, got %s", sale.PaymentModality)
	}
	if got := figurineStock(t, env, fig.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	first := env.pay(t, sale.ID, "45")
	if first.Sale.Status != model.SaleStatusPending {
		t.Fatalf("expected PENDING after 45, got %s", first.Sale.Status)
	}
	if !first.Sale.Balance.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected balance 55, got %s", first.Sale.Balance)
	}

	second := env.pay(t, sale.ID, "55")
	if second.Sale.Status != model.SaleStatusPaid {
		t.Fatalf("expected PAID after 55, got %s", second.Sale.Status)
	}
	if !second.Sale.AmountPaid.Equal(decimal.NewFromInt(100)) || !second.Sale.Balance.IsZero() {
		t.Fatalf("expected fully paid, got paid=%s balance=%s", second.Sale.AmountPaid, second.Sale.Balance)
	}

	got, err := env.sale.GetSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if len(got.Payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(got.Payments))
	}

	movements, err := env.movements.ListByFigurine(context.Background(), uuid.MustParse(fig.ID))
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected IN and OUT movements, got %d", len(movements))
	}

	names := env.events.names()
	want := []string{ws.EventFigurineCreated, ws.EventSaleCreated, ws.EventPaymentRecorded, ws.EventPaymentRecorded}
	if len(names) != len(want) {
		t.Fatalf("expected events %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, names)
		}
	}
}

func TestCreateSaleOutOfStockLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "San Judas", "80", 0)

	_, err := env.sale.CreateSale(context.Background(), "", fig.ID, CreateSaleRequest{
		CustomerName: "Ana",
		DueDate:      "2024-06-30",
	})
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected out of stock to be a conflict, got %v", err)
	}
	if n := countRows(t, env, &model.Sale{}); n != 0 {
		t.Fatalf("expected no sales, got %d", n)
	}
	if n := countRows(t, env, &model.StockMovement{}); n != 0 {
		t.Fatalf("expected no movements, got %d", n)
	}
	if got := figurineStock(t, env, fig.ID); got != 0 {
		t.Fatalf("expected stock to stay 0, got %d", got)
	}
}

func TestCreateSaleConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Divino Niño", "120", 1)

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		outOfStk  int
		other     []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.sale.CreateSale(context.Background(), "", fig.ID, CreateSaleRequest{
				CustomerName: "Comprador",
				DueDate:      "2024-06-30",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrOutOfStock):
				outOfStk++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	if len(other) > 0 {
		t.Fatalf("unexpected errors: %v", other)
	}
	if succeeded != 1 || outOfStk != buyers-1 {
		t.Fatalf("expected 1 success and %d out of stock, got %d/%d", buyers-1, succeeded, outOfStk)
	}
	if got := figurineStock(t, env, fig.ID); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
	if n := countRows(t, env, &model.Sale{}); n != 1 {
		t.Fatalf("expected exactly one sale, got %d", n)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "San Miguel", "90", 5)

	cases := []struct {
		name string
		req  CreateSaleRequest
	}{
		{"missing name", CreateSaleRequest{CustomerName: "  ", DueDate: "2024-06-30"}},
		{"bad due date", CreateSaleRequest{CustomerName: "Luis", DueDate: "30/06/2024"}},
		{"bad phone", CreateSaleRequest{CustomerName: "Luis", DueDate: "2024-06-30", Phone: "123"}},
		{"bad modality", CreateSaleRequest{CustomerName: "Luis", DueDate: "2024-06-30", PaymentModality: "CHEQUE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.sale.CreateSale(context.Background(), "", fig.ID, tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if got := figurineStock(t, env, fig.ID); got != 5 {
		t.Fatalf("expected stock untouched at 5, got %d", got)
	}
}

func TestCreateSaleNormalizesPhoneAndContract(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Sagrado Corazón", "150.50", 3)

	sale, err := env.sale.CreateSale(context.Background(), "", fig.ID, CreateSaleRequest{
		CustomerName:    "María",
		IDNumber:        "0911111111",
		Phone:           "0991234567",
		ContractNumber:  " C-001 ",
		PaymentModality: "transfer",
		DueDate:         "2024-07-15",
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.Phone != "+593991234567" {
		t.Fatalf("expected E.164 phone, got %q", sale.Phone)
	}
	if sale.ContractNumber == nil || *sale.ContractNumber != "C-001" {
		t.Fatalf("expected trimmed contract number, got %v", sale.ContractNumber)
	}
	if sale.PaymentModality != model.ModalityTransfer {
		t.Fatalf("expected TRANSFER, got %s", sale.PaymentModality)
	}
	if sale.DueDate != "2024-07-15" {
		t.Fatalf("expected due date 2024-07-15, got %s", sale.DueDate)
	}
	if sale.FigurineName != "Sagrado Corazón" {
		t.Fatalf("expected figurine name, got %q", sale.FigurineName)
	}

	_, err = env.sale.CreateSale(context.Background(), "", fig.ID, CreateSaleRequest{
		CustomerName:   "Pedro",
		ContractNumber: "C-001",
		DueDate:        "2024-07-15",
	})
	if !errors.Is(err, ErrDuplicateContract) {
		t.Fatalf("expected duplicate contract, got %v", err)
	}
	if got := figurineStock(t, env, fig.ID); got != 2 {
		t.Fatalf("expected failed sale to roll back the stock, got %d", got)
	}

	// Sales without a contract number do not collide with each other.
	env.createSale(t, fig.ID, "")
	env.createSale(t, fig.ID, "")
}

func TestCreateSaleUnknownFigurine(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sale.CreateSale(context.Background(), "", uuid.NewString(), CreateSaleRequest{
		CustomerName: "Ana",
		DueDate:      "2024-06-30",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = env.sale.CreateSale(context.Background(), "", "not-a-uuid", CreateSaleRequest{
		CustomerName: "Ana",
		DueDate:      "2024-06-30",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestListSalesFiltersByStatus(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "San José", "50", 3)

	a := env.createSale(t, fig.ID, "1")
	env.createSale(t, fig.ID, "2")
	env.pay(t, a.ID, "50")

	paid, total, err := env.sale.ListSales(context.Background(), 1, 20, "paid")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(paid) != 1 || paid[0].ID != a.ID {
		t.Fatalf("expected only the paid sale, got %d rows", total)
	}

	all, total, err := env.sale.ListSales(context.Background(), 1, 20, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("expected 2 sales, got %d", total)
	}

	if _, _, err := env.sale.ListSales(context.Background(), 1, 20, "LOST"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestRecordPaymentRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "San Antonio", "60", 1)
	sale := env.createSale(t, fig.ID, "9")

	for _, amount := range []string{"0", "-5", "abc", "0.004", "100000000"} {
		_, err := env.payment.RecordPayment(context.Background(), "", sale.ID, RecordPaymentRequest{Amount: amount})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("amount %q: expected validation error, got %v", amount, err)
		}
	}
	if n := countRows(t, env, &model.Payment{}); n != 0 {
		t.Fatalf("expected no payments, got %d", n)
	}

	_, err := env.payment.RecordPayment(context.Background(), "", uuid.NewString(), RecordPaymentRequest{Amount: "10"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecordPaymentRejectsTotalOverLimit(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Virgen de la Nube", "99999999", 1)
	sale := env.createSale(t, fig.ID, "11")

	env.pay(t, sale.ID, "99999999")
	_, err := env.payment.RecordPayment(context.Background(), "", sale.ID, RecordPaymentRequest{Amount: "1"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := countRows(t, env, &model.Payment{}); n != 1 {
		t.Fatalf("expected 1 payment, got %d", n)
	}
}

func TestRecordPaymentOverpayment(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Santa Marianita", "100", 1)
	sale := env.createSale(t, fig.ID, "7")

	res := env.pay(t, sale.ID, "120")
	if res.Sale.Status != model.SaleStatusPaid {
		t.Fatalf("expected PAID, got %s", res.Sale.Status)
	}
	if !res.Sale.Balance.Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("expected balance -20, got %s", res.Sale.Balance)
	}
}
