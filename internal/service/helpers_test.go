package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"sacra/internal/database/dbtest"
	"sacra/internal/lock"
	"sacra/internal/logger"
	"sacra/internal/repository"
	"sacra/pkg/token"

	"gorm.io/gorm"
)

type recordedEvent struct {
	name string
	data interface{}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Publish(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event, data})
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.name)
	}
	return out
}

var guayaquil = time.FixedZone("ECT", -5*60*60)

type testEnv struct {
	db        *gorm.DB
	figurines repository.FigurineRepository
	sales     repository.SaleRepository
	payments  repository.PaymentRepository
	movements repository.StockMovementRepository
	audit     repository.AuditRepository
	roles     repository.RoleRepository
	users     repository.UserRepository
	tx        repository.TransactionManager
	events    *eventRecorder

	catalog   CatalogService
	sale      SaleService
	payment   PaymentService
	dashboard DashboardService
	portal    PortalService
	user      UserService
	role      RoleService
	export    ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	logg := logger.Discard()

	env := &testEnv{
		db:        db,
		figurines: repository.NewFigurineRepository(db),
		sales:     repository.NewSaleRepository(db),
		payments:  repository.NewPaymentRepository(db),
		movements: repository.NewStockMovementRepository(db),
		audit:     repository.NewAuditRepository(db),
		roles:     repository.NewRoleRepository(db),
		users:     repository.NewUserRepository(db),
		tx:        repository.NewTransactionManager(db),
		events:    &eventRecorder{},
	}

	env.catalog = NewCatalogService(env.figurines, env.sales, env.payments, env.movements, env.audit, env.tx, nil, env.events, logg)
	env.sale = NewSaleService(env.figurines, env.sales, env.movements, env.audit, env.tx, lock.NewLocalLocker(), nil, env.events, logg, "EC")
	env.payment = NewPaymentService(env.sales, env.payments, env.audit, env.tx, nil, env.events, logg)
	env.dashboard = NewDashboardService(repository.NewDashboardRepository(db), env.sales, env.payments, nil, 0, guayaquil, logg)
	env.portal = NewPortalService(env.sales)
	env.role = NewRoleService(env.roles, env.tx)
	env.user = NewUserService(env.users, env.sales, env.roles, env.audit, env.tx, token.NewManager("test-secret", time.Hour), logg)
	env.export = NewExportService(env.sales)
	return env
}

func (e *testEnv) createFigurine(t *testing.T, name, price string, stock int) FigurineResponse {
	t.Helper()
	f, err := e.catalog.CreateFigurine(context.Background(), "", CreateFigurineRequest{
		Name:  name,
		Price: price,
		Stock: stock,
	})
	if err != nil {
		t.Fatalf("create figurine: %v", err)
	}
	return f
}

func (e *testEnv) createSale(t *testing.T, figurineID, idNumber string) SaleResponse {
	t.Helper()
	s, err := e.sale.CreateSale(context.Background(), "", figurineID, CreateSaleRequest{
		CustomerName: "Cliente " + idNumber,
		IDNumber:     idNumber,
		DueDate:      "2024-06-30",
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return s
}

func (e *testEnv) pay(t *testing.T, saleID, amount string) PaymentResult {
	t.Helper()
	res, err := e.payment.RecordPayment(context.Background(), "", saleID, RecordPaymentRequest{Amount: amount})
	if err != nil {
		t.Fatalf("record payment %s: %v", amount, err)
	}
	return res
}
