package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sacra/internal/cache"
	"sacra/internal/model"
	"sacra/internal/repository"
	ws "sacra/internal/websocket"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RecordPaymentRequest struct {
	Amount   string `json:"amount" form:"amount" binding:"required,decimal"`
	ProofRef string `json:"proof_ref" form:"proof_ref" binding:"max=255"`
	Notes    string `json:"notes" form:"notes" binding:"max=255"`
}

type PaymentResult struct {
	Payment PaymentResponse `json:"payment"`
	Sale    SaleResponse    `json:"sale"`
}

type PaymentService interface {
	// RecordPayment stores an abono and recomputes the sale's paid amount
	// and status in the same transaction.
	RecordPayment(ctx context.Context, userID, saleID string, req RecordPaymentRequest) (PaymentResult, error)
}

type paymentService struct {
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	cache       cache.Store
	events      EventPublisher
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewPaymentService(
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	store cache.Store,
	events EventPublisher,
	log logrus.FieldLogger,
) PaymentService {
	if store == nil {
		store = cache.NewNoopStore()
	}
	return &paymentService{
		saleRepo:    saleRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		cache:       store,
		events:      events,
		log:         log.WithField("module", "payment"),
		now:         time.Now,
	}
}

func (s *paymentService) RecordPayment(ctx context.Context, userID, saleID string, req RecordPaymentRequest) (PaymentResult, error) {
	sid, err := parseID(saleID, "sale")
	if err != nil {
		return PaymentResult{}, err
	}

	amount, err := parseMoney("amount", req.Amount)
	if err != nil {
		return PaymentResult{}, err
	}
	if !amount.IsPositive() {
		return PaymentResult{}, invalidf("amount must be greater than 0")
	}

	payment := &model.Payment{
		SaleID:   sid,
		Amount:   amount,
		PaidAt:   s.now().UTC(),
		ProofRef: strings.TrimSpace(req.ProofRef),
		Notes:    strings.TrimSpace(req.Notes),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByIDForUpdate(txCtx, sid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("sale %s", sid)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if sale.AmountPaid.Add(amount).GreaterThanOrEqual(maxMoney) {
			return invalidf("total paid on sale %s would reach %s", sid, maxMoney)
		}

		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		amounts, err := s.paymentRepo.AmountsBySale(txCtx, sid)
		if err != nil {
			return fmt.Errorf("failed to load payments: %w", err)
		}
		paid, status := RecalculateBalance(sale.TotalDebt, amounts)
		if err := s.saleRepo.UpdateBalance(txCtx, sid, paid, status); err != nil {
			return fmt.Errorf("failed to update sale balance: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionRecordPayment, payment.ID.String(), sale.CustomerName, map[string]interface{}{
			"sale_id":     sid.String(),
			"amount":      payment.Amount,
			"amount_paid": paid,
			"status":      status,
		})
	})
	if err != nil {
		return PaymentResult{}, err
	}

	sale, err := s.saleRepo.FindByID(ctx, sid)
	if err != nil {
		return PaymentResult{}, fmt.Errorf("failed to reload sale: %w", err)
	}
	res := PaymentResult{
		Payment: toPaymentResponse(*payment),
		Sale:    toSaleResponse(*sale),
	}
	if res.Sale.Balance.IsNegative() {
		s.log.WithFields(logrus.Fields{
			"sale_id": res.Sale.ID,
			"balance": res.Sale.Balance.String(),
		}).Warn("sale overpaid")
	}

	invalidateDashboard(ctx, s.cache, s.log)
	publish(s.events, ws.EventPaymentRecorded, res)
	return res, nil
}
