package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sacra/internal/cache"
	"sacra/internal/lock"
	"sacra/internal/model"
	"sacra/internal/repository"
	ws "sacra/internal/websocket"
	"sacra/pkg/phone"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateSaleRequest struct {
	CustomerName    string `json:"customer_name" form:"customer_name" binding:"required,max=150"`
	IDNumber        string `json:"id_number" form:"id_number" binding:"max=20"`
	Phone           string `json:"phone" form:"phone" binding:"max=30"`
	Address         string `json:"address" form:"address" binding:"max=255"`
	Reference       string `json:"reference" form:"reference" binding:"max=255"`
	ContractNumber  string `json:"contract_number" form:"contract_number" binding:"max=50"`
	PaymentModality string `json:"payment_modality" form:"payment_modality" binding:"omitempty,modality"`
	ContractFileRef string `json:"contract_file_ref" form:"contract_file_ref" binding:"max=255"`
	DueDate         string `json:"due_date" form:"due_date" binding:"required"` // YYYY-MM-DD
}

type SaleService interface {
	CreateSale(ctx context.Context, userID, figurineID string, req CreateSaleRequest) (SaleResponse, error)
	ListSales(ctx context.Context, page, limit int, status string) ([]SaleResponse, int64, error)
	GetSale(ctx context.Context, id string) (SaleResponse, error)
}

type saleService struct {
	figurineRepo repository.FigurineRepository
	saleRepo     repository.SaleRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	locker       lock.Locker
	cache        cache.Store
	events       EventPublisher
	log          logrus.FieldLogger
	phoneRegion  string
	now          func() time.Time
}

func NewSaleService(
	figurineRepo repository.FigurineRepository,
	saleRepo repository.SaleRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	locker lock.Locker,
	store cache.Store,
	events EventPublisher,
	log logrus.FieldLogger,
	phoneRegion string,
) SaleService {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if store == nil {
		store = cache.NewNoopStore()
	}
	return &saleService{
		figurineRepo: figurineRepo,
		saleRepo:     saleRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		locker:       locker,
		cache:        store,
		events:       events,
		log:          log.WithField("module", "sale"),
		phoneRegion:  phoneRegion,
		now:          time.Now,
	}
}

func (s *saleService) CreateSale(ctx context.Context, userID, figurineID string, req CreateSaleRequest) (SaleResponse, error) {
	fid, err := parseID(figurineID, "figurine")
	if err != nil {
		return SaleResponse{}, err
	}

	sale, err := s.newSale(userID, fid, req)
	if err != nil {
		return SaleResponse{}, err
	}

	release, err := s.locker.Acquire(ctx, lock.FigurineKey(fid.String()))
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return SaleResponse{}, ErrFigurineBusy
		}
		return SaleResponse{}, fmt.Errorf("failed to lock figurine: %w", err)
	}
	defer release()

	var figurine *model.Figurine
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		figurine, err = s.figurineRepo.FindByIDForUpdate(txCtx, fid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("figurine %s", fid)
			}
			return fmt.Errorf("database error: %w", err)
		}
		if figurine.Stock <= 0 {
			return ErrOutOfStock
		}

		taken, err := s.figurineRepo.DecrementStock(txCtx, fid)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if !taken {
			return ErrOutOfStock
		}

		sale.TotalDebt = figurine.Price
		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateContract
			}
			return fmt.Errorf("failed to create sale: %w", err)
		}

		movement := &model.StockMovement{
			FigurineID:      fid,
			SaleID:          &sale.ID,
			MovementType:    model.MovementOut,
			QuantityChanged: -1,
			StockAfter:      figurine.Stock - 1,
		}
		if err := s.movementRepo.Create(txCtx, movement); err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateSale, sale.ID.String(), sale.CustomerName, map[string]interface{}{
			"figurine_id":     fid.String(),
			"figurine_name":   figurine.Name,
			"contract_number": sale.ContractNumber,
			"total_debt":      sale.TotalDebt,
			"due_date":        sale.DueDate.Format(dateLayout),
		})
	})
	if err != nil {
		return SaleResponse{}, err
	}

	sale.Figurine = figurine
	res := toSaleResponse(*sale)
	s.log.WithFields(logrus.Fields{
		"sale_id":     res.ID,
		"figurine_id": res.FigurineID,
		"total_debt":  res.TotalDebt.String(),
	}).Info("sale created")

	invalidateDashboard(ctx, s.cache, s.log)
	publish(s.events, ws.EventSaleCreated, res)
	return res, nil
}

// newSale validates the request and builds the sale row, minus the debt
// which is only known once the figurine is locked.
func (s *saleService) newSale(userID string, figurineID uuid.UUID, req CreateSaleRequest) (*model.Sale, error) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, invalidf("customer name is required")
	}

	due, err := time.Parse(dateLayout, strings.TrimSpace(req.DueDate))
	if err != nil {
		return nil, invalidf("due date %q must be YYYY-MM-DD", req.DueDate)
	}

	modality := strings.ToUpper(strings.TrimSpace(req.PaymentModality))
	if modality == "" {
		modality = model.ModalityInPerson
	}
	if !model.IsModality(modality) {
		return nil, invalidf("payment modality %q is not supported", req.PaymentModality)
	}

	normalized, err := phone.Normalize(req.Phone, s.phoneRegion)
	if err != nil {
		return nil, invalidf("phone %q is not a valid number", req.Phone)
	}

	var contract *string
	if c := strings.TrimSpace(req.ContractNumber); c != "" {
		contract = &c
	}

	return &model.Sale{
		CustomerName:    name,
		IDNumber:        strings.TrimSpace(req.IDNumber),
		Phone:           normalized,
		Address:         strings.TrimSpace(req.Address),
		Reference:       strings.TrimSpace(req.Reference),
		FigurineID:      figurineID,
		ContractNumber:  contract,
		PaymentModality: modality,
		ContractFileRef: strings.TrimSpace(req.ContractFileRef),
		SoldAt:          s.now().UTC(),
		DueDate:         due,
		Status:          model.SaleStatusPending,
		AgentID:         actorID(userID),
	}, nil
}

func (s *saleService) ListSales(ctx context.Context, page, limit int, status string) ([]SaleResponse, int64, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", model.SaleStatusPaid, model.SaleStatusPending, model.SaleStatusCancelledThisMonth:
	default:
		return nil, 0, invalidf("unknown status %q", status)
	}

	sales, total, err := s.saleRepo.List(ctx, page, limit, status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}

	res := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		res = append(res, toSaleResponse(sale))
	}
	return res, total, nil
}

func (s *saleService) GetSale(ctx context.Context, id string) (SaleResponse, error) {
	saleID, err := parseID(id, "sale")
	if err != nil {
		return SaleResponse{}, err
	}

	sale, err := s.saleRepo.FindByIDWithPayments(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SaleResponse{}, notFoundf("sale %s", saleID)
		}
		return SaleResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toSaleResponse(*sale), nil
}
