package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sacra/internal/cache"
	"sacra/internal/model"
	"sacra/internal/repository"
	ws "sacra/internal/websocket"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateFigurineRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=100"`
	Size        string `json:"size" form:"size" binding:"max=50"`
	Material    string `json:"material" form:"material" binding:"omitempty,material"`
	Price       string `json:"price" form:"price" binding:"required,decimal"`
	Stock       int    `json:"stock" form:"stock" binding:"min=0"`
	Description string `json:"description" form:"description" binding:"max=500"`
	ImageRef    string `json:"image_ref" form:"image_ref" binding:"max=255"`
}

type DeleteFigurineResult struct {
	ID              string `json:"id"`
	SalesRemoved    int64  `json:"sales_removed"`
	PaymentsRemoved int64  `json:"payments_removed"`
}

type CatalogService interface {
	ListFigurines(ctx context.Context, page, limit int, search string) ([]FigurineResponse, int64, error)
	CreateFigurine(ctx context.Context, userID string, req CreateFigurineRequest) (FigurineResponse, error)
	// DeleteFigurine removes the figurine together with its sales, their
	// payments and its stock movements.
	DeleteFigurine(ctx context.Context, userID, id string) (DeleteFigurineResult, error)
}

type catalogService struct {
	figurineRepo repository.FigurineRepository
	saleRepo     repository.SaleRepository
	paymentRepo  repository.PaymentRepository
	movementRepo repository.StockMovementRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	cache        cache.Store
	events       EventPublisher
	log          logrus.FieldLogger
}

func NewCatalogService(
	figurineRepo repository.FigurineRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	movementRepo repository.StockMovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	store cache.Store,
	events EventPublisher,
	log logrus.FieldLogger,
) CatalogService {
	if store == nil {
		store = cache.NewNoopStore()
	}
	return &catalogService{
		figurineRepo: figurineRepo,
		saleRepo:     saleRepo,
		paymentRepo:  paymentRepo,
		movementRepo: movementRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		cache:        store,
		events:       events,
		log:          log.WithField("module", "catalog"),
	}
}

func (s *catalogService) ListFigurines(ctx context.Context, page, limit int, search string) ([]FigurineResponse, int64, error) {
	figurines, total, err := s.figurineRepo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list figurines: %w", err)
	}

	res := make([]FigurineResponse, 0, len(figurines))
	for _, f := range figurines {
		res = append(res, toFigurineResponse(f))
	}
	return res, total, nil
}

func (s *catalogService) CreateFigurine(ctx context.Context, userID string, req CreateFigurineRequest) (FigurineResponse, error) {
	figurine, err := newFigurine(req)
	if err != nil {
		return FigurineResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.figurineRepo.Create(txCtx, figurine); err != nil {
			return fmt.Errorf("failed to create figurine: %w", err)
		}

		if figurine.Stock > 0 {
			movement := &model.StockMovement{
				FigurineID:      figurine.ID,
				MovementType:    model.MovementIn,
				QuantityChanged: figurine.Stock,
				StockAfter:      figurine.Stock,
			}
			if err := s.movementRepo.Create(txCtx, movement); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionCreateFigurine, figurine.ID.String(), figurine.Name, req)
	})
	if err != nil {
		return FigurineResponse{}, err
	}

	res := toFigurineResponse(*figurine)
	publish(s.events, ws.EventFigurineCreated, res)
	return res, nil
}

func newFigurine(req CreateFigurineRequest) (*model.Figurine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	if len(name) > 100 {
		return nil, invalidf("name must be at most 100 characters")
	}

	price, err := parseMoney("price", req.Price)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, invalidf("price must not be negative")
	}
	if req.Stock < 0 {
		return nil, invalidf("stock must not be negative")
	}

	material := strings.ToUpper(strings.TrimSpace(req.Material))
	if material == "" {
		material = model.MaterialResin
	}
	if !model.IsMaterial(material) {
		return nil, invalidf("material must be %s or %s", model.MaterialResin, model.MaterialGlassFiber)
	}

	size := strings.TrimSpace(req.Size)
	if size == "" {
		size = model.DefaultFigurineSize
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = model.DefaultFigurineDescription
	}

	return &model.Figurine{
		Name:        name,
		Size:        size,
		Material:    material,
		Price:       price,
		Stock:       req.Stock,
		Description: description,
		ImageRef:    strings.TrimSpace(req.ImageRef),
	}, nil
}

func (s *catalogService) DeleteFigurine(ctx context.Context, userID, id string) (DeleteFigurineResult, error) {
	figurineID, err := parseID(id, "figurine")
	if err != nil {
		return DeleteFigurineResult{}, err
	}

	result := DeleteFigurineResult{ID: figurineID.String()}
	var movements int64
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		figurine, err := s.figurineRepo.FindByIDForUpdate(txCtx, figurineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("figurine %s", figurineID)
			}
			return fmt.Errorf("database error: %w", err)
		}

		saleIDs, err := s.saleRepo.IDsByFigurine(txCtx, figurineID)
		if err != nil {
			return fmt.Errorf("failed to load sales: %w", err)
		}
		if result.PaymentsRemoved, err = s.paymentRepo.DeleteBySales(txCtx, saleIDs); err != nil {
			return fmt.Errorf("failed to delete payments: %w", err)
		}
		if movements, err = s.movementRepo.DeleteByFigurine(txCtx, figurineID); err != nil {
			return fmt.Errorf("failed to delete stock movements: %w", err)
		}
		if result.SalesRemoved, err = s.saleRepo.DeleteByFigurine(txCtx, figurineID); err != nil {
			return fmt.Errorf("failed to delete sales: %w", err)
		}
		if err := s.figurineRepo.Delete(txCtx, figurineID); err != nil {
			return fmt.Errorf("failed to delete figurine: %w", err)
		}

		return writeAudit(txCtx, s.auditRepo, userID, model.ActionDeleteFigurine, figurine.ID.String(), figurine.Name, map[string]int64{
			"sales_removed":     result.SalesRemoved,
			"payments_removed":  result.PaymentsRemoved,
			"movements_removed": movements,
		})
	})
	if err != nil {
		return DeleteFigurineResult{}, err
	}

	if result.SalesRemoved > 0 {
		s.log.WithFields(logrus.Fields{
			"figurine_id":      result.ID,
			"sales_removed":    result.SalesRemoved,
			"payments_removed": result.PaymentsRemoved,
			"user_id":          userID,
		}).Warn("figurine deleted together with its sales")
	}

	invalidateDashboard(ctx, s.cache, s.log)
	publish(s.events, ws.EventFigurineDeleted, result)
	return result, nil
}

func publish(events EventPublisher, event string, data interface{}) {
	if events != nil {
		events.Publish(event, data)
	}
}

func invalidateDashboard(ctx context.Context, store cache.Store, log logrus.FieldLogger) {
	if err := store.Delete(ctx, cache.DashboardKey); err != nil {
		log.WithError(err).Warn("failed to invalidate dashboard cache")
	}
}
