package repository

import (
	"context"

	"sacra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, movement *model.StockMovement) error
	ListByFigurine(ctx context.Context, figurineID uuid.UUID) ([]model.StockMovement, error)
	DeleteByFigurine(ctx context.Context, figurineID uuid.UUID) (int64, error)
}

type stockMovementRepository struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepository{db: db}
}

func (r *stockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	return GetDB(ctx, r.db).Create(movement).Error
}

func (r *stockMovementRepository) ListByFigurine(ctx context.Context, figurineID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	if err := GetDB(ctx, r.db).Where("figurine_id = ?", figurineID).
		Order("created_at asc").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *stockMovementRepository) DeleteByFigurine(ctx context.Context, figurineID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("figurine_id = ?", figurineID).Delete(&model.StockMovement{})
	return res.RowsAffected, res.Error
}
