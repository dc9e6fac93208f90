package repository

import (
	"context"
	"strings"

	"sacra/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FigurineRepository interface {
	Create(ctx context.Context, figurine *model.Figurine) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Figurine, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Figurine, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Figurine, int64, error)
	// DecrementStock takes one unit only while stock is positive.
	// It reports false when no unit was left.
	DecrementStock(ctx context.Context, id uuid.UUID) (bool, error)
}

type figurineRepository struct {
	db *gorm.DB
}

func NewFigurineRepository(db *gorm.DB) FigurineRepository {
	return &figurineRepository{db: db}
}

func (r *figurineRepository) Create(ctx context.Context, figurine *model.Figurine) error {
	return GetDB(ctx, r.db).Create(figurine).Error
}

func (r *figurineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Figurine{}).Error
}

func (r *figurineRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Figurine, error) {
	var figurine model.Figurine
	if err := GetDB(ctx, r.db).First(&figurine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &figurine, nil
}

func (r *figurineRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Figurine, error) {
	var figurine model.Figurine
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&figurine).Error; err != nil {
		return nil, err
	}
	return &figurine, nil
}

func (r *figurineRepository) List(ctx context.Context, page, limit int, search string) ([]model.Figurine, int64, error) {
	var figurines []model.Figurine
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Figurine{})
	if search = strings.TrimSpace(search); search != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&figurines).Error; err != nil {
		return nil, 0, err
	}

	return figurines, total, nil
}

func (r *figurineRepository) DecrementStock(ctx context.Context, id uuid.UUID) (bool, error) {
	res := GetDB(ctx, r.db).Model(&model.Figurine{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
