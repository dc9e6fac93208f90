package repository

import (
	"context"

	"sacra/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDWithPayments(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByIDNumber(ctx context.Context, idNumber string) ([]model.Sale, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, status string) error
	List(ctx context.Context, page, limit int, status string) ([]model.Sale, int64, error)
	ListAll(ctx context.Context) ([]model.Sale, error)
	Recent(ctx context.Context, limit int) ([]model.Sale, error)
	IDsByFigurine(ctx context.Context, figurineID uuid.UUID) ([]uuid.UUID, error)
	DeleteByFigurine(ctx context.Context, figurineID uuid.UUID) (int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Preload("Figurine").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDWithPayments(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).
		Preload("Figurine").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at desc")
		}).
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&sale).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) FindByIDNumber(ctx context.Context, idNumber string) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).
		Preload("Figurine").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("paid_at desc")
		}).
		Where("id_number = ?", idNumber).
		Order("sold_at asc").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) UpdateBalance(ctx context.Context, id uuid.UUID, amountPaid decimal.Decimal, status string) error {
	return GetDB(ctx, r.db).Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"amount_paid": amountPaid,
			"status":      status,
		}).Error
}

func (r *saleRepository) List(ctx context.Context, page, limit int, status string) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Sale{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Figurine").Order("sold_at desc").Offset(offset).Limit(limit).Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

func (r *saleRepository) ListAll(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Figurine").Order("sold_at desc").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) Recent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	if err := GetDB(ctx, r.db).Preload("Figurine").Order("sold_at desc").Limit(limit).Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) IDsByFigurine(ctx context.Context, figurineID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).
		Where("figurine_id = ?", figurineID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *saleRepository) DeleteByFigurine(ctx context.Context, figurineID uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("figurine_id = ?", figurineID).Delete(&model.Sale{})
	return res.RowsAffected, res.Error
}
