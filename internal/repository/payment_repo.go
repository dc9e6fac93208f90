package repository

import (
	"context"
	"time"

	"sacra/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	AmountsBySale(ctx context.Context, saleID uuid.UUID) ([]decimal.Decimal, error)
	CountBySales(ctx context.Context, saleIDs []uuid.UUID) (int64, error)
	DeleteBySales(ctx context.Context, saleIDs []uuid.UUID) (int64, error)
	// InWindow returns payments with from <= paid_at < to.
	InWindow(ctx context.Context, from, to time.Time) ([]model.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) AmountsBySale(ctx context.Context, saleID uuid.UUID) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Where("sale_id = ?", saleID).
		Order("paid_at asc").
		Pluck("amount", &amounts).Error; err != nil {
		return nil, err
	}
	return amounts, nil
}

func (r *paymentRepository) CountBySales(ctx context.Context, saleIDs []uuid.UUID) (int64, error) {
	if len(saleIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Payment{}).Where("sale_id IN ?", saleIDs).Count(&count).Error
	return count, err
}

func (r *paymentRepository) DeleteBySales(ctx context.Context, saleIDs []uuid.UUID) (int64, error) {
	if len(saleIDs) == 0 {
		return 0, nil
	}
	res := GetDB(ctx, r.db).Where("sale_id IN ?", saleIDs).Delete(&model.Payment{})
	return res.RowsAffected, res.Error
}

func (r *paymentRepository) InWindow(ctx context.Context, from, to time.Time) ([]model.Payment, error) {
	var payments []model.Payment
	if err := GetDB(ctx, r.db).
		Where("paid_at >= ? AND paid_at < ?", from.UTC(), to.UTC()).
		Order("paid_at asc").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
