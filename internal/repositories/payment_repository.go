package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByBusiness(ctx context.Context, businessID string) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("paid_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
