package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type BroadcastRepository struct {
	db *gorm.DB
}

func NewBroadcastRepository(db *gorm.DB) *BroadcastRepository {
	return &BroadcastRepository{db: db}
}

func (r *BroadcastRepository) Create(ctx context.Context, b *models.Broadcast) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BroadcastRepository) GetByID(ctx context.Context, id string) (*models.Broadcast, error) {
	var b models.Broadcast
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BroadcastRepository) Update(ctx context.Context, b *models.Broadcast) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BroadcastRepository) History(ctx context.Context, businessID string) ([]models.Broadcast, error) {
	var out []models.Broadcast
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetPendingScheduled returns scheduled broadcasts that have not fired yet,
// used to re-arm timers after a restart.
func (r *BroadcastRepository) GetPendingScheduled(ctx context.Context) ([]models.Broadcast, error) {
	var out []models.Broadcast
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BroadcastStatusScheduled).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
