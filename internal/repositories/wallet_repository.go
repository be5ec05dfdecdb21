package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) Create(ctx context.Context, item *models.ClientWalletItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *WalletRepository) GetByID(ctx context.Context, id string) (*models.ClientWalletItem, error) {
	var item models.ClientWalletItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WalletRepository) Update(ctx context.Context, item *models.ClientWalletItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// FindActive returns the client's ACTIVE instance for the campaign, or
// gorm.ErrRecordNotFound. At most one can exist at a time.
func (r *WalletRepository) FindActive(ctx context.Context, clientID, campaignID string) (*models.ClientWalletItem, error) {
	var item models.ClientWalletItem
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND campaign_id = ? AND status = ?",
			clientID, campaignID, models.WalletStatusActive).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *WalletRepository) GetByClient(ctx context.Context, clientID string) ([]models.ClientWalletItem, error) {
	var out []models.ClientWalletItem
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WalletRepository) GetByCampaign(ctx context.Context, campaignID string) ([]models.ClientWalletItem, error) {
	var out []models.ClientWalletItem
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
