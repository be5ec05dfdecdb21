package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) FindByPhone(ctx context.Context, businessID, phone string) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND phone = ?", businessID, phone).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) GetByBusiness(ctx context.Context, businessID string) ([]models.Client, error) {
	var out []models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("last_visit_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDs resolves hand-picked recipients. Scoped to the owning business so
// a foreign tenant's ids silently drop out of the result.
func (r *ClientRepository) GetByIDs(ctx context.Context, businessID string, ids []string) ([]models.Client, error) {
	var out []models.Client
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND id IN ?", businessID, ids).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordVisit bumps the visit counter and last-visit timestamp.
func (r *ClientRepository) RecordVisit(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"visits":        gorm.Expr("visits + 1"),
			"last_visit_at": gorm.Expr("now()"),
		}).Error
}
