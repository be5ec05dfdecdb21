package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) Create(ctx context.Context, b *models.Business) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*models.Business, error) {
	var b models.Business
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BusinessRepository) Update(ctx context.Context, b *models.Business) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// GetAll returns businesses, optionally filtered by status.
func (r *BusinessRepository) GetAll(ctx context.Context, status *models.BusinessStatus) ([]models.Business, error) {
	q := r.db.WithContext(ctx).Order("joined_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var out []models.Business
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpiring returns businesses still running (trial or active) whose
// governing end date is already known, for the expiry sweep.
func (r *BusinessRepository) GetExpiring(ctx context.Context) ([]models.Business, error) {
	var out []models.Business
	err := r.db.WithContext(ctx).
		Where("status IN ?", []models.BusinessStatus{models.BusinessStatusTrial, models.BusinessStatusActive}).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CountByStatus powers the admin dashboard funnel metrics.
func (r *BusinessRepository) CountByStatus(ctx context.Context) (map[models.BusinessStatus]int64, error) {
	type row struct {
		Status models.BusinessStatus
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Business{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.BusinessStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}
