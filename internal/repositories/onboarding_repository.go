package repositories

import (
	"context"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

type OnboardingStepRepository struct {
	db *gorm.DB
}

func NewOnboardingStepRepository(db *gorm.DB) *OnboardingStepRepository {
	return &OnboardingStepRepository{db: db}
}

func (r *OnboardingStepRepository) Create(ctx context.Context, step *models.OnboardingStep) error {
	return r.db.WithContext(ctx).Create(step).Error
}

func (r *OnboardingStepRepository) GetByID(ctx context.Context, id string) (*models.OnboardingStep, error) {
	var step models.OnboardingStep
	if err := r.db.WithContext(ctx).First(&step, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *OnboardingStepRepository) Update(ctx context.Context, step *models.OnboardingStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *OnboardingStepRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.OnboardingStep{}, "id = ?", id).Error
}

// GetAll returns the raw template sequence. Ordering into the canonical
// sequence order happens in the onboarding service.
func (r *OnboardingStepRepository) GetAll(ctx context.Context) ([]models.OnboardingStep, error) {
	var out []models.OnboardingStep
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
