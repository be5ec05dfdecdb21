package app

import (
	"fmt"
	"os"

	"cuponera_backend/internal/auth"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

// seedSuperadmin creates the first operator account from the environment.
// Skipped when the variables are missing or the account already exists.
func seedSuperadmin(db *gorm.DB) error {
	phone := os.Getenv("FIRST_ADMIN_PHONE")
	password := os.Getenv("FIRST_ADMIN_PASSWORD")
	if phone == "" || password == "" {
		logger.Warn("FIRST_ADMIN_PHONE or FIRST_ADMIN_PASSWORD not set, skipping superadmin seeding")
		return nil
	}

	var existing models.User
	err := db.Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to check for existing superadmin: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	admin := models.User{
		Name:         "Superadmin",
		Phone:        phone,
		PasswordHash: hash,
		Role:         models.UserRoleSuperadmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}
	logger.Info("Superadmin account seeded", "phone", phone)
	return nil
}
