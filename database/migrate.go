package database

import (
	"fmt"

	"cuponera_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.OnboardingStep{},
		&models.Campaign{},
		&models.Client{},
		&models.ClientWalletItem{},
		&models.Broadcast{},
		&models.PaymentTransaction{},
	)
}

// SeedOnboardingSequence installs the default onboarding sequence on an
// empty steps table: a welcome message right after signup, then a short
// drip over the first week of the trial.
func SeedOnboardingSequence(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.OnboardingStep{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	steps := []models.OnboardingStep{
		{
			Title:        "Welcome",
			Content:      "Welcome aboard! Your 15-day trial has started. Here is how to set up your first loyalty card.",
			ContentType:  models.ContentText,
			Trigger:      models.TriggerRegistration,
			DelayMinutes: 0,
		},
		{
			Title:        "Setup checklist",
			Content:      "Three steps to your first campaign: register your clients, create a card, share the link.",
			ContentType:  models.ContentText,
			Trigger:      models.TriggerRegistration,
			DelayMinutes: 60,
		},
		{
			Title:       "First campaign ideas",
			Content:     "Businesses like yours usually start with a 10-stamp coffee card. Here are three templates.",
			ContentType: models.ContentText,
			Trigger:     models.TriggerScheduled,
			DayOffset:   1,
			TimeOfDay:   "10:00",
		},
		{
			Title:       "Bring clients back",
			Content:     "Use segments to reach clients you have not seen in a month. One message is often enough.",
			ContentType: models.ContentText,
			Trigger:     models.TriggerScheduled,
			DayOffset:   3,
			TimeOfDay:   "10:00",
		},
		{
			Title:       "Trial check-in",
			Content:     "You are halfway through the trial. Reply to this message and we will help you pick a plan.",
			ContentType: models.ContentText,
			Trigger:     models.TriggerScheduled,
			DayOffset:   7,
			TimeOfDay:   "12:00",
		},
	}
	return db.Create(&steps).Error
}
