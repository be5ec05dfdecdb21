package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OnboardingCompleted is the sentinel step index for businesses that are
// past the onboarding funnel (converted or manually closed).
const OnboardingCompleted = 99

// TrialDays is the length of the free trial granted on signup and on every
// extension.
const TrialDays = 15

type Business struct {
	BaseModel
	Name      string         `gorm:"not null" json:"name"`
	OwnerName string         `gorm:"not null" json:"owner_name"`
	Phone     string         `gorm:"not null;index" json:"phone"`
	Plan      PlanType       `gorm:"not null;default:'PREMIUM'" json:"plan"`
	Status    BusinessStatus `gorm:"not null;default:'TRIAL';index" json:"status"`

	// Lifecycle dates. Exactly one of TrialEndsAt / SubscriptionEndsAt is
	// the active expiry reference: TrialEndsAt while on trial,
	// SubscriptionEndsAt once a plan has been purchased.
	JoinedAt           time.Time        `gorm:"not null" json:"joined_at"`
	TrialEndsAt        *time.Time       `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time       `json:"subscription_ends_at,omitempty"`
	LastPaymentAt      *time.Time       `json:"last_payment_at,omitempty"`
	Term               SubscriptionTerm `json:"term,omitempty"`

	// Funnel position, 0-based; OnboardingCompleted once converted.
	OnboardingStep int `gorm:"not null;default:0" json:"onboarding_step"`

	// Denormalized stats for the admin dashboard.
	RegisteredClients int             `gorm:"not null;default:0" json:"registered_clients"`
	TotalSales        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total_sales"`
}

// ExpiryReference returns the date that currently governs expiry, nil for
// suspended businesses with no dates set.
func (b *Business) ExpiryReference() *time.Time {
	switch b.Status {
	case BusinessStatusActive:
		return b.SubscriptionEndsAt
	case BusinessStatusTrial:
		return b.TrialEndsAt
	}
	// Expired businesses keep whichever reference they expired under.
	if b.SubscriptionEndsAt != nil {
		return b.SubscriptionEndsAt
	}
	return b.TrialEndsAt
}

// HadTrial reports whether the business ever ran a trial. Extension after
// expiry is only legal for these.
func (b *Business) HadTrial() bool {
	return b.TrialEndsAt != nil
}
