package dto

import (
	"time"

	"cuponera_backend/internal/models"

	"github.com/shopspring/decimal"
)

type CreateBusinessRequest struct {
	Name      string          `json:"name" validate:"required"`
	OwnerName string          `json:"owner_name" validate:"required"`
	Phone     string          `json:"phone" validate:"required"`
	Plan      models.PlanType `json:"plan" validate:"required,is-plan-type"`
}

type PurchaseRequest struct {
	Plan   models.PlanType      `json:"plan" validate:"required,is-plan-type"`
	Months int                  `json:"months" validate:"required,gt=0"`
	Method models.PaymentMethod `json:"method" validate:"required,is-payment-method"`
}

// BusinessResponse is the dashboard view of a business: the stored row
// plus the computed runway fields.
type BusinessResponse struct {
	models.Business
	DaysRemaining int    `json:"days_remaining"`
	TotalDays     int    `json:"total_days"`
	ProgressBand  string `json:"progress_band"`
}

type PurchaseResponse struct {
	Business BusinessResponse `json:"business"`
	Amount   decimal.Decimal  `json:"amount"`
	PaidAt   time.Time        `json:"paid_at"`
}
