package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentTransaction struct {
	BaseModel
	BusinessID string          `gorm:"not null;index" json:"business_id"`
	Plan       PlanType        `gorm:"not null" json:"plan"`
	Months     int             `gorm:"not null" json:"months"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Method     PaymentMethod   `gorm:"not null" json:"method"`
	PaidAt     time.Time       `gorm:"not null" json:"paid_at"`

	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}
