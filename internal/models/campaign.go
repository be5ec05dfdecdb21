package models

import "time"

// Campaign is the marketing template a business runs: a loyalty card
// (collect Target stamps, get Reward) or a single-use coupon (Target 1).
// Immutable after creation except for display metadata; stats are derived
// from wallet items, never stored here.
type Campaign struct {
	BaseModel
	BusinessID string       `gorm:"not null;index" json:"business_id"`
	Type       CampaignType `gorm:"not null" json:"type"`
	Title      string       `gorm:"not null" json:"title"`
	Subtitle   string       `json:"subtitle"`
	Color      string       `gorm:"default:'blue'" json:"color"`

	// Loyalty
	Target int    `gorm:"not null;default:1" json:"target"`
	Reward string `json:"reward"`

	// Coupon
	Limit      int    `gorm:"not null;default:0" json:"limit"` // 0 = unlimited
	Conditions string `json:"conditions"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

// ClientWalletItem is one client's running instance of a campaign.
// Stamps only grow while ACTIVE; after redemption the item is frozen.
type ClientWalletItem struct {
	BaseModel
	ClientID   string       `gorm:"not null;index:idx_wallet_client_campaign" json:"client_id"`
	CampaignID string       `gorm:"not null;index:idx_wallet_client_campaign" json:"campaign_id"`
	Stamps     int          `gorm:"not null;default:0" json:"stamps"`
	Status     WalletStatus `gorm:"not null;default:'ACTIVE'" json:"status"`
	RedeemedAt *time.Time   `json:"redeemed_at,omitempty"`

	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"-"`
}

// Complete reports whether the card reached its target. A complete card
// stays ACTIVE until explicitly redeemed.
func (w *ClientWalletItem) Complete(target int) bool {
	return w.Stamps >= target
}
