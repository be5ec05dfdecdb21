package dto

import "cuponera_backend/internal/models"

type CreateCampaignRequest struct {
	Type       models.CampaignType `json:"type" validate:"required,oneof=loyalty coupon"`
	Title      string              `json:"title" validate:"required"`
	Subtitle   string              `json:"subtitle"`
	Color      string              `json:"color"`
	Target     int                 `json:"target" validate:"gte=0"`
	Reward     string              `json:"reward" validate:"required"`
	Limit      int                 `json:"limit" validate:"gte=0"`
	Conditions string              `json:"conditions"`
}

func (r *CreateCampaignRequest) ToModel(businessID string) *models.Campaign {
	return &models.Campaign{
		BusinessID: businessID,
		Type:       r.Type,
		Title:      r.Title,
		Subtitle:   r.Subtitle,
		Color:      r.Color,
		Target:     r.Target,
		Reward:     r.Reward,
		Limit:      r.Limit,
		Conditions: r.Conditions,
		IsActive:   true,
	}
}

type UpdateCampaignRequest struct {
	Title    string `json:"title" validate:"required"`
	Subtitle string `json:"subtitle"`
	Color    string `json:"color"`
}

type ActivateWalletRequest struct {
	ClientID   string `json:"client_id" validate:"required,uuid"`
	CampaignID string `json:"campaign_id" validate:"required,uuid"`
}

type CreateClientRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}
