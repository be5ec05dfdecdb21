package handlers

import (
	"net/http"

	"cuponera_backend/internal/dto"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/models"
	"cuponera_backend/internal/services"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// MarketingHandler exposes AI-drafted promotional copy.
type MarketingHandler struct {
	*BaseHandler
	ai        *services.MarketingAIService
	wallet    *services.WalletService
	lifecycle *services.LifecycleService
}

func NewMarketingHandler(base *BaseHandler, ai *services.MarketingAIService, wallet *services.WalletService, lifecycle *services.LifecycleService) *MarketingHandler {
	return &MarketingHandler{BaseHandler: base, ai: ai, wallet: wallet, lifecycle: lifecycle}
}

func (h *MarketingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/marketing")
	group.Use(middleware.AuthMiddleware(), middleware.FeatureGate(h.lifecycle, models.FeatureAI))
	{
		group.POST("/copy", h.GenerateCopy)
	}
}

func (h *MarketingHandler) GenerateCopy(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	var req dto.GenerateCopyRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	campaigns, err := h.wallet.ListCampaigns(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	var campaign *models.Campaign
	for i := range campaigns {
		if campaigns[i].ID == req.CampaignID {
			campaign = &campaigns[i]
			break
		}
	}
	if campaign == nil {
		h.HandleServiceError(c, apperrors.ErrCampaignNotFound)
		return
	}

	b, err := h.lifecycle.GetBusiness(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	text := h.ai.GenerateCopy(c.Request.Context(), &services.CopyRequest{
		BusinessName: b.Name,
		CampaignType: campaign.Type,
		Title:        campaign.Title,
		Reward:       campaign.Reward,
		Segment:      req.Segment,
		Tone:         req.Tone,
	})
	c.JSON(http.StatusOK, dto.GeneratedCopyResponse{Text: text})
}
