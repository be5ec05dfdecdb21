package handlers

import (
	"net/http"

	"cuponera_backend/internal/dto"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/services"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// CampaignHandler covers the tenant-facing CRM surface: campaigns, client
// registration and the loyalty wallet operations used at the counter.
type CampaignHandler struct {
	*BaseHandler
	wallet   *services.WalletService
	segments *services.SegmentService
}

func NewCampaignHandler(base *BaseHandler, wallet *services.WalletService, segments *services.SegmentService) *CampaignHandler {
	return &CampaignHandler{BaseHandler: base, wallet: wallet, segments: segments}
}

func (h *CampaignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/campaigns", h.CreateCampaign)
		authed.GET("/campaigns", h.ListCampaigns)
		authed.PUT("/campaigns/:id", h.UpdateCampaign)
		authed.GET("/campaigns/:id/participants", h.Participants)

		authed.POST("/clients", h.RegisterClient)
		authed.GET("/clients", h.ListClients)
		authed.GET("/clients/:id/wallet", h.Wallet)
		authed.GET("/segments", h.SegmentCounts)

		authed.POST("/wallet/activate", h.Activate)
		authed.POST("/wallet/:id/stamp", h.AddStamp)
		authed.POST("/wallet/:id/redeem", h.Redeem)
		authed.POST("/wallet/validate-coupon", h.ValidateCoupon)
	}
}

func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	var req dto.CreateCampaignRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	campaign, err := h.wallet.CreateCampaign(c.Request.Context(), req.ToModel(businessID))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	campaigns, err := h.wallet.ListCampaigns(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req dto.UpdateCampaignRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	campaign, err := h.wallet.UpdateCampaign(c.Request.Context(), c.Param("id"), req.Title, req.Subtitle, req.Color)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// Participants returns the campaign's cards split into winner, in-progress
// and redeemed-history buckets. ?segment= narrows the response to one bucket,
// which is what the UI passes on to a targeted send.
func (h *CampaignHandler) Participants(c *gin.Context) {
	buckets, err := h.wallet.CampaignParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if seg := c.Query("segment"); seg != "" {
		items, ok := buckets[services.ParticipantSegment(seg)]
		if !ok {
			h.HandleServiceError(c, apperrors.NewBadRequestError("unknown participant segment"))
			return
		}
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

func (h *CampaignHandler) RegisterClient(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	var req dto.CreateClientRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	client, err := h.wallet.RegisterClient(c.Request.Context(), businessID, req.Name, req.Phone)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *CampaignHandler) ListClients(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	clients, err := h.wallet.ListClients(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *CampaignHandler) Wallet(c *gin.Context) {
	items, err := h.wallet.Wallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CampaignHandler) SegmentCounts(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	counts, err := h.segments.SegmentCounts(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *CampaignHandler) Activate(c *gin.Context) {
	var req dto.ActivateWalletRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.wallet.Activate(c.Request.Context(), req.ClientID, req.CampaignID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CampaignHandler) AddStamp(c *gin.Context) {
	item, err := h.wallet.AddStamp(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CampaignHandler) Redeem(c *gin.Context) {
	item, err := h.wallet.Redeem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CampaignHandler) ValidateCoupon(c *gin.Context) {
	var req dto.ActivateWalletRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	item, err := h.wallet.ValidateCoupon(c.Request.Context(), req.ClientID, req.CampaignID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
