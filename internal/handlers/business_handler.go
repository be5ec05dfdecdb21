package handlers

import (
	"net/http"
	"time"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/dto"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/models"
	"cuponera_backend/internal/services"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func decimalFromMonths(months int) decimal.Decimal {
	return decimal.NewFromInt(int64(months))
}

// BusinessHandler is the operator console: tenant lifecycle, trial
// management and subscription sales.
type BusinessHandler struct {
	*BaseHandler
	lifecycle  *services.LifecycleService
	onboarding *services.OnboardingService
	clock      clock.Clock
}

func NewBusinessHandler(base *BaseHandler, lifecycle *services.LifecycleService, onboarding *services.OnboardingService, clk clock.Clock) *BusinessHandler {
	return &BusinessHandler{BaseHandler: base, lifecycle: lifecycle, onboarding: onboarding, clock: clk}
}

func (h *BusinessHandler) RegisterRoutes(rg *gin.RouterGroup) {
	businesses := rg.Group("/businesses")
	businesses.Use(middleware.AuthMiddleware(), middleware.RequireSuperadmin())
	{
		businesses.POST("", h.Create)
		businesses.GET("", h.List)
		businesses.GET("/stats", h.Stats)
		businesses.POST("/expiry-sweep", h.SweepExpiry)
		businesses.GET("/:id", h.Get)
		businesses.GET("/:id/timeline", h.Timeline)
		businesses.POST("/:id/extend-trial", h.ExtendTrial)
		businesses.POST("/:id/purchase", h.Purchase)
	}
}

func (h *BusinessHandler) toResponse(b *models.Business, now time.Time) dto.BusinessResponse {
	days := services.DaysRemaining(b.ExpiryReference(), now)
	total := services.TotalRunwayDays(b)
	return dto.BusinessResponse{
		Business:      *b,
		DaysRemaining: days,
		TotalDays:     total,
		ProgressBand:  string(services.BandFor(days, total)),
	}
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req dto.CreateBusinessRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	b, err := h.lifecycle.CreateDemo(c.Request.Context(), req.Name, req.OwnerName, req.Phone, req.Plan)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(b, h.clock.Now()))
}

func (h *BusinessHandler) List(c *gin.Context) {
	var status *models.BusinessStatus
	if v := c.Query("status"); v != "" {
		s := models.BusinessStatus(v)
		status = &s
	}

	items, err := h.lifecycle.ListBusinesses(c.Request.Context(), status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	now := h.clock.Now()
	out := make([]dto.BusinessResponse, 0, len(items))
	for i := range items {
		out = append(out, h.toResponse(&items[i], now))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BusinessHandler) Get(c *gin.Context) {
	b, err := h.lifecycle.GetBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b, h.clock.Now()))
}

func (h *BusinessHandler) ExtendTrial(c *gin.Context) {
	b, err := h.lifecycle.ExtendTrial(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(b, h.clock.Now()))
}

func (h *BusinessHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	now := h.clock.Now()
	b, err := h.lifecycle.PurchaseSubscription(c.Request.Context(), c.Param("id"), req.Plan, req.Months, req.Method, now)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	amount, ok := models.BasePrices[req.Plan]
	if !ok {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Unknown plan"))
		return
	}
	c.JSON(http.StatusOK, dto.PurchaseResponse{
		Business: h.toResponse(b, now),
		Amount:   amount.Mul(decimalFromMonths(req.Months)),
		PaidAt:   now,
	})
}

func (h *BusinessHandler) SweepExpiry(c *gin.Context) {
	count, err := h.lifecycle.SweepExpiry(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": count})
}

func (h *BusinessHandler) Stats(c *gin.Context) {
	stats, err := h.lifecycle.Stats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Timeline resolves the onboarding sequence against the business's signup
// date.
func (h *BusinessHandler) Timeline(c *gin.Context) {
	b, err := h.lifecycle.GetBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resolved, err := h.onboarding.Timeline(c.Request.Context(), b)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	out := make([]dto.TimelineEntry, 0, len(resolved))
	for _, r := range resolved {
		out = append(out, dto.TimelineEntry{Step: r.Step, DueAt: r.DueAt, State: string(r.State)})
	}
	c.JSON(http.StatusOK, out)
}
