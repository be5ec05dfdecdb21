package handlers

import (
	"net/http"

	"cuponera_backend/internal/dto"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// OnboardingHandler manages the shared onboarding sequence. The sequence is
// global: every business resolves the same steps against its own signup
// date.
type OnboardingHandler struct {
	*BaseHandler
	onboarding *services.OnboardingService
}

func NewOnboardingHandler(base *BaseHandler, onboarding *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{BaseHandler: base, onboarding: onboarding}
}

func (h *OnboardingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	steps := rg.Group("/onboarding/steps")
	steps.Use(middleware.AuthMiddleware(), middleware.RequireSuperadmin())
	{
		steps.GET("", h.List)
		steps.POST("", h.Create)
		steps.PUT("/:id", h.Update)
		steps.DELETE("/:id", h.Delete)
	}
}

func (h *OnboardingHandler) List(c *gin.Context) {
	steps, err := h.onboarding.Sequence(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, steps)
}

func (h *OnboardingHandler) Create(c *gin.Context) {
	var req dto.StepRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	step, err := h.onboarding.CreateStep(c.Request.Context(), req.ToModel())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, step)
}

func (h *OnboardingHandler) Update(c *gin.Context) {
	var req dto.StepRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	step := req.ToModel()
	step.ID = c.Param("id")
	updated, err := h.onboarding.UpdateStep(c.Request.Context(), step)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OnboardingHandler) Delete(c *gin.Context) {
	if err := h.onboarding.DeleteStep(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
