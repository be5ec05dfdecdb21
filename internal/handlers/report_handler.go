package handlers

import (
	"fmt"
	"net/http"

	"cuponera_backend/internal/clock"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves operator and tenant reports.
type ReportHandler struct {
	*BaseHandler
	reports *services.ReportService
	clock   clock.Clock
}

func NewReportHandler(base *BaseHandler, reports *services.ReportService, clk clock.Clock) *ReportHandler {
	return &ReportHandler{BaseHandler: base, reports: reports, clock: clk}
}

func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/reports")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/funnel", middleware.RequireSuperadmin(), h.Funnel)
		group.GET("/performance", h.Performance)
		group.GET("/revenue", h.Revenue)
		group.GET("/clients/export", h.ExportClients)
	}
}

func (h *ReportHandler) Funnel(c *gin.Context) {
	stats, err := h.reports.Funnel(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) Performance(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	perf, err := h.reports.Performance(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (h *ReportHandler) Revenue(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	summary, err := h.reports.Revenue(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) ExportClients(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	buf, err := h.reports.ExportClients(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("clients-%s.xlsx", h.clock.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
