package routes

import (
	"cuponera_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every API route group under /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.BusinessHandler.RegisterRoutes(api)
		appHandlers.OnboardingHandler.RegisterRoutes(api)
		appHandlers.CampaignHandler.RegisterRoutes(api)
		appHandlers.BroadcastHandler.RegisterRoutes(api)
		appHandlers.MarketingHandler.RegisterRoutes(api)
		appHandlers.ReportHandler.RegisterRoutes(api)
	}
}
