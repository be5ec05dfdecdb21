package middleware

import (
	"context"

	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BusinessLoader resolves a business by id. Satisfied by
// services.LifecycleService.
type BusinessLoader interface {
	GetBusiness(ctx context.Context, id string) (*models.Business, error)
}

// FeatureGate blocks routes whose feature the tenant's plan does not
// include. Superadmins bypass the gate.
func FeatureGate(businesses BusinessLoader, feature models.FeatureKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if val, ok := c.Get(ctxUserRole); ok {
			if role, ok := val.(models.UserRole); ok && role == models.UserRoleSuperadmin {
				c.Next()
				return
			}
		}

		val, ok := c.Get(ctxBusinessID)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}
		businessID, ok := val.(string)
		if !ok || businessID == "" {
			apperrors.HandleError(c, apperrors.NewForbiddenError("No business attached to this account"))
			c.Abort()
			return
		}

		b, err := businesses.GetBusiness(c.Request.Context(), businessID)
		if err != nil {
			apperrors.HandleError(c, err)
			c.Abort()
			return
		}
		if !models.PlanIncludes(b.Plan, feature) {
			apperrors.HandleError(c, apperrors.ErrFeatureLocked.WithDetails(map[string]interface{}{
				"feature": feature,
				"plan":    b.Plan,
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}
