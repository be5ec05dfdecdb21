package middleware

import (
	"strings"

	"cuponera_backend/internal/auth"
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/models"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Context keys shared with the handlers package.
const (
	ctxUserID     = "userID"
	ctxUserRole   = "userRole"
	ctxBusinessID = "businessID"
)

// AuthMiddleware validates the bearer token and loads its claims into the
// gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header is required"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken.WithError(err))
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxBusinessID, claims.BusinessID)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		if claims.BusinessID != "" {
			ctx = logger.WithTenantID(ctx, claims.BusinessID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole allows only the listed roles past.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, exists := c.Get(ctxUserRole)
		if !exists {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}
		role, ok := val.(models.UserRole)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid role in context"))
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		apperrors.HandleError(c, apperrors.ErrInsufficientRole)
		c.Abort()
	}
}

// RequireSuperadmin is shorthand for the operator console routes.
func RequireSuperadmin() gin.HandlerFunc {
	return RequireRole(models.UserRoleSuperadmin)
}
