package handlers

import (
	"cuponera_backend/internal/logger"
	"cuponera_backend/internal/validator"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID     = "userID"
	CtxUserRole   = "userRole"
	CtxBusinessID = "businessID"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidateJSON binds the body and runs struct validation. On failure
// it writes the error response and returns false.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "service error",
			"error", appErr.Message,
			"domain", appErr.Domain,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
		return
	}
	logger.CtxWithError(ctx, "internal server error", err, "path", c.Request.URL.Path)
	apperrors.HandleError(c, apperrors.InternalError(err))
}

// CurrentUserID returns the authenticated operator's id, writing a 401 and
// returning false when the auth middleware did not run.
func (h *BaseHandler) CurrentUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get(CtxUserID)
	if !exists {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}
	id, ok := val.(string)
	if !ok || id == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid user ID in context"))
		return "", false
	}
	return id, true
}

// CurrentBusinessID resolves the tenant scope for the request: the token's
// business for owners and staff, or the business_id query parameter for
// superadmins acting on someone's behalf.
func (h *BaseHandler) CurrentBusinessID(c *gin.Context) (string, bool) {
	if val, exists := c.Get(CtxBusinessID); exists {
		if id, ok := val.(string); ok && id != "" {
			return id, true
		}
	}
	if id := c.Query("business_id"); id != "" {
		return id, true
	}
	apperrors.HandleError(c, apperrors.NewBadRequestError("Business scope is required"))
	return "", false
}
