package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"cuponera_backend/internal/dto"
	"cuponera_backend/internal/middleware"
	"cuponera_backend/internal/models"
	"cuponera_backend/internal/services"
	"cuponera_backend/internal/storage"
	"cuponera_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BroadcastHandler is the mass-messaging surface: audience planning,
// immediate and scheduled sends, attachments and history.
type BroadcastHandler struct {
	*BaseHandler
	broadcasts *services.BroadcastService
	lifecycle  *services.LifecycleService
	files      storage.Storage
}

func NewBroadcastHandler(base *BaseHandler, broadcasts *services.BroadcastService, lifecycle *services.LifecycleService, files storage.Storage) *BroadcastHandler {
	return &BroadcastHandler{BaseHandler: base, broadcasts: broadcasts, lifecycle: lifecycle, files: files}
}

func (h *BroadcastHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/broadcasts")
	group.Use(middleware.AuthMiddleware(), middleware.FeatureGate(h.lifecycle, models.FeatureMassMessages))
	{
		group.POST("/plan", h.Plan)
		group.POST("", h.Send)
		group.GET("", h.History)
		group.DELETE("/:id", h.Cancel)
		group.POST("/attachments", h.UploadAttachment)
	}
}

func (h *BroadcastHandler) toSendRequest(c *gin.Context, req *dto.SendBroadcastRequest) (*services.SendRequest, bool) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return nil, false
	}
	return &services.SendRequest{
		BusinessID:     businessID,
		Message:        req.Message,
		AttachmentType: req.AttachmentType,
		AttachmentPath: req.AttachmentPath,
		ClientIDs:      req.ClientIDs,
		Segment:        req.Segment,
		ScheduledFor:   req.ScheduledFor,
		SourceLabel:    req.SourceLabel,
	}, true
}

// Plan previews the audience without sending anything.
func (h *BroadcastHandler) Plan(c *gin.Context) {
	var req dto.SendBroadcastRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	sendReq, ok := h.toSendRequest(c, &req)
	if !ok {
		return
	}

	plan, err := h.broadcasts.PlanSend(c.Request.Context(), sendReq)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlanResponse{
		Scope:      plan.Scope,
		Segment:    plan.Segment,
		Recipients: len(plan.Audience),
		Suppressed: plan.Suppressed,
	})
}

func (h *BroadcastHandler) Send(c *gin.Context) {
	var req dto.SendBroadcastRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	sendReq, ok := h.toSendRequest(c, &req)
	if !ok {
		return
	}

	b, err := h.broadcasts.Send(c.Request.Context(), sendReq)
	if err != nil {
		// A partial dispatch still produced a broadcast record; surface both.
		if appErr, isApp := apperrors.AsAppError(err); isApp && b != nil {
			c.JSON(appErr.HTTPCode, gin.H{"broadcast": b, "error": appErr})
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BroadcastHandler) History(c *gin.Context) {
	businessID, ok := h.CurrentBusinessID(c)
	if !ok {
		return
	}
	items, err := h.broadcasts.History(c.Request.Context(), businessID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *BroadcastHandler) Cancel(c *gin.Context) {
	if err := h.broadcasts.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAttachment stores a media file and returns the path to reference
// from a send request.
func (h *BroadcastHandler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("file is required"))
		return
	}

	src, err := file.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer src.Close()

	path := fmt.Sprintf("broadcasts/%s%s", uuid.NewString(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if err := h.files.Save(c.Request.Context(), path, src, contentType); err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}

	url, err := h.files.URL(c.Request.Context(), path)
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path, "url": url})
}
