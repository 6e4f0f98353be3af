package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// UploadHandler issues presigned upload URLs.
type UploadHandler struct {
	svc *service.UploadService
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// Presign godoc
// POST /uploads/presign
func (h *UploadHandler) Presign(c *gin.Context) {
	var req model.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	ticket, err := h.svc.Presign(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
