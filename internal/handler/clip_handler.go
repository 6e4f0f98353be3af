package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// ClipHandler handles the creator-facing clip REST API.
type ClipHandler struct {
	svc *service.ClipService
}

// NewClipHandler creates a clip handler.
func NewClipHandler(svc *service.ClipService) *ClipHandler {
	return &ClipHandler{svc: svc}
}

// Create godoc
// POST /clips
func (h *ClipHandler) Create(c *gin.Context) {
	var req model.CreateClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	clip, err := h.svc.Create(middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.ClipToResponse(clip))
}

// List godoc
// GET /clips?status=
func (h *ClipHandler) List(c *gin.Context) {
	clips, err := h.svc.List(middleware.UserID(c), middleware.IsAdmin(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.ClipResponse, 0, len(clips))
	for i := range clips {
		out = append(out, model.ClipToResponse(&clips[i]))
	}
	c.JSON(http.StatusOK, gin.H{"clips": out})
}

// Get godoc
// GET /clips/:id
func (h *ClipHandler) Get(c *gin.Context) {
	clip, err := h.svc.Get(middleware.UserID(c), middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ClipToResponse(clip))
}

// Update godoc
// PATCH /clips/:id
func (h *ClipHandler) Update(c *gin.Context) {
	var req model.UpdateClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	clip, err := h.svc.Update(middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ClipToResponse(clip))
}

// Submit godoc
// POST /clips/:id/submit
func (h *ClipHandler) Submit(c *gin.Context) {
	clip, err := h.svc.Submit(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ClipToResponse(clip))
}

// Withdraw godoc
// POST /clips/:id/withdraw
func (h *ClipHandler) Withdraw(c *gin.Context) {
	clip, err := h.svc.Withdraw(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ClipToResponse(clip))
}

// Delete godoc
// DELETE /clips/:id
func (h *ClipHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
