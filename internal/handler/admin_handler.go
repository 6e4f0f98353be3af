package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// AdminHandler handles review actions, rollups and provider syncs.
type AdminHandler struct {
	admin *service.AdminService
	sync  *service.SyncService
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(admin *service.AdminService, sync *service.SyncService) *AdminHandler {
	return &AdminHandler{admin: admin, sync: sync}
}

// Dashboard godoc
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// PendingClips godoc
// GET /admin/clips/pending
func (h *AdminHandler) PendingClips(c *gin.Context) {
	clips, err := h.admin.PendingClips()
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

// Approve godoc
// POST /admin/clips/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	var req model.ApproveClipRequest
	// An empty body means "approve as submitted", no overrides.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}
	clip, err := h.admin.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ClipToResponse(clip))
}

// Reject godoc
// POST /admin/clips/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	var req model.RejectClipRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}
	if err := h.admin.Reject(c.Param("id"), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TopClips godoc
// GET /admin/top/clips?limit=
func (h *AdminHandler) TopClips(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.admin.TopClips(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clips": rows})
}

// TopCreators godoc
// GET /admin/top/creators?limit=
func (h *AdminHandler) TopCreators(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.admin.TopCreators(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"creators": rows})
}

// LatestStats godoc
// GET /admin/stats/latest
func (h *AdminHandler) LatestStats(c *gin.Context) {
	stats, err := h.admin.LatestStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// SyncCloudPhones godoc
// POST /admin/sync/cloud-phones
func (h *AdminHandler) SyncCloudPhones(c *gin.Context) {
	n, err := h.sync.SyncCloudPhones(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": n})
}

// SyncPublishing godoc
// POST /admin/sync/publishing
func (h *AdminHandler) SyncPublishing(c *gin.Context) {
	n, err := h.sync.SyncPublishingClips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
