package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// CampaignHandler handles campaign grouping and reports.
type CampaignHandler struct {
	svc *service.CampaignService
}

// NewCampaignHandler creates a campaign handler.
func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

func campaignToResponse(ent *model.Campaign) model.CampaignResponse {
	return model.CampaignResponse{
		ID:        ent.ID,
		Name:      ent.Name,
		Status:    ent.Status,
		ClipCount: len(ent.Clips),
		CreatedAt: ent.CreatedAt,
		UpdatedAt: ent.UpdatedAt,
	}
}

// List godoc
// GET /campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.svc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, campaignToResponse(&campaigns[i]))
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": out})
}

// Create godoc
// POST /campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var req model.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	campaign, err := h.svc.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaignToResponse(campaign))
}

// Get godoc
// GET /campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	campaign, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaignToResponse(campaign))
}

// Update godoc
// PATCH /campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	var req model.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	campaign, err := h.svc.Update(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaignToResponse(campaign))
}

// Delete godoc
// DELETE /campaigns/:id
func (h *CampaignHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddClips godoc
// POST /campaigns/:id/clips
func (h *CampaignHandler) AddClips(c *gin.Context) {
	var req model.AddCampaignClipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.svc.AddClips(c.Param("id"), req.ClipIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveClip godoc
// DELETE /campaigns/:id/clips/:clipId
func (h *CampaignHandler) RemoveClip(c *gin.Context) {
	if err := h.svc.RemoveClip(c.Param("id"), c.Param("clipId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report godoc
// GET /campaigns/:id/report
func (h *CampaignHandler) Report(c *gin.Context) {
	report, err := h.svc.Report(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
