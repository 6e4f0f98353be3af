package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// CloudPhoneHandler serves the locally cached cloud phone inventory.
type CloudPhoneHandler struct {
	sync *service.SyncService
}

// NewCloudPhoneHandler creates a cloud phone handler.
func NewCloudPhoneHandler(sync *service.SyncService) *CloudPhoneHandler {
	return &CloudPhoneHandler{sync: sync}
}

// List godoc
// GET /admin/cloud-phones
func (h *CloudPhoneHandler) List(c *gin.Context) {
	phones, err := h.sync.ListCloudPhones()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.CloudPhoneResponse, 0, len(phones))
	for i := range phones {
		out = append(out, model.CloudPhoneToResponse(&phones[i]))
	}
	c.JSON(http.StatusOK, gin.H{"cloud_phones": out})
}
