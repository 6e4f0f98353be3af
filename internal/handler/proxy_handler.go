package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// ProxyHandler handles the admin proxy cache and assignments.
type ProxyHandler struct {
	svc *service.ProxyService
}

// NewProxyHandler creates a proxy handler.
func NewProxyHandler(svc *service.ProxyService) *ProxyHandler {
	return &ProxyHandler{svc: svc}
}

// List godoc
// GET /proxies
func (h *ProxyHandler) List(c *gin.Context) {
	proxies, err := h.svc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.ProxyResponse, 0, len(proxies))
	for i := range proxies {
		out = append(out, model.ProxyToResponse(&proxies[i]))
	}
	c.JSON(http.StatusOK, gin.H{"proxies": out})
}

// Create godoc
// POST /proxies
func (h *ProxyHandler) Create(c *gin.Context) {
	var req model.CreateProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	proxy, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.ProxyToResponse(proxy))
}

// Update godoc
// PATCH /proxies/:id
func (h *ProxyHandler) Update(c *gin.Context) {
	var req model.UpdateProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	proxy, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ProxyToResponse(proxy))
}

// Delete godoc
// DELETE /proxies/:id
func (h *ProxyHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sync godoc
// POST /proxies/sync pulls and upserts proxies from the provider.
func (h *ProxyHandler) Sync(c *gin.Context) {
	n, err := h.svc.SyncFromProvider(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"synced": n})
}

// SetAssignments godoc
// PUT /proxies/:id/assignments
func (h *ProxyHandler) SetAssignments(c *gin.Context) {
	var req model.SetAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.svc.SetAssignments(c.Param("id"), req.CloudPhoneIDs, req.Reassign); err != nil {
		respondError(c, err)
		return
	}
	proxy, err := h.svc.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ProxyToResponse(proxy))
}
