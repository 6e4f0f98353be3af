package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// OAuthHandler handles the TikTok PKCE account-linking flow.
type OAuthHandler struct {
	svc *service.OAuthService
}

// NewOAuthHandler creates an OAuth handler.
func NewOAuthHandler(svc *service.OAuthService) *OAuthHandler {
	return &OAuthHandler{svc: svc}
}

// Status godoc
// GET /tiktok-oauth/status reports whether OAuth is available or the UI
// should fall back to manual account entry.
func (h *OAuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"configured": h.svc.Configured()})
}

// AuthorizeURL godoc
// GET /tiktok-oauth/authorize-url?state=
func (h *OAuthHandler) AuthorizeURL(c *gin.Context) {
	resp, err := h.svc.AuthorizationURL(c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exchange godoc
// POST /tiktok-oauth/exchange
func (h *OAuthHandler) Exchange(c *gin.Context) {
	var req model.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := h.svc.Exchange(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AccountToResponse(account))
}
