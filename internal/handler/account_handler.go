package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// AccountHandler handles TikTok account CRUD, linking and sync.
type AccountHandler struct {
	accounts *service.AccountService
	sync     *service.SyncService
}

// NewAccountHandler creates an account handler.
func NewAccountHandler(accounts *service.AccountService, sync *service.SyncService) *AccountHandler {
	return &AccountHandler{accounts: accounts, sync: sync}
}

// List godoc
// GET /tiktok-accounts. Admins see all, creators see their linked accounts.
func (h *AccountHandler) List(c *gin.Context) {
	var (
		accounts []model.TiktokAccount
		err      error
	)
	if middleware.IsAdmin(c) {
		accounts, err = h.accounts.List()
	} else {
		accounts, err = h.accounts.ListForUser(middleware.UserID(c))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, model.AccountToResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

// Get godoc
// GET /tiktok-accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accounts.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AccountToResponse(account))
}

// Create godoc
// POST /tiktok-accounts (admin; manual entry without OAuth)
func (h *AccountHandler) Create(c *gin.Context) {
	var req model.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := h.accounts.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.AccountToResponse(account))
}

// Update godoc
// PATCH /tiktok-accounts/:id (admin)
func (h *AccountHandler) Update(c *gin.Context) {
	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := h.accounts.Update(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AccountToResponse(account))
}

// Delete godoc
// DELETE /tiktok-accounts/:id (admin)
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accounts.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Link godoc
// POST /tiktok-accounts/:id/link links the calling user to the account.
func (h *AccountHandler) Link(c *gin.Context) {
	if err := h.accounts.Link(middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Disconnect godoc
// DELETE /tiktok-accounts/:id/link removes the calling user's link.
func (h *AccountHandler) Disconnect(c *gin.Context) {
	if err := h.accounts.Disconnect(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sync godoc
// POST /tiktok-accounts/:id/sync (admin) pulls videos and appends stats.
func (h *AccountHandler) Sync(c *gin.Context) {
	result, err := h.sync.SyncAccountVideos(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
