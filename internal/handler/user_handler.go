package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/middleware"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

// UserHandler serves the locally-mirrored user records.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Me godoc
// GET /me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.svc.Get(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserToResponse(user))
}

// ListCreators godoc
// GET /admin/users
func (h *UserHandler) ListCreators(c *gin.Context) {
	users, err := h.svc.ListCreators()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, model.UserToResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
