package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
)

// respondError maps domain sentinel errors to HTTP codes in one place.
// Anything unrecognized is a 500 with a generic body; the concrete error has
// already been logged where it happened.
func respondError(c *gin.Context, err error) {
	var provErr *geelark.APIError
	switch {
	case errors.Is(err, errs.ErrClipNotFound),
		errors.Is(err, errs.ErrAccountNotFound),
		errors.Is(err, errs.ErrCampaignNotFound),
		errors.Is(err, errs.ErrProxyNotFound),
		errors.Is(err, errs.ErrCloudPhoneNotFound),
		errors.Is(err, errs.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrDeviceAlreadyAssigned),
		errors.Is(err, errs.ErrProxyCapacity),
		errors.Is(err, errs.ErrAccountNotLinked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrUnsupportedMediaType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrNoAccountLinked),
		errors.Is(err, errs.ErrAccountInactive),
		errors.Is(err, errs.ErrNoLinkedDevice),
		errors.Is(err, errs.ErrAccountNotConnected),
		errors.Is(err, errs.ErrTokenExpired):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &provErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "automation provider rejected the request"})
	case errors.Is(err, errs.ErrNotConfigured),
		errors.Is(err, errs.ErrAutomationNotReady),
		errors.Is(err, errs.ErrStorageNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// respondBadRequest is the uniform binding-failure response.
func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
}
