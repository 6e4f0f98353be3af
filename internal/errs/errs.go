package errs

import "errors"

// Domain sentinel errors, mapped to HTTP codes in handlers.
var (
	ErrClipNotFound       = errors.New("clip not found")
	ErrAccountNotFound    = errors.New("tiktok account not found")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrProxyNotFound      = errors.New("proxy not found")
	ErrCloudPhoneNotFound = errors.New("cloud phone not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidTransition = errors.New("invalid clip status transition")

	ErrNoAccountLinked  = errors.New("clip has no tiktok account linked")
	ErrAccountInactive  = errors.New("tiktok account is not active")
	ErrNoLinkedDevice   = errors.New("tiktok account has no linked cloud phone")
	ErrAccountNotLinked = errors.New("tiktok account is not linked to user")

	ErrDeviceAlreadyAssigned = errors.New("cloud phone already assigned to another proxy")
	ErrProxyCapacity         = errors.New("proxy assignment limit exceeded")

	ErrUnsupportedMediaType = errors.New("unsupported upload content type")

	ErrNotConfigured        = errors.New("tiktok api is not configured")
	ErrAutomationNotReady   = errors.New("automation provider is not configured")
	ErrStorageNotConfigured = errors.New("object storage is not configured")
	ErrAccountNotConnected  = errors.New("tiktok account is not connected")
	ErrTokenExpired         = errors.New("access token expired and no refresh token available")
)
