package model

import "time"

// CreateAccountRequest is the request body for POST /tiktok-accounts (manual entry).
type CreateAccountRequest struct {
	DisplayName  string  `json:"display_name" binding:"required,max=120"`
	Username     string  `json:"username" binding:"required,max=120"`
	CloudPhoneID *string `json:"cloud_phone_id"`
}

// UpdateAccountRequest is the request body for PATCH /tiktok-accounts/:id.
type UpdateAccountRequest struct {
	DisplayName  *string `json:"display_name" binding:"omitempty,max=120"`
	Username     *string `json:"username" binding:"omitempty,max=120"`
	CloudPhoneID *string `json:"cloud_phone_id"`
	IsActive     *bool   `json:"is_active"`
}

// AccountResponse is the API view of a TikTok account. Tokens are never exposed.
type AccountResponse struct {
	ID             string     `json:"id"`
	DisplayName    string     `json:"display_name"`
	Username       string     `json:"username"`
	TiktokUserID   *string    `json:"tiktok_user_id,omitempty"`
	Connected      bool       `json:"connected"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	FollowerCount  int64      `json:"follower_count"`
	IsActive       bool       `json:"is_active"`
	CloudPhoneID   *string    `json:"cloud_phone_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AccountToResponse converts an account entity to its API view.
func AccountToResponse(ent *TiktokAccount) AccountResponse {
	return AccountResponse{
		ID:             ent.ID,
		DisplayName:    ent.DisplayName,
		Username:       ent.Username,
		TiktokUserID:   ent.TiktokUserID,
		Connected:      ent.AccessToken != nil,
		TokenExpiresAt: ent.TokenExpiresAt,
		FollowerCount:  ent.FollowerCount,
		IsActive:       ent.IsActive,
		CloudPhoneID:   ent.CloudPhoneID,
		CreatedAt:      ent.CreatedAt,
		UpdatedAt:      ent.UpdatedAt,
	}
}

// AuthorizeURLResponse is the response for GET /tiktok-oauth/authorize-url.
// The client keeps the verifier across the redirect and sends it back on exchange.
type AuthorizeURLResponse struct {
	URL          string `json:"url"`
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier"`
}

// ExchangeCodeRequest is the request body for POST /tiktok-oauth/exchange.
type ExchangeCodeRequest struct {
	Code         string `json:"code" binding:"required"`
	RedirectURI  string `json:"redirect_uri" binding:"required,url"`
	CodeVerifier string `json:"code_verifier" binding:"required"`
}

// SyncResult summarizes one account video/stats sync run.
type SyncResult struct {
	AccountID     string `json:"account_id"`
	VideosSeen    int    `json:"videos_seen"`
	ClipsCreated  int    `json:"clips_created"`
	StatsAppended int    `json:"stats_appended"`
}
