package model

import "time"

// CreateCampaignRequest is the request body for POST /campaigns.
type CreateCampaignRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// UpdateCampaignRequest is the request body for PATCH /campaigns/:id.
type UpdateCampaignRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=200"`
	Status *string `json:"status" binding:"omitempty,oneof=active paused archived"`
}

// AddCampaignClipsRequest is the request body for POST /campaigns/:id/clips.
type AddCampaignClipsRequest struct {
	ClipIDs []string `json:"clip_ids" binding:"required,min=1"`
}

// CampaignResponse is the API view of a campaign.
type CampaignResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	ClipCount int       `json:"clip_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CampaignReport is the response for GET /campaigns/:id/report.
type CampaignReport struct {
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	Clips      int64  `json:"clips"`
	Published  int64  `json:"published"`
	Views      int64  `json:"views"`
	Likes      int64  `json:"likes"`
}
