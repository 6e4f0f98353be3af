package model

import "time"

// ClipStatus represents clip lifecycle state.
type ClipStatus string

const (
	ClipStatusDraft      ClipStatus = "draft"
	ClipStatusSubmitted  ClipStatus = "submitted"
	ClipStatusApproved   ClipStatus = "approved"
	ClipStatusRejected   ClipStatus = "rejected"
	ClipStatusPublishing ClipStatus = "publishing"
	ClipStatusPublished  ClipStatus = "published"
	ClipStatusFailed     ClipStatus = "failed"
)

// ValidClipStatus reports whether s is a known lifecycle state.
func ValidClipStatus(s string) bool {
	switch ClipStatus(s) {
	case ClipStatusDraft, ClipStatusSubmitted, ClipStatusApproved, ClipStatusRejected,
		ClipStatusPublishing, ClipStatusPublished, ClipStatusFailed:
		return true
	}
	return false
}

// CreateClipRequest is the request body for POST /clips.
type CreateClipRequest struct {
	Title           string     `json:"title" binding:"required,max=256"`
	Description     *string    `json:"description"`
	VideoURL        string     `json:"video_url" binding:"required,url"`
	ThumbnailURL    *string    `json:"thumbnail_url" binding:"omitempty,url"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	TiktokAccountID *string    `json:"tiktok_account_id" binding:"omitempty,uuid"`
}

// UpdateClipRequest is the request body for PATCH /clips/:id.
// Nil fields are left untouched.
type UpdateClipRequest struct {
	Title           *string    `json:"title" binding:"omitempty,max=256"`
	Description     *string    `json:"description"`
	ThumbnailURL    *string    `json:"thumbnail_url" binding:"omitempty,url"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	TiktokAccountID *string    `json:"tiktok_account_id" binding:"omitempty,uuid"`
}

// ClipResponse is the API view of a clip.
type ClipResponse struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Title           string      `json:"title"`
	Description     *string     `json:"description,omitempty"`
	VideoURL        string      `json:"video_url"`
	ThumbnailURL    *string     `json:"thumbnail_url,omitempty"`
	ScheduledAt     *time.Time  `json:"scheduled_at,omitempty"`
	TiktokAccountID *string     `json:"tiktok_account_id,omitempty"`
	TiktokVideoID   *string     `json:"tiktok_video_id,omitempty"`
	TiktokVideoURL  *string     `json:"tiktok_video_url,omitempty"`
	GeelarkTaskID   *string     `json:"geelark_task_id,omitempty"`
	Status          ClipStatus  `json:"status"`
	FailReason      *string     `json:"fail_reason,omitempty"`
	PublishedAt     *time.Time  `json:"published_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	LatestStats     *ClipMetric `json:"latest_stats,omitempty"`
}

// ClipMetric is a single stats snapshot in API responses.
type ClipMetric struct {
	RecordedAt time.Time `json:"recorded_at"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	Shares     int64     `json:"shares"`
}

// ClipToResponse converts a clip entity to its API view.
func ClipToResponse(ent *Clip) ClipResponse {
	return ClipResponse{
		ID:              ent.ID,
		UserID:          ent.UserID,
		Title:           ent.Title,
		Description:     ent.Description,
		VideoURL:        ent.VideoURL,
		ThumbnailURL:    ent.ThumbnailURL,
		ScheduledAt:     ent.ScheduledAt,
		TiktokAccountID: ent.TiktokAccountID,
		TiktokVideoID:   ent.TiktokVideoID,
		TiktokVideoURL:  ent.TiktokVideoURL,
		GeelarkTaskID:   ent.GeelarkTaskID,
		Status:          ClipStatus(ent.Status),
		FailReason:      ent.FailReason,
		PublishedAt:     ent.PublishedAt,
		CreatedAt:       ent.CreatedAt,
		UpdatedAt:       ent.UpdatedAt,
	}
}
