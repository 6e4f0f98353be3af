package model

import "time"

// DashboardStats is the response for GET /admin/dashboard.
type DashboardStats struct {
	Creators        int64 `json:"creators"`
	Clips           int64 `json:"clips"`
	PendingClips    int64 `json:"pending_clips"`
	PublishedClips  int64 `json:"published_clips"`
	ActiveCampaigns int64 `json:"active_campaigns"`
	ActiveAccounts  int64 `json:"active_accounts"`
	TotalViews      int64 `json:"total_views"`
}

// ApproveClipRequest is the request body for POST /admin/clips/:id/approve.
// Title/Description, when set, overwrite the clip from the review modal.
type ApproveClipRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=256"`
	Description *string `json:"description"`
}

// RejectClipRequest is the request body for POST /admin/clips/:id/reject.
type RejectClipRequest struct {
	Reason string `json:"reason"`
}

// TopClip is one row of the GET /admin/top/clips report.
type TopClip struct {
	ClipID     string    `json:"clip_id"`
	Title      string    `json:"title"`
	UserID     string    `json:"user_id"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TopCreator is one row of the GET /admin/top/creators report.
type TopCreator struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Clips  int64  `json:"clips"`
	Views  int64  `json:"views"`
}

// ClipEvent is broadcast to admin dashboard subscribers on status changes.
type ClipEvent struct {
	Event  string     `json:"event"`
	ClipID string     `json:"clip_id"`
	Status ClipStatus `json:"status"`
	At     time.Time  `json:"at"`
}
