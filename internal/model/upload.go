package model

import "time"

// PresignUploadRequest is the request body for POST /uploads/presign.
type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUploadResponse carries the presigned PUT target. The client PUTs the
// file to URL, then creates the clip with PublicURL as video_url.
type PresignUploadResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
