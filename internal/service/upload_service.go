package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/storage"
)

// Presigner issues presigned PUT URLs for clip objects.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*storage.UploadTicket, error)
	PublicURL(key string) string
}

// allowedVideoTypes restricts direct uploads to video payloads.
var allowedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/quicktime": {},
	"video/webm":      {},
}

// UploadService hands out presigned upload targets under the caller's
// namespace. Upload completion is client-driven: the clip row is created by a
// separate call after the PUT.
type UploadService struct {
	store Presigner // nil when storage is not configured
	ttl   time.Duration
}

// NewUploadService creates an upload service.
func NewUploadService(store Presigner, ttl time.Duration) *UploadService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &UploadService{store: store, ttl: ttl}
}

// Presign returns a presigned PUT URL for clips/{userId}/{filename}.
func (s *UploadService) Presign(ctx context.Context, userID string, req model.PresignUploadRequest) (*model.PresignUploadResponse, error) {
	if s.store == nil {
		return nil, errs.ErrStorageNotConfigured
	}
	if _, ok := allowedVideoTypes[req.ContentType]; !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedMediaType, req.ContentType)
	}
	key := storage.ObjectKey(userID, req.Filename)
	ticket, err := s.store.PresignUpload(ctx, key, req.ContentType, s.ttl)
	if err != nil {
		return nil, err
	}
	return &model.PresignUploadResponse{
		URL:       ticket.URL,
		Key:       ticket.Key,
		PublicURL: s.store.PublicURL(ticket.Key),
		ExpiresAt: ticket.ExpiresAt,
	}, nil
}
