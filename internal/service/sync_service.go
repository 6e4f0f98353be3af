package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/observability/metrics"
	"github.com/clipops/clip-service/internal/tiktok"
)

// ContentAPI is the slice of the TikTok client used by sync.
type ContentAPI interface {
	GetUserInfo(ctx context.Context, accessToken string) (*tiktok.UserInfo, error)
	GetVideoList(ctx context.Context, accessToken string, cursor int64, maxCount int) (*tiktok.VideoPage, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*tiktok.Token, error)
}

// DeviceAPI is the slice of the automation provider used by sync.
type DeviceAPI interface {
	ListCloudPhones(ctx context.Context) ([]geelark.CloudPhone, error)
	QueryTasks(ctx context.Context, ids []string) ([]geelark.TaskInfo, error)
}

// SyncService reconciles local state from the platform and the automation
// provider. All syncs are admin-triggered (or run on the optional schedule).
type SyncService struct {
	db      *gorm.DB
	content ContentAPI // nil when TikTok credentials are absent
	devices DeviceAPI  // nil when the provider is not configured
	hub     *EventHub
	log     *zap.Logger

	now func() time.Time
}

// NewSyncService creates a sync service.
func NewSyncService(db *gorm.DB, content ContentAPI, devices DeviceAPI, hub *EventHub, log *zap.Logger) *SyncService {
	return &SyncService{db: db, content: content, devices: devices, hub: hub, log: log, now: time.Now}
}

// SyncAccountVideos pulls the account's video list and appends a stats row per
// video. Unseen videos become clips owned by the syncing admin, since true
// authorship is unknowable from the platform side. Every call appends fresh
// stat rows; repeated syncs with unchanged counters still append.
func (s *SyncService) SyncAccountVideos(ctx context.Context, syncUserID, accountID string) (*model.SyncResult, error) {
	if s.content == nil {
		return nil, errs.ErrNotConfigured
	}
	var account model.TiktokAccount
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, err
	}
	accessToken, err := s.ensureFreshToken(ctx, &account)
	if err != nil {
		metrics.StatsSyncRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Profile refresh is a side operation; its failure must not block stats.
	if info, err := s.content.GetUserInfo(ctx, accessToken); err != nil {
		s.log.Warn("sync: user info fetch failed", zap.String("account_id", accountID), zap.Error(err))
	} else if info.FollowerCount > 0 {
		if err := s.db.Model(&account).Update("follower_count", info.FollowerCount).Error; err != nil {
			s.log.Warn("sync: follower count update failed", zap.Error(err))
		}
	}

	result := &model.SyncResult{AccountID: accountID}
	recordedAt := s.now()
	var cursor int64
	for {
		page, err := s.content.GetVideoList(ctx, accessToken, cursor, 20)
		if err != nil {
			metrics.StatsSyncRunsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("video list: %w", err)
		}
		for i := range page.Videos {
			created, err := s.recordVideo(syncUserID, &account, &page.Videos[i], recordedAt)
			if err != nil {
				metrics.StatsSyncRunsTotal.WithLabelValues("error").Inc()
				return nil, err
			}
			result.VideosSeen++
			result.StatsAppended++
			if created {
				result.ClipsCreated++
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.Cursor
	}
	metrics.StatsSyncRunsTotal.WithLabelValues("ok").Inc()
	s.log.Info("account videos synced",
		zap.String("account_id", accountID),
		zap.Int("videos", result.VideosSeen),
		zap.Int("clips_created", result.ClipsCreated))
	return result, nil
}

// recordVideo upserts the clip for a platform video and appends one stats row.
func (s *SyncService) recordVideo(syncUserID string, account *model.TiktokAccount, v *tiktok.Video, recordedAt time.Time) (created bool, err error) {
	var clip model.Clip
	err = s.db.Where("tiktok_video_id = ?", v.ID).First(&clip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		title := v.Title
		if title == "" {
			title = "Untitled " + v.ID
		}
		publishedAt := time.Unix(v.CreateTime, 0)
		clip = model.Clip{
			ID:              uuid.New().String(),
			UserID:          syncUserID,
			Title:           title,
			VideoURL:        v.ShareURL,
			TiktokAccountID: &account.ID,
			TiktokVideoID:   &v.ID,
			TiktokVideoURL:  &v.ShareURL,
			Status:          string(model.ClipStatusPublished),
			PublishedAt:     &publishedAt,
		}
		if v.CoverImageURL != "" {
			clip.ThumbnailURL = &v.CoverImageURL
		}
		if err := s.db.Create(&clip).Error; err != nil {
			return false, fmt.Errorf("create clip for video %s: %w", v.ID, err)
		}
		created = true
	} else if err != nil {
		return false, err
	}

	stats := model.ClipStats{
		ID:         uuid.New().String(),
		ClipID:     clip.ID,
		RecordedAt: recordedAt,
		Views:      v.ViewCount,
		Likes:      v.LikeCount,
		Comments:   v.CommentCount,
		Shares:     v.ShareCount,
	}
	if err := s.db.Create(&stats).Error; err != nil {
		return created, fmt.Errorf("append stats for clip %s: %w", clip.ID, err)
	}
	return created, nil
}

// SyncAllAccounts syncs every connected active account; per-account failures
// are logged and skipped. Used by the optional schedule.
func (s *SyncService) SyncAllAccounts(ctx context.Context, syncUserID string) {
	var accounts []model.TiktokAccount
	if err := s.db.Where("is_active = ? AND access_token IS NOT NULL", true).Find(&accounts).Error; err != nil {
		s.log.Error("sync all: listing accounts failed", zap.Error(err))
		return
	}
	for _, a := range accounts {
		if _, err := s.SyncAccountVideos(ctx, syncUserID, a.ID); err != nil {
			s.log.Warn("sync all: account sync failed",
				zap.String("account_id", a.ID), zap.Error(err))
		}
	}
}

// ensureFreshToken returns a usable access token, refreshing lazily when the
// stored one has expired.
func (s *SyncService) ensureFreshToken(ctx context.Context, account *model.TiktokAccount) (string, error) {
	if account.AccessToken == nil {
		return "", errs.ErrAccountNotConnected
	}
	if account.TokenExpiresAt == nil || account.TokenExpiresAt.After(s.now()) {
		return *account.AccessToken, nil
	}
	if account.RefreshToken == nil {
		return "", errs.ErrTokenExpired
	}
	tok, err := s.content.RefreshAccessToken(ctx, *account.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	updates := map[string]any{
		"access_token":     tok.AccessToken,
		"token_expires_at": tok.ExpiresAt,
	}
	if tok.RefreshToken != "" {
		updates["refresh_token"] = tok.RefreshToken
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}
	return tok.AccessToken, nil
}

// SyncCloudPhones pulls the provider device list and upserts the local cache.
// Pull-only: the provider is the source of truth for devices.
func (s *SyncService) SyncCloudPhones(ctx context.Context) (int, error) {
	if s.devices == nil {
		return 0, errs.ErrAutomationNotReady
	}
	phones, err := s.devices.ListCloudPhones(ctx)
	if err != nil {
		return 0, fmt.Errorf("list cloud phones: %w", err)
	}
	syncedAt := s.now()
	for _, p := range phones {
		raw, _ := json.Marshal(p)
		ent := model.CloudPhone{
			ID:          p.ID,
			SerialName:  p.SerialName,
			Status:      p.Status,
			ProxyServer: p.ProxyServer,
			ProxyPort:   p.ProxyPort,
			Country:     p.Country,
			Raw:         raw,
			SyncedAt:    syncedAt,
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&ent).Error; err != nil {
			return 0, fmt.Errorf("upsert cloud phone %s: %w", p.ID, err)
		}
	}
	s.log.Info("cloud phones synced", zap.Int("count", len(phones)))
	return len(phones), nil
}

// ListCloudPhones returns the locally cached device list.
func (s *SyncService) ListCloudPhones() ([]model.CloudPhone, error) {
	var out []model.CloudPhone
	err := s.db.Order("serial_name ASC").Find(&out).Error
	return out, err
}

// SyncPublishingClips reconciles clips stuck in publishing against provider
// task state: completed tasks become published, failed tasks become failed.
func (s *SyncService) SyncPublishingClips(ctx context.Context) (int, error) {
	if s.devices == nil {
		return 0, errs.ErrAutomationNotReady
	}
	var clips []model.Clip
	if err := s.db.Where("status = ? AND geelark_task_id IS NOT NULL",
		string(model.ClipStatusPublishing)).Find(&clips).Error; err != nil {
		return 0, err
	}
	if len(clips) == 0 {
		return 0, nil
	}
	byTask := make(map[string]*model.Clip, len(clips))
	ids := make([]string, 0, len(clips))
	for i := range clips {
		id := *clips[i].GeelarkTaskID
		byTask[id] = &clips[i]
		ids = append(ids, id)
	}
	tasks, err := s.devices.QueryTasks(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("query tasks: %w", err)
	}

	updated := 0
	for _, t := range tasks {
		clip, ok := byTask[t.ID]
		if !ok {
			continue
		}
		switch t.Status {
		case geelark.TaskStatusCompleted:
			updates := map[string]any{
				"status":       string(model.ClipStatusPublished),
				"published_at": s.now(),
			}
			if t.ShareURL != "" {
				updates["tiktok_video_url"] = t.ShareURL
			}
			if err := s.db.Model(&model.Clip{}).Where("id = ?", clip.ID).Updates(updates).Error; err != nil {
				return updated, err
			}
			metrics.ClipsPublishedTotal.Inc()
			if s.hub != nil {
				s.hub.PublishClipStatus(clip.ID, model.ClipStatusPublished)
			}
			updated++
		case geelark.TaskStatusFailed, geelark.TaskStatusCancelled:
			updates := map[string]any{"status": string(model.ClipStatusFailed)}
			if t.FailReason != "" {
				updates["fail_reason"] = t.FailReason
			}
			if err := s.db.Model(&model.Clip{}).Where("id = ?", clip.ID).Updates(updates).Error; err != nil {
				return updated, err
			}
			s.log.Warn("publish task failed",
				zap.String("clip_id", clip.ID),
				zap.String("task_id", t.ID),
				zap.String("reason", t.FailReason))
			if s.hub != nil {
				s.hub.PublishClipStatus(clip.ID, model.ClipStatusFailed)
			}
			updated++
		}
	}
	return updated, nil
}
