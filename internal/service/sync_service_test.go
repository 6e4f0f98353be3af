package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
	"github.com/clipops/clip-service/internal/tiktok"
)

type stubContentAPI struct {
	videos       []tiktok.Video
	info         *tiktok.UserInfo
	refreshed    *tiktok.Token
	refreshCalls int
}

func (s *stubContentAPI) GetUserInfo(_ context.Context, _ string) (*tiktok.UserInfo, error) {
	if s.info == nil {
		return nil, errors.New("no info")
	}
	return s.info, nil
}

func (s *stubContentAPI) GetVideoList(_ context.Context, _ string, _ int64, _ int) (*tiktok.VideoPage, error) {
	return &tiktok.VideoPage{Videos: s.videos, HasMore: false}, nil
}

func (s *stubContentAPI) RefreshAccessToken(_ context.Context, _ string) (*tiktok.Token, error) {
	s.refreshCalls++
	if s.refreshed == nil {
		return nil, errors.New("refresh rejected")
	}
	return s.refreshed, nil
}

type stubDeviceAPI struct {
	phones []geelark.CloudPhone
	tasks  []geelark.TaskInfo
}

func (s *stubDeviceAPI) ListCloudPhones(_ context.Context) ([]geelark.CloudPhone, error) {
	return s.phones, nil
}

func (s *stubDeviceAPI) QueryTasks(_ context.Context, _ []string) ([]geelark.TaskInfo, error) {
	return s.tasks, nil
}

func TestSyncAppendsStatsEveryRun(t *testing.T) {
	db := newTestDB(t)
	content := &stubContentAPI{
		videos: []tiktok.Video{{
			ID:         "vid-1",
			Title:      "A video",
			CreateTime: time.Now().Add(-24 * time.Hour).Unix(),
			ShareURL:   "https://www.tiktok.com/@x/video/vid-1",
			ViewCount:  100,
			LikeCount:  10,
		}},
	}
	svc := service.NewSyncService(db, content, nil, service.NewEventHub(zap.NewNop()), zap.NewNop())
	admin := seedUser(t, db, model.RoleAdmin)
	exp := time.Now().Add(time.Hour)
	account := seedAccount(t, db, func(a *model.TiktokAccount) {
		a.AccessToken = strptr("tok-1")
		a.TokenExpiresAt = &exp
	})

	first, err := svc.SyncAccountVideos(context.Background(), admin.ID, account.ID)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.ClipsCreated != 1 || first.StatsAppended != 1 {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := svc.SyncAccountVideos(context.Background(), admin.ID, account.ID)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if second.ClipsCreated != 0 {
		t.Fatalf("second sync must reuse the clip, created %d", second.ClipsCreated)
	}

	var clips, stats int64
	db.Model(&model.Clip{}).Where("tiktok_video_id = ?", "vid-1").Count(&clips)
	db.Model(&model.ClipStats{}).Count(&stats)
	if clips != 1 {
		t.Fatalf("expected 1 clip, got %d", clips)
	}
	if stats != 2 {
		t.Fatalf("stats are append-only, expected 2 rows, got %d", stats)
	}
}

func TestSyncCreatesPublishedPlaceholderClips(t *testing.T) {
	db := newTestDB(t)
	content := &stubContentAPI{
		videos: []tiktok.Video{{ID: "vid-2", CreateTime: time.Now().Unix(), ShareURL: "https://t/v2"}},
	}
	svc := service.NewSyncService(db, content, nil, service.NewEventHub(zap.NewNop()), zap.NewNop())
	admin := seedUser(t, db, model.RoleAdmin)
	exp := time.Now().Add(time.Hour)
	account := seedAccount(t, db, func(a *model.TiktokAccount) {
		a.AccessToken = strptr("tok-1")
		a.TokenExpiresAt = &exp
	})

	if _, err := svc.SyncAccountVideos(context.Background(), admin.ID, account.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	var clip model.Clip
	if err := db.Where("tiktok_video_id = ?", "vid-2").First(&clip).Error; err != nil {
		t.Fatalf("expected placeholder clip: %v", err)
	}
	if clip.Status != string(model.ClipStatusPublished) {
		t.Fatalf("expected published placeholder, got %s", clip.Status)
	}
	if clip.Title != "Untitled vid-2" {
		t.Fatalf("expected fallback title, got %q", clip.Title)
	}
	if clip.UserID != admin.ID {
		t.Fatalf("expected sync caller as owner, got %s", clip.UserID)
	}
}

func TestSyncRefreshesExpiredToken(t *testing.T) {
	db := newTestDB(t)
	content := &stubContentAPI{
		refreshed: &tiktok.Token{AccessToken: "tok-new", RefreshToken: "ref-new", ExpiresAt: time.Now().Add(time.Hour)},
	}
	svc := service.NewSyncService(db, content, nil, service.NewEventHub(zap.NewNop()), zap.NewNop())
	admin := seedUser(t, db, model.RoleAdmin)
	expired := time.Now().Add(-time.Hour)
	account := seedAccount(t, db, func(a *model.TiktokAccount) {
		a.AccessToken = strptr("tok-old")
		a.RefreshToken = strptr("ref-old")
		a.TokenExpiresAt = &expired
	})

	if _, err := svc.SyncAccountVideos(context.Background(), admin.ID, account.ID); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if content.refreshCalls != 1 {
		t.Fatalf("expected 1 refresh call, got %d", content.refreshCalls)
	}
	var reloaded model.TiktokAccount
	if err := db.Where("id = ?", account.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.AccessToken == nil || *reloaded.AccessToken != "tok-new" {
		t.Fatalf("expected refreshed token persisted, got %v", reloaded.AccessToken)
	}
}

func TestSyncTokenErrors(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewSyncService(db, &stubContentAPI{}, nil, service.NewEventHub(zap.NewNop()), zap.NewNop())
	admin := seedUser(t, db, model.RoleAdmin)

	unconnected := seedAccount(t, db, nil)
	if _, err := svc.SyncAccountVideos(context.Background(), admin.ID, unconnected.ID); !errors.Is(err, errs.ErrAccountNotConnected) {
		t.Fatalf("expected ErrAccountNotConnected, got %v", err)
	}

	expired := time.Now().Add(-time.Hour)
	noRefresh := seedAccount(t, db, func(a *model.TiktokAccount) {
		a.AccessToken = strptr("tok-old")
		a.TokenExpiresAt = &expired
	})
	if _, err := svc.SyncAccountVideos(context.Background(), admin.ID, noRefresh.ID); !errors.Is(err, errs.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSyncCloudPhonesUpserts(t *testing.T) {
	db := newTestDB(t)
	devices := &stubDeviceAPI{phones: []geelark.CloudPhone{
		{ID: "p1", SerialName: "Phone One", Status: "running"},
		{ID: "p2", SerialName: "Phone Two", Status: "stopped"},
	}}
	svc := service.NewSyncService(db, nil, devices, service.NewEventHub(zap.NewNop()), zap.NewNop())

	n, err := svc.SyncCloudPhones(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 phones, got %d", n)
	}

	devices.phones[1].Status = "running"
	if _, err := svc.SyncCloudPhones(context.Background()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	var reloaded model.CloudPhone
	if err := db.Where("id = ?", "p2").First(&reloaded).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != "running" {
		t.Fatalf("expected upserted status, got %s", reloaded.Status)
	}
	var count int64
	db.Model(&model.CloudPhone{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected 2 cached phones, got %d", count)
	}
}

func TestSyncPublishingClipsResolvesTaskOutcomes(t *testing.T) {
	db := newTestDB(t)
	devices := &stubDeviceAPI{tasks: []geelark.TaskInfo{
		{ID: "task-ok", Status: geelark.TaskStatusCompleted, ShareURL: "https://t/v/1"},
		{ID: "task-bad", Status: geelark.TaskStatusFailed, FailReason: "device offline"},
		{ID: "task-waiting", Status: geelark.TaskStatusWaiting},
	}}
	svc := service.NewSyncService(db, nil, devices, service.NewEventHub(zap.NewNop()), zap.NewNop())
	creator := seedUser(t, db, model.RoleCreator)

	done := seedClip(t, db, creator.ID, model.ClipStatusPublishing, func(c *model.Clip) {
		c.GeelarkTaskID = strptr("task-ok")
	})
	failed := seedClip(t, db, creator.ID, model.ClipStatusPublishing, func(c *model.Clip) {
		c.GeelarkTaskID = strptr("task-bad")
	})
	waiting := seedClip(t, db, creator.ID, model.ClipStatusPublishing, func(c *model.Clip) {
		c.GeelarkTaskID = strptr("task-waiting")
	})

	updated, err := svc.SyncPublishingClips(context.Background())
	if err != nil {
		t.Fatalf("sync publishing: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 updates, got %d", updated)
	}
	if got := clipStatus(t, db, done.ID); got != string(model.ClipStatusPublished) {
		t.Fatalf("completed task: expected published, got %s", got)
	}
	var reloaded model.Clip
	if err := db.Where("id = ?", done.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.TiktokVideoURL == nil || *reloaded.TiktokVideoURL != "https://t/v/1" {
		t.Fatalf("expected share url persisted, got %v", reloaded.TiktokVideoURL)
	}
	if reloaded.PublishedAt == nil {
		t.Fatal("expected published_at set")
	}
	var failedClip model.Clip
	if err := db.Where("id = ?", failed.ID).First(&failedClip).Error; err != nil {
		t.Fatalf("reload failed clip: %v", err)
	}
	if failedClip.Status != string(model.ClipStatusFailed) {
		t.Fatalf("failed task: expected failed, got %s", failedClip.Status)
	}
	if failedClip.FailReason == nil || *failedClip.FailReason != "device offline" {
		t.Fatalf("expected fail reason persisted, got %v", failedClip.FailReason)
	}
	if got := clipStatus(t, db, waiting.ID); got != string(model.ClipStatusPublishing) {
		t.Fatalf("waiting task: expected publishing, got %s", got)
	}
}

func TestSyncWithoutProviders(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewSyncService(db, nil, nil, service.NewEventHub(zap.NewNop()), zap.NewNop())
	admin := seedUser(t, db, model.RoleAdmin)

	if _, err := svc.SyncAccountVideos(context.Background(), admin.ID, "any"); !errors.Is(err, errs.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := svc.SyncCloudPhones(context.Background()); !errors.Is(err, errs.ErrAutomationNotReady) {
		t.Fatalf("expected ErrAutomationNotReady, got %v", err)
	}
	if _, err := svc.SyncPublishingClips(context.Background()); !errors.Is(err, errs.ErrAutomationNotReady) {
		t.Fatalf("expected ErrAutomationNotReady, got %v", err)
	}
}
