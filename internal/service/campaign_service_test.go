package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

func TestCampaignAddClipsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewCampaignService(db)
	creator := seedUser(t, db, model.RoleCreator)
	clip := seedClip(t, db, creator.ID, model.ClipStatusDraft, nil)

	campaign, err := svc.Create(model.CreateCampaignRequest{Name: "Launch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if campaign.Status != "active" {
		t.Fatalf("expected active campaign, got %s", campaign.Status)
	}

	if err := svc.AddClips(campaign.ID, []string{clip.ID}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.AddClips(campaign.ID, []string{clip.ID}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	var rows int64
	db.Model(&model.CampaignClip{}).Where("campaign_id = ?", campaign.ID).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected 1 join row, got %d", rows)
	}

	if err := svc.AddClips(campaign.ID, []string{"ghost"}); !errors.Is(err, errs.ErrClipNotFound) {
		t.Fatalf("unknown clip: expected ErrClipNotFound, got %v", err)
	}
}

func TestCampaignReportAggregatesLatestStats(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewCampaignService(db)
	creator := seedUser(t, db, model.RoleCreator)
	published := seedClip(t, db, creator.ID, model.ClipStatusPublished, nil)
	draft := seedClip(t, db, creator.ID, model.ClipStatusDraft, nil)

	campaign, err := svc.Create(model.CreateCampaignRequest{Name: "Launch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AddClips(campaign.ID, []string{published.ID, draft.ID}); err != nil {
		t.Fatalf("add: %v", err)
	}

	old := time.Now().Add(-time.Hour)
	now := time.Now()
	mustCreate(t, db, &model.ClipStats{ID: "s1", ClipID: published.ID, RecordedAt: old, Views: 50, Likes: 1})
	mustCreate(t, db, &model.ClipStats{ID: "s2", ClipID: published.ID, RecordedAt: now, Views: 300, Likes: 20})

	report, err := svc.Report(campaign.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Clips != 2 || report.Published != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	// Only the newest snapshot counts toward totals.
	if report.Views != 300 || report.Likes != 20 {
		t.Fatalf("expected latest-snapshot totals, got %+v", report)
	}
}

func TestCampaignDeleteRemovesJoinRows(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewCampaignService(db)
	creator := seedUser(t, db, model.RoleCreator)
	clip := seedClip(t, db, creator.ID, model.ClipStatusDraft, nil)

	campaign, err := svc.Create(model.CreateCampaignRequest{Name: "Launch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AddClips(campaign.ID, []string{clip.ID}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(campaign.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var rows int64
	db.Model(&model.CampaignClip{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected join rows removed, got %d", rows)
	}
	if _, err := svc.Get(campaign.ID); !errors.Is(err, errs.ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}
