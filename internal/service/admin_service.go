package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/geelark"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/observability/metrics"
)

// publishDelay is how far in the future a publish task is scheduled when the
// clip has no usable scheduled time.
const publishDelay = 60 * time.Second

// TaskPublisher schedules publish tasks on the automation provider.
type TaskPublisher interface {
	CreatePublishVideoTask(ctx context.Context, p geelark.PublishVideoParams) (string, error)
}

// AdminService owns review actions (approve/reject) and read-side rollups.
type AdminService struct {
	db        *gorm.DB
	publisher TaskPublisher // nil when the provider is not configured
	hub       *EventHub
	log       *zap.Logger

	now func() time.Time
}

// NewAdminService creates an admin service.
func NewAdminService(db *gorm.DB, publisher TaskPublisher, hub *EventHub, log *zap.Logger) *AdminService {
	return &AdminService{db: db, publisher: publisher, hub: hub, log: log, now: time.Now}
}

// Approve validates a submitted clip, schedules the publish task on its
// account's cloud phone, and moves the clip to publishing.
//
// The status flip is a compare-and-swap on status=submitted, so a concurrent
// approve loses the race instead of creating a second task. A failed provider
// call reverts the clip to submitted; the admin re-approves manually.
func (s *AdminService) Approve(ctx context.Context, clipID string, req model.ApproveClipRequest) (*model.Clip, error) {
	if s.publisher == nil {
		return nil, errs.ErrAutomationNotReady
	}
	var ent model.Clip
	if err := s.db.Where("id = ?", clipID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrClipNotFound
		}
		return nil, err
	}
	if ent.Status != string(model.ClipStatusSubmitted) {
		return nil, fmt.Errorf("%w: clip is %s", errs.ErrInvalidTransition, ent.Status)
	}
	if ent.TiktokAccountID == nil {
		return nil, errs.ErrNoAccountLinked
	}
	var account model.TiktokAccount
	if err := s.db.Where("id = ?", *ent.TiktokAccountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, errs.ErrAccountInactive
	}
	if account.CloudPhoneID == nil {
		return nil, errs.ErrNoLinkedDevice
	}

	title := ent.Title
	if req.Title != nil && *req.Title != "" {
		title = *req.Title
	}
	caption := ""
	if ent.Description != nil {
		caption = *ent.Description
	}
	if req.Description != nil {
		caption = *req.Description
	}
	publishAt := s.now().Add(publishDelay)
	if ent.ScheduledAt != nil && ent.ScheduledAt.After(s.now()) {
		publishAt = *ent.ScheduledAt
	}

	// Claim the clip before calling out: only one approver wins the CAS.
	// Metadata is written only after the task exists, so a failed provider
	// call leaves the clip exactly as it was submitted.
	res := s.db.Model(&model.Clip{}).
		Where("id = ? AND status = ?", clipID, string(model.ClipStatusSubmitted)).
		Update("status", string(model.ClipStatusPublishing))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: clip is no longer submitted", errs.ErrInvalidTransition)
	}

	taskID, err := s.publisher.CreatePublishVideoTask(ctx, geelark.PublishVideoParams{
		EnvID:      *account.CloudPhoneID,
		Video:      ent.VideoURL,
		ScheduleAt: publishAt,
		VideoDesc:  caption,
		PlanName:   title,
	})
	if err != nil {
		metrics.PublishTasksTotal.WithLabelValues("error").Inc()
		if revertErr := transitionStatus(s.db, clipID, model.ClipStatusPublishing, model.ClipStatusSubmitted); revertErr != nil {
			s.log.Error("approve: revert to submitted failed",
				zap.String("clip_id", clipID), zap.Error(revertErr))
		}
		return nil, fmt.Errorf("create publish task: %w", err)
	}
	metrics.PublishTasksTotal.WithLabelValues("ok").Inc()

	updates := map[string]any{
		"title":           title,
		"geelark_task_id": taskID,
		"scheduled_at":    publishAt,
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if err := s.db.Model(&model.Clip{}).Where("id = ?", clipID).Updates(updates).Error; err != nil {
		// Task exists; losing its id only blocks automatic status sync.
		s.log.Error("approve: persisting task id failed",
			zap.String("clip_id", clipID), zap.String("task_id", taskID), zap.Error(err))
	}
	s.log.Info("clip approved",
		zap.String("clip_id", clipID),
		zap.String("task_id", taskID),
		zap.Time("publish_at", publishAt))
	if s.hub != nil {
		s.hub.PublishClipStatus(clipID, model.ClipStatusPublishing)
	}

	ent.Status = string(model.ClipStatusPublishing)
	ent.Title = title
	if req.Description != nil {
		ent.Description = req.Description
	}
	ent.GeelarkTaskID = &taskID
	ent.ScheduledAt = &publishAt
	return &ent, nil
}

// Reject transitions a submitted clip to rejected. No provider call.
func (s *AdminService) Reject(clipID, reason string) error {
	if err := transitionStatus(s.db, clipID, model.ClipStatusSubmitted, model.ClipStatusRejected); err != nil {
		var ent model.Clip
		if lookupErr := s.db.Select("id").Where("id = ?", clipID).First(&ent).Error; errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return errs.ErrClipNotFound
		}
		return err
	}
	s.log.Info("clip rejected", zap.String("clip_id", clipID), zap.String("reason", reason))
	if s.hub != nil {
		s.hub.PublishClipStatus(clipID, model.ClipStatusRejected)
	}
	return nil
}

// PendingClips returns the admin review queue, oldest submission first.
func (s *AdminService) PendingClips() ([]model.Clip, error) {
	var out []model.Clip
	err := s.db.Where("status = ?", string(model.ClipStatusSubmitted)).
		Order("updated_at ASC").Find(&out).Error
	return out, err
}

// Dashboard returns aggregate totals for the admin dashboard.
func (s *AdminService) Dashboard() (*model.DashboardStats, error) {
	var d model.DashboardStats
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&d.Creators, s.db.Model(&model.User{}).Where("role = ?", model.RoleCreator)},
		{&d.Clips, s.db.Model(&model.Clip{})},
		{&d.PendingClips, s.db.Model(&model.Clip{}).Where("status = ?", string(model.ClipStatusSubmitted))},
		{&d.PublishedClips, s.db.Model(&model.Clip{}).Where("status = ?", string(model.ClipStatusPublished))},
		{&d.ActiveCampaigns, s.db.Model(&model.Campaign{}).Where("status = ?", "active")},
		{&d.ActiveAccounts, s.db.Model(&model.TiktokAccount{}).Where("is_active = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.Raw(
		"SELECT COALESCE(SUM(cs.views), 0) FROM clip_stats cs JOIN (" + latestStatsSubquery + ") latest " +
			"ON cs.clip_id = latest.clip_id AND cs.recorded_at = latest.recorded_at",
	).Scan(&d.TotalViews).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// latestStatsSubquery selects the newest recorded_at per clip; stats are
// append-only, so "current" is always a derived read.
const latestStatsSubquery = "SELECT clip_id, MAX(recorded_at) AS recorded_at FROM clip_stats GROUP BY clip_id"

// LatestStats returns the current snapshot per clip, resolved in SQL rather
// than by scanning the whole stats table in memory.
func (s *AdminService) LatestStats() (map[string]model.ClipMetric, error) {
	var rows []struct {
		ClipID     string
		RecordedAt time.Time
		Views      int64
		Likes      int64
		Comments   int64
		Shares     int64
	}
	err := s.db.Raw(
		"SELECT cs.clip_id, cs.recorded_at, cs.views, cs.likes, cs.comments, cs.shares " +
			"FROM clip_stats cs JOIN (" + latestStatsSubquery + ") latest " +
			"ON cs.clip_id = latest.clip_id AND cs.recorded_at = latest.recorded_at",
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.ClipMetric, len(rows))
	for _, r := range rows {
		out[r.ClipID] = model.ClipMetric{
			RecordedAt: r.RecordedAt,
			Views:      r.Views,
			Likes:      r.Likes,
			Comments:   r.Comments,
			Shares:     r.Shares,
		}
	}
	return out, nil
}

// TopClips returns the highest-viewed clips by their latest snapshot.
func (s *AdminService) TopClips(limit int) ([]model.TopClip, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []model.TopClip
	err := s.db.Raw(
		"SELECT c.id AS clip_id, c.title, c.user_id, cs.views, cs.likes, cs.recorded_at "+
			"FROM clips c "+
			"JOIN ("+latestStatsSubquery+") latest ON latest.clip_id = c.id "+
			"JOIN clip_stats cs ON cs.clip_id = latest.clip_id AND cs.recorded_at = latest.recorded_at "+
			"ORDER BY cs.views DESC LIMIT ?", limit,
	).Scan(&out).Error
	return out, err
}

// TopCreators returns creators ranked by summed latest views of their clips.
func (s *AdminService) TopCreators(limit int) ([]model.TopCreator, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []model.TopCreator
	err := s.db.Raw(
		"SELECT u.id AS user_id, u.name, COUNT(DISTINCT c.id) AS clips, COALESCE(SUM(cs.views), 0) AS views "+
			"FROM users u "+
			"JOIN clips c ON c.user_id = u.id "+
			"LEFT JOIN ("+latestStatsSubquery+") latest ON latest.clip_id = c.id "+
			"LEFT JOIN clip_stats cs ON cs.clip_id = latest.clip_id AND cs.recorded_at = latest.recorded_at "+
			"WHERE u.role = ? GROUP BY u.id, u.name ORDER BY views DESC LIMIT ?",
		model.RoleCreator, limit,
	).Scan(&out).Error
	return out, err
}
