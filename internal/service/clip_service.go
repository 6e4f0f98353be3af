package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
)

// ClipService owns the clip lifecycle:
// draft → submitted → publishing → published, with rejected/failed terminal
// states and submitted → draft as creator withdrawal.
type ClipService struct {
	db  *gorm.DB
	hub *EventHub
}

// NewClipService creates a clip service.
func NewClipService(db *gorm.DB, hub *EventHub) *ClipService {
	return &ClipService{db: db, hub: hub}
}

// Create creates a clip in draft for the given creator.
func (s *ClipService) Create(userID string, req model.CreateClipRequest) (*model.Clip, error) {
	ent := &model.Clip{
		ID:              uuid.New().String(),
		UserID:          userID,
		Title:           req.Title,
		Description:     req.Description,
		VideoURL:        req.VideoURL,
		ThumbnailURL:    req.ThumbnailURL,
		ScheduledAt:     req.ScheduledAt,
		TiktokAccountID: req.TiktokAccountID,
		Status:          string(model.ClipStatusDraft),
	}
	if err := s.db.Create(ent).Error; err != nil {
		return nil, fmt.Errorf("create clip: %w", err)
	}
	return ent, nil
}

// Get returns a clip. Creators see only their own clips; admins see all.
func (s *ClipService) Get(callerID string, isAdmin bool, clipID string) (*model.Clip, error) {
	var ent model.Clip
	if err := s.db.Where("id = ?", clipID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrClipNotFound
		}
		return nil, err
	}
	if !isAdmin && ent.UserID != callerID {
		return nil, errs.ErrAccessDenied
	}
	return &ent, nil
}

// List returns clips, newest first, optionally filtered by status.
// Creators only ever see their own clips.
func (s *ClipService) List(callerID string, isAdmin bool, status string) ([]model.Clip, error) {
	q := s.db.Order("created_at DESC")
	if !isAdmin {
		q = q.Where("user_id = ?", callerID)
	}
	if status != "" {
		if !model.ValidClipStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", errs.ErrInvalidTransition, status)
		}
		q = q.Where("status = ?", status)
	}
	var out []model.Clip
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update updates metadata of an owned clip.
func (s *ClipService) Update(callerID, clipID string, req model.UpdateClipRequest) (*model.Clip, error) {
	ent, err := s.owned(callerID, clipID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.ScheduledAt != nil {
		updates["scheduled_at"] = *req.ScheduledAt
	}
	if req.TiktokAccountID != nil {
		updates["tiktok_account_id"] = *req.TiktokAccountID
	}
	if len(updates) == 0 {
		return ent, nil
	}
	if err := s.db.Model(ent).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update clip: %w", err)
	}
	return ent, nil
}

// Submit transitions an owned clip draft → submitted.
func (s *ClipService) Submit(callerID, clipID string) (*model.Clip, error) {
	return s.ownedTransition(callerID, clipID, model.ClipStatusDraft, model.ClipStatusSubmitted)
}

// Withdraw transitions an owned clip submitted → draft. Any other starting
// status fails without mutating state.
func (s *ClipService) Withdraw(callerID, clipID string) (*model.Clip, error) {
	return s.ownedTransition(callerID, clipID, model.ClipStatusSubmitted, model.ClipStatusDraft)
}

// Delete hard-deletes an owned clip, any status. Stats rows go with it.
func (s *ClipService) Delete(callerID, clipID string) error {
	ent, err := s.owned(callerID, clipID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clip_id = ?", ent.ID).Delete(&model.ClipStats{}).Error; err != nil {
			return err
		}
		if err := tx.Where("clip_id = ?", ent.ID).Delete(&model.CampaignClip{}).Error; err != nil {
			return err
		}
		return tx.Delete(ent).Error
	})
}

// owned is the single ownership guard: loads the clip and verifies the caller
// owns it. Every creator mutation goes through here.
func (s *ClipService) owned(callerID, clipID string) (*model.Clip, error) {
	var ent model.Clip
	if err := s.db.Where("id = ?", clipID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrClipNotFound
		}
		return nil, err
	}
	if ent.UserID != callerID {
		return nil, errs.ErrAccessDenied
	}
	return &ent, nil
}

func (s *ClipService) ownedTransition(callerID, clipID string, from, to model.ClipStatus) (*model.Clip, error) {
	ent, err := s.owned(callerID, clipID)
	if err != nil {
		return nil, err
	}
	if err := transitionStatus(s.db, clipID, from, to); err != nil {
		return nil, err
	}
	ent.Status = string(to)
	if s.hub != nil {
		s.hub.PublishClipStatus(clipID, to)
	}
	return ent, nil
}

// transitionStatus flips a clip's status with a compare-and-swap on the
// current value, so two concurrent transitions cannot both win.
func transitionStatus(db *gorm.DB, clipID string, from, to model.ClipStatus) error {
	res := db.Model(&model.Clip{}).
		Where("id = ? AND status = ?", clipID, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: expected %s", errs.ErrInvalidTransition, from)
	}
	return nil
}
