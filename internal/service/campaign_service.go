package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
)

// CampaignService groups clips for reporting.
type CampaignService struct {
	db *gorm.DB
}

// NewCampaignService creates a campaign service.
func NewCampaignService(db *gorm.DB) *CampaignService {
	return &CampaignService{db: db}
}

// Create creates an active campaign.
func (s *CampaignService) Create(req model.CreateCampaignRequest) (*model.Campaign, error) {
	ent := &model.Campaign{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Status: "active",
	}
	if err := s.db.Create(ent).Error; err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return ent, nil
}

// Get returns a campaign with its clip joins.
func (s *CampaignService) Get(campaignID string) (*model.Campaign, error) {
	var ent model.Campaign
	if err := s.db.Preload("Clips").Where("id = ?", campaignID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCampaignNotFound
		}
		return nil, err
	}
	return &ent, nil
}

// List returns all campaigns, newest first.
func (s *CampaignService) List() ([]model.Campaign, error) {
	var out []model.Campaign
	err := s.db.Preload("Clips").Order("created_at DESC").Find(&out).Error
	return out, err
}

// Update updates name/status.
func (s *CampaignService) Update(campaignID string, req model.UpdateCampaignRequest) (*model.Campaign, error) {
	ent, err := s.Get(campaignID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.db.Model(ent).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update campaign: %w", err)
		}
	}
	return s.Get(campaignID)
}

// Delete removes a campaign and its clip joins. Clips themselves are untouched.
func (s *CampaignService) Delete(campaignID string) error {
	if _, err := s.Get(campaignID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", campaignID).Delete(&model.CampaignClip{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", campaignID).Delete(&model.Campaign{}).Error
	})
}

// AddClips adds clips to a campaign (idempotent per clip).
func (s *CampaignService) AddClips(campaignID string, clipIDs []string) error {
	if _, err := s.Get(campaignID); err != nil {
		return err
	}
	var count int64
	if err := s.db.Model(&model.Clip{}).Where("id IN ?", clipIDs).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(clipIDs) {
		return errs.ErrClipNotFound
	}
	for _, clipID := range clipIDs {
		row := model.CampaignClip{CampaignID: campaignID, ClipID: clipID}
		if err := s.db.
			Where("campaign_id = ? AND clip_id = ?", campaignID, clipID).
			Attrs(model.CampaignClip{ID: uuid.New().String()}).
			FirstOrCreate(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// RemoveClip removes one clip from a campaign.
func (s *CampaignService) RemoveClip(campaignID, clipID string) error {
	return s.db.Where("campaign_id = ? AND clip_id = ?", campaignID, clipID).
		Delete(&model.CampaignClip{}).Error
}

// Report aggregates campaign clip counts and latest metrics in SQL.
func (s *CampaignService) Report(campaignID string) (*model.CampaignReport, error) {
	ent, err := s.Get(campaignID)
	if err != nil {
		return nil, err
	}
	report := &model.CampaignReport{CampaignID: ent.ID, Name: ent.Name}
	err = s.db.Raw(
		"SELECT COUNT(DISTINCT c.id) AS clips, "+
			"COUNT(DISTINCT CASE WHEN c.status = ? THEN c.id END) AS published, "+
			"COALESCE(SUM(cs.views), 0) AS views, COALESCE(SUM(cs.likes), 0) AS likes "+
			"FROM campaign_clips cc "+
			"JOIN clips c ON c.id = cc.clip_id "+
			"LEFT JOIN ("+latestStatsSubquery+") latest ON latest.clip_id = c.id "+
			"LEFT JOIN clip_stats cs ON cs.clip_id = latest.clip_id AND cs.recorded_at = latest.recorded_at "+
			"WHERE cc.campaign_id = ?",
		string(model.ClipStatusPublished), campaignID,
	).Scan(report).Error
	if err != nil {
		return nil, err
	}
	return report, nil
}
