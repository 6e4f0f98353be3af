package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/tiktok"
)

// TokenRevoker revokes platform access tokens (best-effort on disconnect).
type TokenRevoker interface {
	RevokeToken(ctx context.Context, accessToken string) error
}

// AccountService manages TikTok accounts and their user links.
type AccountService struct {
	db      *gorm.DB
	revoker TokenRevoker // nil when the platform API is not configured
	log     *zap.Logger
}

// NewAccountService creates an account service.
func NewAccountService(db *gorm.DB, revoker TokenRevoker, log *zap.Logger) *AccountService {
	return &AccountService{db: db, revoker: revoker, log: log}
}

// Create creates a manually-entered account (no tokens yet).
func (s *AccountService) Create(req model.CreateAccountRequest) (*model.TiktokAccount, error) {
	ent := &model.TiktokAccount{
		ID:           uuid.New().String(),
		DisplayName:  req.DisplayName,
		Username:     req.Username,
		CloudPhoneID: req.CloudPhoneID,
		IsActive:     true,
	}
	if err := s.db.Create(ent).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return ent, nil
}

// Get returns an account by id.
func (s *AccountService) Get(accountID string) (*model.TiktokAccount, error) {
	var ent model.TiktokAccount
	if err := s.db.Where("id = ?", accountID).First(&ent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAccountNotFound
		}
		return nil, err
	}
	return &ent, nil
}

// List returns all accounts, newest first.
func (s *AccountService) List() ([]model.TiktokAccount, error) {
	var out []model.TiktokAccount
	err := s.db.Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListForUser returns accounts linked to the given user.
func (s *AccountService) ListForUser(userID string) ([]model.TiktokAccount, error) {
	var out []model.TiktokAccount
	err := s.db.
		Joins("JOIN user_tiktok_accounts uta ON uta.tiktok_account_id = tiktok_accounts.id").
		Where("uta.user_id = ?", userID).
		Order("tiktok_accounts.created_at DESC").
		Find(&out).Error
	return out, err
}

// Update updates account fields.
func (s *AccountService) Update(accountID string, req model.UpdateAccountRequest) (*model.TiktokAccount, error) {
	ent, err := s.Get(accountID)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Username != nil {
		updates["username"] = *req.Username
	}
	if req.CloudPhoneID != nil {
		updates["cloud_phone_id"] = *req.CloudPhoneID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return ent, nil
	}
	if err := s.db.Model(ent).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return s.Get(accountID)
}

// Delete removes an account and its links.
func (s *AccountService) Delete(accountID string) error {
	if _, err := s.Get(accountID); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tiktok_account_id = ?", accountID).Delete(&model.UserTiktokAccount{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", accountID).Delete(&model.TiktokAccount{}).Error
	})
}

// Link links a user to an account (idempotent).
func (s *AccountService) Link(userID, accountID string) error {
	if _, err := s.Get(accountID); err != nil {
		return err
	}
	link := model.UserTiktokAccount{UserID: userID, TiktokAccountID: accountID}
	return s.db.
		Where("user_id = ? AND tiktok_account_id = ?", userID, accountID).
		Attrs(model.UserTiktokAccount{ID: uuid.New().String()}).
		FirstOrCreate(&link).Error
}

// Disconnect removes the user's link to the account. When the last link goes,
// the platform token is revoked (best-effort), tokens are cleared and the
// account is deactivated.
func (s *AccountService) Disconnect(ctx context.Context, userID, accountID string) error {
	ent, err := s.Get(accountID)
	if err != nil {
		return err
	}
	res := s.db.Where("user_id = ? AND tiktok_account_id = ?", userID, accountID).
		Delete(&model.UserTiktokAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrAccountNotLinked
	}

	var remaining int64
	if err := s.db.Model(&model.UserTiktokAccount{}).
		Where("tiktok_account_id = ?", accountID).Count(&remaining).Error; err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	// Last link gone: revoke upstream, then clear local tokens regardless.
	if s.revoker != nil && ent.AccessToken != nil {
		if err := s.revoker.RevokeToken(ctx, *ent.AccessToken); err != nil {
			s.log.Warn("disconnect: token revoke failed, clearing local tokens anyway",
				zap.String("account_id", accountID), zap.Error(err))
		}
	}
	return s.db.Model(&model.TiktokAccount{}).Where("id = ?", accountID).Updates(map[string]any{
		"access_token":     nil,
		"refresh_token":    nil,
		"token_expires_at": nil,
		"is_active":        false,
	}).Error
}

// UpsertFromOAuth materializes an account from a successful OAuth exchange.
// Lookup order: provider user id, then username (to upgrade a manually-created
// account without duplicating it), then insert.
func (s *AccountService) UpsertFromOAuth(tok *tiktok.Token, info *tiktok.UserInfo) (*model.TiktokAccount, error) {
	username := tok.OpenID
	displayName := tok.OpenID
	if info != nil {
		if info.Username != "" {
			username = info.Username
		}
		if info.DisplayName != "" {
			displayName = info.DisplayName
		}
	}

	var ent model.TiktokAccount
	err := s.db.Where("tiktok_user_id = ?", tok.OpenID).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.db.Where("username = ? AND tiktok_user_id IS NULL", username).First(&ent).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ent = model.TiktokAccount{
			ID:          uuid.New().String(),
			DisplayName: displayName,
			Username:    username,
		}
		if err := s.db.Create(&ent).Error; err != nil {
			return nil, fmt.Errorf("create account from oauth: %w", err)
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"tiktok_user_id":   tok.OpenID,
		"access_token":     tok.AccessToken,
		"refresh_token":    tok.RefreshToken,
		"token_expires_at": tok.ExpiresAt,
		"is_active":        true,
	}
	if info != nil {
		updates["display_name"] = displayName
		updates["username"] = username
		if info.FollowerCount > 0 {
			updates["follower_count"] = info.FollowerCount
		}
	}
	if err := s.db.Model(&ent).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update account from oauth: %w", err)
	}
	return s.Get(ent.ID)
}
