package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/errs"
	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/tiktok"
)

// OAuthAPI is the slice of the TikTok client the OAuth flow needs.
type OAuthAPI interface {
	AuthorizationURL(redirectURI, state string) tiktok.Authorization
	ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (*tiktok.Token, error)
	GetUserInfo(ctx context.Context, accessToken string) (*tiktok.UserInfo, error)
}

// OAuthService drives the PKCE account-linking flow.
type OAuthService struct {
	api         OAuthAPI // nil when TikTok credentials are absent
	accounts    *AccountService
	redirectURI string
	log         *zap.Logger
}

// NewOAuthService creates an OAuth service.
func NewOAuthService(api OAuthAPI, accounts *AccountService, redirectURI string, log *zap.Logger) *OAuthService {
	return &OAuthService{api: api, accounts: accounts, redirectURI: redirectURI, log: log}
}

// Configured reports whether the OAuth flow can be offered.
func (s *OAuthService) Configured() bool { return s.api != nil }

// AuthorizationURL returns the provider authorization URL plus the PKCE
// verifier the client must persist across the redirect.
func (s *OAuthService) AuthorizationURL(state string) (*model.AuthorizeURLResponse, error) {
	if s.api == nil {
		return nil, errs.ErrNotConfigured
	}
	auth := s.api.AuthorizationURL(s.redirectURI, state)
	return &model.AuthorizeURLResponse{
		URL:          auth.URL,
		State:        auth.State,
		CodeVerifier: auth.CodeVerifier,
	}, nil
}

// Exchange swaps the authorization code for tokens, upserts the account keyed
// by provider user id and links it to the calling user.
//
// The profile fetch after the exchange is best-effort: a failure still yields
// a linked account, just without display name/follower enrichment.
func (s *OAuthService) Exchange(ctx context.Context, callerID string, req model.ExchangeCodeRequest) (*model.TiktokAccount, error) {
	if s.api == nil {
		return nil, errs.ErrNotConfigured
	}
	tok, err := s.api.ExchangeCode(ctx, req.Code, req.RedirectURI, req.CodeVerifier)
	if err != nil {
		return nil, err
	}
	info, err := s.api.GetUserInfo(ctx, tok.AccessToken)
	if err != nil {
		s.log.Warn("oauth exchange: user info fetch failed", zap.Error(err))
		info = nil
	}
	account, err := s.accounts.UpsertFromOAuth(tok, info)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Link(callerID, account.ID); err != nil {
		return nil, err
	}
	s.log.Info("tiktok account connected",
		zap.String("account_id", account.ID), zap.String("user_id", callerID))
	return account, nil
}
