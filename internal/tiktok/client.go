package tiktok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultAuthBaseURL = "https://www.tiktok.com/v2/auth/authorize/"
	defaultAPIBaseURL  = "https://open.tiktokapis.com"

	// Scopes requested during authorization.
	scopes = "user.info.basic,user.info.stats,video.list"
)

// HTTPDoer describes the HTTP client used by the TikTok client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the TikTok OAuth and Content APIs.
type Client struct {
	clientKey    string
	clientSecret string
	authBaseURL  string
	apiBaseURL   string
	httpc        HTTPDoer
	log          *zap.Logger
}

// NewClient creates a TikTok API client.
func NewClient(clientKey, clientSecret string, log *zap.Logger) *Client {
	return &Client{
		clientKey:    clientKey,
		clientSecret: clientSecret,
		authBaseURL:  defaultAuthBaseURL,
		apiBaseURL:   defaultAPIBaseURL,
		httpc:        &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

// SetHTTPClient overrides the HTTP client (for tests).
func (c *Client) SetHTTPClient(d HTTPDoer) { c.httpc = d }

// SetAPIBaseURL overrides the API base URL (for tests).
func (c *Client) SetAPIBaseURL(u string) { c.apiBaseURL = strings.TrimRight(u, "/") }

// Authorization is the PKCE authorization target: the URL the browser is sent
// to, plus the verifier the client must hold across the redirect.
type Authorization struct {
	URL          string
	State        string
	CodeVerifier string
}

// AuthorizationURL builds the PKCE authorization URL. A random state is
// generated when none is supplied.
func (c *Client) AuthorizationURL(redirectURI, state string) Authorization {
	if state == "" {
		state = uuid.New().String()
	}
	verifier := oauth2.GenerateVerifier()
	q := url.Values{}
	q.Set("client_key", c.clientKey)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", scopes)
	q.Set("state", state)
	q.Set("code_challenge", oauth2.S256ChallengeFromVerifier(verifier))
	q.Set("code_challenge_method", "S256")
	return Authorization{
		URL:          c.authBaseURL + "?" + q.Encode(),
		State:        state,
		CodeVerifier: verifier,
	}
}

// Token is the result of a code exchange or refresh.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	OpenID       string
	Scope        string
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	OpenID           string `json:"open_id"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ExchangeCode swaps an authorization code (plus PKCE verifier) for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI, codeVerifier string) (*Token, error) {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", redirectURI)
	form.Set("code_verifier", codeVerifier)
	return c.tokenRequest(ctx, form)
}

// RefreshAccessToken swaps a refresh token for a new token pair.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.tokenRequest(ctx, form)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*Token, error) {
	var out tokenResponse
	if err := c.postForm(ctx, "/v2/oauth/token/", form, &out); err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("tiktok oauth: %s: %s", out.Error, out.ErrorDescription)
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("tiktok oauth: empty access token")
	}
	return &Token{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
		OpenID:       out.OpenID,
		Scope:        out.Scope,
	}, nil
}

// RevokeToken invalidates an access token.
func (c *Client) RevokeToken(ctx context.Context, accessToken string) error {
	form := url.Values{}
	form.Set("client_key", c.clientKey)
	form.Set("client_secret", c.clientSecret)
	form.Set("token", accessToken)
	var out struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := c.postForm(ctx, "/v2/oauth/revoke/", form, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("tiktok revoke: %s: %s", out.Error, out.ErrorDescription)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tiktok %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response (%d): %w", path, resp.StatusCode, err)
	}
	return nil
}
