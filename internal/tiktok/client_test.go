package tiktok

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("client-key", "client-secret", zap.NewNop())
	c.SetAPIBaseURL(srv.URL)
	return c
}

func TestAuthorizationURLCarriesPKCEChallenge(t *testing.T) {
	c := NewClient("client-key", "client-secret", zap.NewNop())

	auth := c.AuthorizationURL("https://app.test/callback", "my-state")
	u, err := url.Parse(auth.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	q := u.Query()
	if q.Get("client_key") != "client-key" {
		t.Fatalf("missing client_key: %s", auth.URL)
	}
	if q.Get("state") != "my-state" || auth.State != "my-state" {
		t.Fatalf("state not carried: %s", auth.URL)
	}
	if q.Get("code_challenge_method") != "S256" {
		t.Fatalf("expected S256 challenge: %s", auth.URL)
	}
	if auth.CodeVerifier == "" {
		t.Fatal("expected a code verifier")
	}
	if want := oauth2.S256ChallengeFromVerifier(auth.CodeVerifier); q.Get("code_challenge") != want {
		t.Fatalf("challenge does not match verifier")
	}

	// Empty state gets a random one.
	auth2 := c.AuthorizationURL("https://app.test/callback", "")
	if auth2.State == "" {
		t.Fatal("expected generated state")
	}
	if auth2.CodeVerifier == auth.CodeVerifier {
		t.Fatal("verifier must be fresh per authorization")
	}
}

func TestExchangeCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/oauth/token/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "authorization_code" {
			t.Errorf("unexpected grant_type %s", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("code_verifier") != "verifier-1" {
			t.Errorf("missing code_verifier")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "tok-1",
			"refresh_token": "ref-1",
			"expires_in":    86400,
			"open_id":       "open-1",
			"scope":         "user.info.basic",
		})
	})

	tok, err := c.ExchangeCode(context.Background(), "code-1", "https://app.test/callback", "verifier-1")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tok.AccessToken != "tok-1" || tok.OpenID != "open-1" {
		t.Fatalf("unexpected token: %+v", tok)
	}
	if until := time.Until(tok.ExpiresAt); until < 23*time.Hour {
		t.Fatalf("unexpected expiry: %v", tok.ExpiresAt)
	}
}

func TestTokenErrorEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_grant",
			"error_description": "Authorization code is expired.",
		})
	})
	if _, err := c.ExchangeCode(context.Background(), "stale", "https://app.test/cb", "v"); err == nil {
		t.Fatal("expected oauth error")
	} else if !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("expected error code in message, got %v", err)
	}
}

func TestGetVideoListParsesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v2/video/list/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Errorf("unexpected auth header %q", auth)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"videos": []map[string]any{
					{"id": "v1", "title": "First", "view_count": 100, "like_count": 7},
				},
				"cursor":   1700000000,
				"has_more": true,
			},
			"error": map[string]any{"code": "ok"},
		})
	})

	page, err := c.GetVideoList(context.Background(), "tok-1", 0, 20)
	if err != nil {
		t.Fatalf("video list: %v", err)
	}
	if len(page.Videos) != 1 || page.Videos[0].ID != "v1" || page.Videos[0].ViewCount != 100 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if !page.HasMore || page.Cursor != 1700000000 {
		t.Fatalf("pagination fields lost: %+v", page)
	}
}

func TestGetUserInfoErrorCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": "access_token_invalid", "message": "The access token is invalid."},
		})
	})
	if _, err := c.GetUserInfo(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for non-ok code")
	}
}

func TestRevokeToken(t *testing.T) {
	var form url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/oauth/revoke/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = r.ParseForm()
		form = r.PostForm
		_, _ = w.Write([]byte("{}"))
	})
	if err := c.RevokeToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if form.Get("token") != "tok-1" || form.Get("client_key") != "client-key" {
		t.Fatalf("unexpected form: %v", form)
	}
}
