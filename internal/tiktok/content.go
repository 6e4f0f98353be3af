package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// apiError is the TikTok v2 error envelope. Code "ok" means success.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) ok() bool { return e.Code == "" || e.Code == "ok" }

// UserInfo is the connected account's profile.
type UserInfo struct {
	OpenID        string `json:"open_id"`
	UnionID       string `json:"union_id"`
	DisplayName   string `json:"display_name"`
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	FollowerCount int64  `json:"follower_count"`
}

// GetUserInfo fetches profile info for the token's account.
func (c *Client) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	fields := "open_id,union_id,display_name,username,avatar_url,follower_count"
	var out struct {
		Data struct {
			User UserInfo `json:"user"`
		} `json:"data"`
		Error apiError `json:"error"`
	}
	path := "/v2/user/info/?fields=" + url.QueryEscape(fields)
	if err := c.get(ctx, path, accessToken, &out); err != nil {
		return nil, err
	}
	if !out.Error.ok() {
		return nil, fmt.Errorf("tiktok user info: %s: %s", out.Error.Code, out.Error.Message)
	}
	return &out.Data.User, nil
}

// Video is one TikTok video with its current counters.
type Video struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	CreateTime    int64  `json:"create_time"`
	CoverImageURL string `json:"cover_image_url"`
	ShareURL      string `json:"share_url"`
	ViewCount     int64  `json:"view_count"`
	LikeCount     int64  `json:"like_count"`
	CommentCount  int64  `json:"comment_count"`
	ShareCount    int64  `json:"share_count"`
}

const videoFields = "id,title,create_time,cover_image_url,share_url,view_count,like_count,comment_count,share_count"

// VideoPage is one page of the account's video list.
type VideoPage struct {
	Videos  []Video
	Cursor  int64
	HasMore bool
}

// GetVideoList fetches one page of the account's videos.
func (c *Client) GetVideoList(ctx context.Context, accessToken string, cursor int64, maxCount int) (*VideoPage, error) {
	if maxCount <= 0 || maxCount > 20 {
		maxCount = 20
	}
	body := map[string]any{"max_count": maxCount}
	if cursor > 0 {
		body["cursor"] = cursor
	}
	var out struct {
		Data struct {
			Videos  []Video `json:"videos"`
			Cursor  int64   `json:"cursor"`
			HasMore bool    `json:"has_more"`
		} `json:"data"`
		Error apiError `json:"error"`
	}
	path := "/v2/video/list/?fields=" + url.QueryEscape(videoFields)
	if err := c.postJSON(ctx, path, accessToken, body, &out); err != nil {
		return nil, err
	}
	if !out.Error.ok() {
		return nil, fmt.Errorf("tiktok video list: %s: %s", out.Error.Code, out.Error.Message)
	}
	return &VideoPage{Videos: out.Data.Videos, Cursor: out.Data.Cursor, HasMore: out.Data.HasMore}, nil
}

// QueryVideos fetches current counters for specific video ids.
func (c *Client) QueryVideos(ctx context.Context, accessToken string, ids []string) ([]Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body := map[string]any{"filters": map[string][]string{"video_ids": ids}}
	var out struct {
		Data struct {
			Videos []Video `json:"videos"`
		} `json:"data"`
		Error apiError `json:"error"`
	}
	path := "/v2/video/query/?fields=" + url.QueryEscape(videoFields)
	if err := c.postJSON(ctx, path, accessToken, body, &out); err != nil {
		return nil, err
	}
	if !out.Error.ok() {
		return nil, fmt.Errorf("tiktok video query: %s: %s", out.Error.Code, out.Error.Message)
	}
	return out.Data.Videos, nil
}

func (c *Client) get(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return c.send(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, path, accessToken string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
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
