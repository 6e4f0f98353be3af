package geelark

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTPDoer describes the HTTP client used by the GeeLark client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the GeeLark open API (cloud phones, proxies, automation tasks).
type Client struct {
	baseURL string
	appID   string
	apiKey  string
	httpc   HTTPDoer
	log     *zap.Logger

	now func() time.Time // injectable for tests
}

// NewClient creates a GeeLark API client.
func NewClient(baseURL, appID, apiKey string, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		appID:   appID,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		log:     log,
		now:     time.Now,
	}
}

// SetHTTPClient overrides the HTTP client (for tests).
func (c *Client) SetHTTPClient(d HTTPDoer) { c.httpc = d }

// envelope is the uniform GeeLark response wrapper. Code 0 means success.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// APIError is a non-zero GeeLark response code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geelark api error %d: %s", e.Code, e.Msg)
}

// do posts a signed JSON request and decodes the data envelope into out.
func (c *Client) do(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	c.sign(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("geelark %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("geelark %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	return nil
}

// sign sets the GeeLark auth headers:
// sign = uppercase SHA256(appId + traceId + ts + nonce + apiKey).
func (c *Client) sign(req *http.Request) {
	traceID := uuid.New().String()
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	nonce := traceID[:6]
	sum := sha256.Sum256([]byte(c.appID + traceID + ts + nonce + c.apiKey))
	req.Header.Set("appId", c.appID)
	req.Header.Set("traceId", traceID)
	req.Header.Set("ts", ts)
	req.Header.Set("nonce", nonce)
	req.Header.Set("sign", strings.ToUpper(hex.EncodeToString(sum[:])))
}
