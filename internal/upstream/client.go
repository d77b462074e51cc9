package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is used when BACKEND_BASE_URL is unset.
const DefaultBaseURL = "https://api.topshir.uz"

// Client is the single choke point for REST calls to the marketplace backend.
// Authenticated calls go through do, which attaches the bearer token and runs
// the one-shot refresh-and-retry policy on 401. Auth endpoints use doAuth and
// are exempt from that policy.
type Client struct {
	baseURL string
	httpc   *http.Client
	jar     *TokenJar
	log     *zap.Logger

	// refreshGroup collapses concurrent refresh attempts: a burst of 401s from
	// overlapping requests still produces exactly one refresh call.
	refreshGroup singleflight.Group
}

// New returns a Client for baseURL using jar for the token cookies.
func New(baseURL string, jar *TokenJar, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		jar:     jar,
		log:     log,
	}
}

// Jar exposes the token jar so the session layer can inspect and clear tokens.
func (c *Client) Jar() *TokenJar { return c.jar }

// do issues an authenticated request. On a 401 it makes exactly one refresh
// attempt (when a refresh token exists) and replays the original request once
// with the new access token. An unrecoverable 401 clears both token cookies and
// returns ErrSessionExpired. Network and non-401 errors pass through unmodified.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	err := c.send(ctx, method, path, query, body, out, true)
	if StatusOf(err) != http.StatusUnauthorized {
		return err
	}

	if c.jar.Refresh() == "" {
		c.log.Warn("access token rejected and no refresh token present", zap.String("path", path))
		c.jar.Clear()
		return ErrSessionExpired
	}

	if err := c.refreshTokens(ctx); err != nil {
		c.log.Warn("token refresh failed, dropping session", zap.String("path", path), zap.Error(err))
		c.jar.Clear()
		return ErrSessionExpired
	}

	// One replay only; its outcome is final.
	return c.send(ctx, method, path, query, body, out, true)
}

// doAuth issues a request outside the refresh/redirect policy; 4xx responses
// surface directly so login and registration forms can render them inline.
func (c *Client) doAuth(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, nil, body, out, false)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// refreshTokens exchanges the refresh token for a new pair and persists it.
func (c *Client) refreshTokens(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		payload := map[string]string{"refresh_token": c.jar.Refresh()}
		var res tokenResponse
		if err := c.send(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, payload, &res, false); err != nil {
			return nil, err
		}
		c.jar.SetPair(res.AccessToken, res.RefreshToken)
		c.log.Info("token pair rotated")
		return nil, nil
	})
	return err
}

// send performs a single HTTP round trip and decodes the JSON response into
// out. Non-2xx responses become *HTTPError with the raw body preserved.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, bearer bool) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer {
		if token := c.jar.Access(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var raw bytes.Buffer
		_, _ = raw.ReadFrom(io.LimitReader(resp.Body, 8<<10))
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(raw.String())}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
