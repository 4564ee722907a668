package tui

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"clustertop/internal/api"
)

const (
	connectTimeout = 5 * time.Second
	requestTimeout = 10 * time.Second
)

// Client performs the HTTP calls against the cluster-management API.
// It is owned by the Worker goroutine and must not be shared: the bearer
// token is plain mutable state guarded only by that ownership.
type Client struct {
	httpc   *http.Client
	baseURL string
	token   string
}

// NewClient builds a client for the given base URL. Trailing slashes are
// stripped so URL joins and token-store keys agree. Certificate verification
// is disabled: clusters are routinely deployed with self-signed certs.
func NewClient(baseURL string) *Client {
	return &Client{
		httpc: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext:     (&net.Dialer{Timeout: connectTimeout}).DialContext,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken adopts a bearer token for all subsequent requests.
// An empty token removes the Authorization header.
func (c *Client) SetToken(token string) { c.token = token }

// getJSON performs an authenticated GET and decodes the response body.
// what names the operation in error messages ("cluster info", "tiers", ...).
func (c *Client) getJSON(path, what string, out any) error {
	url := c.baseURL + path
	slog.Debug("api request", "method", "GET", "url", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		slog.Debug("api request failed", "url", url, "error", err)
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("api error", "url", url, "status", resp.Status, "body", string(body))
		return fmt.Errorf("failed to get %s: %s - %s", what, resp.Status, body)
	}

	slog.Debug("api response", "url", url, "status", resp.Status, "body", string(body))
	if err := json.Unmarshal(body, out); err != nil {
		slog.Debug("api parse error", "url", url, "error", err)
		return fmt.Errorf("failed to parse %s: %w", what, err)
	}
	return nil
}

// GetConfig fetches the UI config (whether auth is enabled).
func (c *Client) GetConfig() (api.UIConfig, error) {
	var cfg api.UIConfig
	err := c.getJSON("/api/v1/config", "config", &cfg)
	return cfg, err
}

// Login exchanges credentials for session tokens. On success the auth token
// is adopted immediately so the next request is already authenticated.
func (c *Client) Login(username, password string) (api.TokenResponse, error) {
	url := c.baseURL + "/api/v1/session"
	slog.Debug("api request", "method", "POST", "url", url, "user", username)

	payload, err := json.Marshal(api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("login failed: %w", err)
	}

	resp, err := c.httpc.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		slog.Debug("api request failed", "url", url, "error", err)
		return api.TokenResponse{}, fmt.Errorf("login failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return api.TokenResponse{}, fmt.Errorf("login failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("api error", "url", url, "status", resp.Status, "body", string(body))
		var apiErr api.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return api.TokenResponse{}, errors.New(apiErr.ErrorMessage)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return api.TokenResponse{}, errors.New("Invalid username or password")
		}
		return api.TokenResponse{}, fmt.Errorf("login failed: %s - %s", resp.Status, body)
	}

	slog.Debug("api response", "url", url, "status", resp.Status, "body", "(tokens received)")
	var tokens api.TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		slog.Debug("api parse error", "url", url, "error", err)
		return api.TokenResponse{}, fmt.Errorf("failed to parse tokens: %w", err)
	}
	c.token = tokens.Auth
	return tokens, nil
}

// GetClusterInfo fetches the aggregate cluster snapshot.
func (c *Client) GetClusterInfo() (api.ClusterInfo, error) {
	var info api.ClusterInfo
	err := c.getJSON("/api/v1/cluster", "cluster info", &info)
	return info, err
}

// GetTiers fetches the full tier/replicaset/instance topology.
func (c *Client) GetTiers() ([]api.TierInfo, error) {
	var tiers []api.TierInfo
	err := c.getJSON("/api/v1/tiers", "tiers", &tiers)
	return tiers, err
}
