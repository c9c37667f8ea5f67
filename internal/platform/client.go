package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joulepoint/fleet-console/internal/credentials"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4096

	loginPath   = "/api/users/login_with_password/"
	refreshPath = "/api/users/refresh_token/"
)

// Client issues authenticated JSON requests against the fleet platform.
// A 401/403 response triggers exactly one token refresh and replay; a
// failed refresh clears stored credentials and yields *AuthError.
type Client struct {
	baseURL    string
	creds      credentials.Store
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, creds credentials.Store, logger *slog.Logger) *Client {
	return NewClientWithHTTPClient(baseURL, creds, logger, &http.Client{Timeout: defaultTimeout})
}

func NewClientWithHTTPClient(baseURL string, creds credentials.Store, logger *slog.Logger, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do sends one JSON request and returns the raw response body.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	raw, status, err := c.send(ctx, method, path, payload, true)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if isAuthPath(path) {
			return nil, &HTTPError{Status: status, Body: raw}
		}
		return c.refreshAndReplay(ctx, method, path, payload)
	}
	if status >= 400 {
		return nil, &HTTPError{Status: status, Body: raw}
	}
	return raw, nil
}

func (c *Client) refreshAndReplay(ctx context.Context, method, path string, payload []byte) (json.RawMessage, error) {
	tokens, err := c.creds.Get(ctx)
	if err != nil || tokens.Refresh == "" {
		_ = c.creds.Clear(ctx)
		return nil, &AuthError{Err: errors.New("no refresh token")}
	}

	refreshBody, _ := json.Marshal(map[string]string{"refresh": tokens.Refresh})
	raw, status, err := c.send(ctx, http.MethodPost, refreshPath, refreshBody, false)
	if err != nil || status >= 400 {
		_ = c.creds.Clear(ctx)
		if err == nil {
			err = &HTTPError{Status: status, Body: raw}
		}
		return nil, &AuthError{Err: err}
	}

	var refreshed struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(raw, &refreshed); err != nil || refreshed.Access == "" {
		_ = c.creds.Clear(ctx)
		return nil, &AuthError{Err: errors.New("refresh response missing access token")}
	}
	tokens.Access = refreshed.Access
	if err := c.creds.Set(ctx, tokens); err != nil {
		c.logger.Warn("failed to persist refreshed token", "err", err)
	}

	raw, status, err = c.send(ctx, method, path, payload, true)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		// No second refresh attempt: one retry per original request.
		return nil, &HTTPError{Status: status, Body: raw}
	}
	return raw, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte, withAuth bool) (json.RawMessage, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if withAuth {
		if tokens, err := c.creds.Get(ctx); err == nil && tokens.Access != "" {
			req.Header.Set("Authorization", "Bearer "+tokens.Access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	limit := io.Reader(resp.Body)
	if resp.StatusCode >= 400 {
		limit = io.LimitReader(resp.Body, maxErrorBody)
	}
	raw, err := io.ReadAll(limit)
	if err != nil {
		return nil, 0, &NetworkError{Err: err}
	}
	return raw, resp.StatusCode, nil
}

func isAuthPath(path string) bool {
	return path == loginPath || path == refreshPath
}

// UnwrapList normalizes list payloads: the platform returns either a bare
// array or an envelope {results: [...], count: N}.
func UnwrapList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	if envelope.Results == nil {
		envelope.Results = []T{}
	}
	return envelope.Results, nil
}
