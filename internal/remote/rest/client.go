// Package rest implements the remote service interfaces over its HTTP/JSON
// surface (base path /api).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/shopfront/internal/errs"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the service base including the /api prefix,
	// e.g. "https://localhost:7279/api".
	BaseURL string
	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client carries the shared HTTP plumbing for the typed clients.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New creates a client for the given base URL.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    httpc,
		log:     log,
	}, nil
}

// apiError is the optional body shape of non-success responses.
type apiError struct {
	Message string `json:"message"`
}

// do sends a JSON request and decodes a success response into out (when
// out is non-nil). Error mapping: transport failure or an undecodable
// success body wrap ErrNetwork, 401/403 wrap ErrUnauthorized, any other
// non-2xx wraps ErrValidation carrying the server message when present.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", errs.ErrUnauthorized, serverMessage(resp))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: %s", errs.ErrValidation, serverMessage(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", errs.ErrNetwork, err)
		}
	}
	return nil
}

// serverMessage extracts the optional human-readable message from an
// error body, falling back to the HTTP status line.
func serverMessage(resp *http.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var e apiError
		if json.Unmarshal(b, &e) == nil && e.Message != "" {
			return e.Message
		}
	}
	return resp.Status
}
