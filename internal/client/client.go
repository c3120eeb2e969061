// Package client consumes the document API over HTTP. The terminal
// browser drives it, and it satisfies the viewer's DocumentSource so a
// remote server plugs in wherever a local service would.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/models"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8080".
	BaseURL string

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration
}

// Client talks to a sowilo server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Ping checks whether the server is reachable and healthy.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: server returned %d", resp.StatusCode)
	}
	return nil
}

// Tree fetches the document tree.
func (c *Client) Tree(ctx context.Context) ([]*models.TreeNode, error) {
	var tree []*models.TreeNode
	if err := c.getJSON(ctx, "/api/docs", &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Document fetches one document by its tree path.
func (c *Client) Document(ctx context.Context, path string) (*models.DocumentPayload, error) {
	var doc models.DocumentPayload
	if err := c.getJSON(ctx, "/api/docs/"+escapePath(path), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// apiError maps API status codes onto the shared sentinels so callers can
// dispatch with errors.Is regardless of whether documents come from disk
// or over the wire.
func apiError(resp *http.Response) error {
	msg := errorMessage(resp)
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", apperr.ErrInvalidPath, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperr.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	default:
		return fmt.Errorf("client: server returned %d: %s", resp.StatusCode, msg)
	}
}

func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(resp.StatusCode)
}

// escapePath escapes each segment of a slash-separated document path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
