// Package api provides the HTTP client for the Roost backend. It owns the
// wire protocol: record CRUD, authentication, and file URL construction.
// Callers never inspect response codes; failures carry the server's
// human-readable message via APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CollectionUsers is the backend collection holding user records.
const CollectionUsers = "users"

// TokenStore persists the session token across invocations. The client
// writes it on every successful authentication; clearing it is the
// authentication controller's responsibility via ClearSession.
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// Client is the Roost API client.
type Client struct {
	baseURL    string
	token      string
	tokens     TokenStore
	httpClient *http.Client
	log        *slog.Logger
}

// Options holds configuration for creating a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenStore // optional; in-memory only when nil
	Logger  *slog.Logger
}

// New creates a Roost API client. Any token previously persisted in the
// token store is loaded so the session survives process restarts.
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		tokens:  opts.Tokens,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log: opts.Logger.With("component", "api"),
	}

	if c.tokens != nil {
		token, err := c.tokens.LoadToken(ctx)
		if err == nil {
			c.token = token
		}
	}

	return c, nil
}

// Token returns the currently held session token, or empty when
// unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// setToken updates the in-memory token and persists it.
func (c *Client) setToken(ctx context.Context, token string) {
	c.token = token
	if c.tokens == nil {
		return
	}
	if err := c.tokens.SaveToken(ctx, token); err != nil {
		c.log.Warn("failed to persist session token", "error", err)
	}
}

// ClearSession drops the in-memory token and removes the persisted copy.
// It is best-effort and never fails.
func (c *Client) ClearSession(ctx context.Context) {
	c.token = ""
	if c.tokens == nil {
		return
	}
	if err := c.tokens.ClearToken(ctx); err != nil {
		c.log.Warn("failed to clear persisted session token", "error", err)
	}
}

// RequestOptions describes a single API request.
type RequestOptions struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// APIError represents an error response from the API.
type APIError struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Normalize maps a remote failure to the error surfaced to callers: the
// server-supplied message when one exists, otherwise the fixed fallback.
func Normalize(err error, fallback string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr
	}
	return errors.New(fallback)
}

// Do performs an HTTP request against the Roost API.
func (c *Client) Do(ctx context.Context, opts RequestOptions) (*http.Response, error) {
	reqURL, err := url.Parse(c.baseURL + opts.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if opts.Query != nil {
		reqURL.RawQuery = opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "roost-cli/1.0")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// DoJSON performs a request and decodes the JSON response into result.
// Responses with status >= 400 are returned as *APIError.
func (c *Client) DoJSON(ctx context.Context, opts RequestOptions, result any) error {
	resp, err := c.Do(ctx, opts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(respBody, &apiErr); err != nil {
			return &APIError{
				Status:     "error",
				Message:    strings.TrimSpace(string(respBody)),
				StatusCode: resp.StatusCode,
			}
		}
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
