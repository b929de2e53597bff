// Package client talks to the AkademIQ backend over HTTP. Every operation is a
// single request: build the JSON (or multipart) body, attach the bearer token,
// and decode the JSON reply. Non-2xx replies become *APIError carrying the
// backend's "detail" message or a per-operation fallback.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNoDocument is returned before any request is made when an operation
	// needs a document identifier and none was supplied.
	ErrNoDocument = errors.New("no document selected")
	// ErrNotAuthenticated is returned when an operation requires a token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// maxErrorBody bounds how much of a failed response we read looking for detail.
const maxErrorBody = 64 << 10

// APIError is a non-success HTTP response reduced to one display message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Message returns the human-readable text for err, the same way for backend
// rejections, missing identifiers and network failures.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrNoDocument):
		return "Please upload a document first!"
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first."
	}
	return err.Error()
}

type authMode int

const (
	authOptional authMode = iota
	authRequired
	authNone
)

// Client is safe to share between goroutines as long as SetToken is not
// called concurrently with requests.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	verbose bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying *http.Client (tests use httptest's).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithVerbose logs every request with its status and latency.
func WithVerbose(v bool) Option {
	return func(c *Client) { c.verbose = v }
}

// New constructs a Client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token; an empty string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health pings GET /health.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, authNone, "health check failed", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("backend reported status %q", out.Status)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, mode authMode, fallback string, out interface{}) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, reader, contentType, mode)
	if err != nil {
		return err
	}
	resp, err := c.send(req, fallback)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string, mode authMode) (*http.Request, error) {
	if mode == authRequired && c.token == "" {
		return nil, ErrNotAuthenticated
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if mode != authNone && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send executes req and converts non-2xx replies into *APIError. On success
// the caller owns resp.Body.
func (c *Client) send(req *http.Request, fallback string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.verbose {
			log.Printf("%s %s failed after %s: %v", req.Method, req.URL.Path, time.Since(start), err)
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if c.verbose {
		log.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Message: detailOr(body, fallback)}
	}
	return resp, nil
}

// detailOr extracts a string "detail" field from a JSON error body. FastAPI
// validation errors carry a list there instead; those fall back.
func detailOr(body []byte, fallback string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return fallback
	}
	return detail
}

func docPath(docID string, parts ...string) (string, error) {
	if strings.TrimSpace(docID) == "" {
		return "", ErrNoDocument
	}
	return "/documents/" + url.PathEscape(docID) + strings.Join(parts, ""), nil
}
