package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foodwagen/internal/model"

	"github.com/google/uuid"
)

// DefaultBaseURL is the hosted mock API the app was built against.
const DefaultBaseURL = "https://6852821e0594059b23cdd834.mockapi.io"

const (
	foodResource   = "Food"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 200
)

// Client talks to the upstream Food collection.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new upstream API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the collection host the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// List fetches every food in the collection.
func (c *Client) List(ctx context.Context) ([]model.Food, error) {
	var raws []RawRecord
	if err := c.do(ctx, http.MethodGet, c.collectionURL(), nil, &raws); err != nil {
		return nil, err
	}
	return NormalizeAll(raws), nil
}

// Create posts a new food and returns the stored record.
func (c *Client) Create(ctx context.Context, draft model.FoodDraft) (model.Food, error) {
	var raw RawRecord
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), DenormalizeDraft(draft), &raw); err != nil {
		return model.Food{}, err
	}
	return Normalize(raw), nil
}

// Update puts the patch to an existing food and returns the stored record.
func (c *Client) Update(ctx context.Context, id string, patch model.FoodPatch) (model.Food, error) {
	var raw RawRecord
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), DenormalizePatch(patch), &raw); err != nil {
		return model.Food{}, err
	}
	return Normalize(raw), nil
}

// Delete removes a food. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return fmt.Sprintf("%s/%s", c.baseURL, foodResource)
}

func (c *Client) itemURL(id string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, foodResource, url.PathEscape(id))
}

func (c *Client) do(ctx context.Context, method, reqURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("JSON encode error: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upstream request failed",
			"method", method,
			"url", reqURL,
			"request_id", requestID,
			"error", err,
		)
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("upstream request",
		"method", method,
		"url", reqURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			Method:     method,
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSON decode error: %w", err)
	}
	return nil
}

// errorMessage extracts a readable message from an error body: a JSON
// object's "message", a JSON string, or the raw text.
func errorMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}

	text := string(trimmed)
	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return ""
	}
	runes := []rune(text)
	if len(runes) > maxErrorBody {
		return string(runes[:maxErrorBody])
	}
	return text
}
