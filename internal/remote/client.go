// Package remote talks to the check-in API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/moodcheck/internal/logger"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client for baseURL. submitsPerMinute <= 0 disables
// the client-side rate limit.
func NewClient(baseURL, token string, submitsPerMinute int) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	if submitsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(submitsPerMinute)), submitsPerMinute)
	}
	return c
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SubmitMood records a check-in. The caller's context bounds the request.
func (c *Client) SubmitMood(ctx context.Context, req MoodRequest, opts CallOptions) (Ack, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return Ack{}, ErrRateLimited
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mood-checkins", bytes.NewBuffer(jsonData))
	if err != nil {
		return Ack{}, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if opts.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", opts.IdempotencyKey)
	}
	if opts.Priority != "" {
		httpReq.Header.Set("X-Request-Priority", opts.Priority)
	}
	if opts.Tag != "" {
		httpReq.Header.Set("X-Request-Tag", opts.Tag)
	}

	logger.Debug("Submitting mood check-in", "request_id", requestID, "period", req.Period)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Ack{}, newStatusError(resp, body)
	}

	var ack Ack
	if len(bytes.TrimSpace(body)) == 0 {
		return ack, nil
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return Ack{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return ack, nil
}

// Ping checks that the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func newStatusError(resp *http.Response, body []byte) *StatusError {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}

	e := &StatusError{StatusCode: resp.StatusCode, Body: text}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}
