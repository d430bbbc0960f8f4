// Package scorer provides the HTTP client for the external heading
// classification model. The engine treats it as an optional capability:
// an unconfigured or failing scorer degrades to heuristics-only output.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jthorne/pdfoutline/internal/outline"
)

// Client calls the classification service. It implements outline.Scorer
// and is safe for concurrent use.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	stats      *Stats
}

// NewClient creates a scorer client. timeout bounds every request.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats: NewStats(time.Hour),
	}
}

type classifyRequest struct {
	Text     string           `json:"text"`
	Features outline.Features `json:"features"`
}

type classifyResponse struct {
	Scores outline.Scores `json:"scores"`
	Error  string         `json:"error,omitempty"`
}

// Classify sends one block to the model and returns per-class
// probabilities.
func (c *Client) Classify(ctx context.Context, text string, f outline.Features) (outline.Scores, error) {
	body, err := json.Marshal(classifyRequest{Text: text, Features: f})
	if err != nil {
		return outline.Scores{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return outline.Scores{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return outline.Scores{}, fmt.Errorf("scorer request: %w", err)
	}
	defer resp.Body.Close()
	c.stats.Record(time.Since(start).Milliseconds())

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return outline.Scores{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return outline.Scores{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return outline.Scores{}, fmt.Errorf("scorer status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp classifyResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return outline.Scores{}, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != "" {
		return outline.Scores{}, fmt.Errorf("scorer error: %s", apiResp.Error)
	}
	return apiResp.Scores, nil
}

// StatsSnapshot returns latency aggregates for the diagnostics endpoint.
func (c *Client) StatsSnapshot() StatsSnapshot {
	return c.stats.Snapshot()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient scorer failure: rate limiting or
// a server-side error. It satisfies outline.TransientError.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable scorer error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Transient marks the error for a single engine-side retry.
func (e *RetryableError) Transient() bool { return true }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
