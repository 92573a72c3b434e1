package client

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

	"github.com/google/uuid"

	"github.com/leetplan/plansync/internal/models"
)

// ErrMalformedResponse is returned when a 2xx body does not have the expected shape
var ErrMalformedResponse = errors.New("malformed response")

// APIError is returned for non-2xx responses
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// Client is a Go SDK for the study plan API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout. Zero means requests never time out.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new study plan API client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CurrentDay fetches the bootstrap information
func (c *Client) CurrentDay(ctx context.Context) (*models.CurrentDay, error) {
	var result models.CurrentDay
	if err := c.getJSON(ctx, "/api/current-day", &result); err != nil {
		return nil, err
	}
	if !models.ValidDay(result.CurrentDay) || result.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: current-day response %+v", ErrMalformedResponse, result)
	}
	return &result, nil
}

// Plan fetches the plan of one day
func (c *Client) Plan(ctx context.Context, day int) (*models.DayPlan, error) {
	var plan models.DayPlan
	if err := c.getJSON(ctx, fmt.Sprintf("/api/plan/%d", day), &plan); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &plan, nil
}

// SetProgress records a completion. A nil isCorrect clears it (undo).
func (c *Client) SetProgress(ctx context.Context, questionID int, isCorrect *bool) error {
	return c.postJSON(ctx, "/api/progress", models.ProgressRequest{
		QuestionID: questionID,
		IsCorrect:  isCorrect,
	})
}

// Defer moves a question to the deferred set
func (c *Client) Defer(ctx context.Context, questionID int) error {
	return c.postJSON(ctx, "/api/defer", models.QuestionRef{QuestionID: questionID})
}

// Undefer removes a question from the deferred set
func (c *Client) Undefer(ctx context.Context, questionID int) error {
	return c.postJSON(ctx, "/api/undefer", models.QuestionRef{QuestionID: questionID})
}

// SaveNote persists a note. An empty note removes it.
func (c *Client) SaveNote(ctx context.Context, questionID int, note string) error {
	return c.postJSON(ctx, fmt.Sprintf("/api/note/%d", questionID), models.NoteRequest{Note: note})
}

// Note fetches the note of a question
func (c *Client) Note(ctx context.Context, questionID int) (string, error) {
	var result models.NoteRequest
	if err := c.getJSON(ctx, fmt.Sprintf("/api/note/%d", questionID), &result); err != nil {
		return "", err
	}
	return result.Note, nil
}

// Statistics fetches global statistics
func (c *Client) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	if err := c.getJSON(ctx, "/api/statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Review fetches the questions due for review
func (c *Client) Review(ctx context.Context) ([]models.ReviewEntry, error) {
	var entries []models.ReviewEntry
	if err := c.getList(ctx, "/api/review", &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: review entry %d: %w", ErrMalformedResponse, i, err)
		}
	}
	return entries, nil
}

// Deferred fetches the deferred questions
func (c *Client) Deferred(ctx context.Context) ([]models.DeferredEntry, error) {
	var entries []models.DeferredEntry
	if err := c.getList(ctx, "/api/deferred", &entries); err != nil {
		return nil, err
	}
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: deferred entry %d: %w", ErrMalformedResponse, i, err)
		}
	}
	return entries, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, path, err)
	}
	return nil
}

// getList decodes a response that must be a JSON array
func (c *Client) getList(ctx context.Context, path string, out interface{}) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(resp, &raw); err != nil {
		return fmt.Errorf("%w: %s: expected a list: %w", ErrMalformedResponse, path, err)
	}
	if err := json.Unmarshal(resp, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	return err
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}
