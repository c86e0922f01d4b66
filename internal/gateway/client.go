// Package gateway is the HTTP client for the detection and recommendation
// endpoints. Both calls are single-shot: a transport or envelope failure is
// reported once to the caller, never retried.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

// ── Wire types ───────────────────────────────────────────────────

type detectRequest struct {
	ImageData string `json:"imageData"`
}

type recommendRequest struct {
	Ingredients []string `json:"ingredients"`
}

type recommendResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Recipes []domain.Recipe `json:"recipes"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// WithDetectLimit overrides the detect-call limiter. The default allows one
// call per second with no burst, which keeps a rapid double-trigger (two
// drops landing at once) from racing two detections.
func WithDetectLimit(l *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// Client talks to the recipe backend.
type Client struct {
	detectURL    string
	recommendURL string
	http         *http.Client
	limiter      *rate.Limiter
	log          *logger.Logger
}

// Compile-time interface check.
var _ domain.RecipeService = (*Client)(nil)

// NewClient creates a backend client.
func NewClient(detectURL, recommendURL string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		detectURL:    detectURL,
		recommendURL: recommendURL,
		http:         &http.Client{Timeout: 30 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(1), 1),
		log:          log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Detect submits an image data URL and returns the parsed detections.
func (c *Client) Detect(ctx context.Context, imageDataURL string) (*domain.DetectionResult, error) {
	if imageDataURL == "" {
		return nil, domain.ErrNoImage
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("gateway: detect limiter: %w", err)
	}

	var result domain.DetectionResult
	if err := c.postJSON(ctx, c.detectURL, detectRequest{ImageData: imageDataURL}, &result); err != nil {
		return nil, fmt.Errorf("gateway: detect: %w", err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "detection failed"
		}
		return nil, fmt.Errorf("gateway: detect: %s", result.Error)
	}

	c.log.Debug("gateway: detected %d ingredients, %d boxes",
		len(result.DetectedIngredients), len(result.BoundingBoxes))
	return &result, nil
}

// Recommend submits the basket and returns recipes the user can actually
// start on: anything with a zero match percent is dropped client-side.
// An empty basket short-circuits without touching the network.
func (c *Client) Recommend(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, nil
	}

	var resp recommendResponse
	if err := c.postJSON(ctx, c.recommendURL, recommendRequest{Ingredients: ingredients}, &resp); err != nil {
		return nil, fmt.Errorf("gateway: recommend: %w", err)
	}
	if !resp.Success {
		if resp.Error == "" {
			resp.Error = "recommend failed"
		}
		return nil, fmt.Errorf("gateway: recommend: %s", resp.Error)
	}

	recipes := resp.Recipes[:0]
	for _, r := range resp.Recipes {
		if r.MatchPercent != nil && *r.MatchPercent > 0 {
			recipes = append(recipes, r)
		}
	}

	c.log.Debug("gateway: %d recipes kept of %d returned", len(recipes), len(resp.Recipes))
	return recipes, nil
}

// postJSON marshals body, POSTs it, and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.Debug("gateway: POST %s (%d bytes)", url, len(jsonData))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Error envelopes ride on non-200 statuses too; prefer the message in
	// the body when it parses.
	if err := json.Unmarshal(respBody, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API %s", resp.Status)
		}
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
