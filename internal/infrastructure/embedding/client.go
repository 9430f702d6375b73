package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/visara/backend/internal/domain"
)

// maxAttempts bounds retries on transient provider failures
const maxAttempts = 3

// Client handles communication with the embedding provider API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new embedding provider client
func NewClient(apiKey, baseURL, model string) *Client {
	// Typical hosted embedding tiers allow ~3000 requests per minute;
	// 50 req/sec with a small burst stays well inside that.
	limiter := rate.NewLimiter(rate.Limit(50), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Model returns the model identifier used for embedding requests.
// Cache keys include it so a model change never reuses stale vectors.
func (c *Client) Model() string {
	return c.model
}

// embedRequest is the provider wire format for an embedding call
type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// embedResponse is the provider wire format for an embedding result
type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed turns text into a fixed-length vector via the provider.
// Retries transient failures (network errors, 5xx, 429) with exponential
// backoff; a malformed response is ErrInvalidResponse and is not retried.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(embedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		vector, err := c.doEmbed(ctx, payload)
		if err == nil {
			return vector, nil
		}

		// Only transient conditions are worth retrying
		if !isRetryable(err) {
			return nil, err
		}

		if c.debug {
			log.Printf("[EMBED] attempt %d failed: %v", attempt, err)
		}
		lastErr = err

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, ctx.Err())
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// doEmbed executes a single embedding request
func (c *Client) doEmbed(ctx context.Context, payload []byte) ([]float64, error) {
	endpoint := fmt.Sprintf("%s/v1/embeddings", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "Visara/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	if len(embedResp.Data) == 0 || len(embedResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", domain.ErrInvalidResponse)
	}

	return embedResp.Data[0].Embedding, nil
}

// exponentialBackoff returns the wait duration before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
