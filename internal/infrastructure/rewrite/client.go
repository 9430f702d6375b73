package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/visara/backend/internal/domain"
)

// maxAttempts bounds retries on transient provider failures
const maxAttempts = 3

// systemPrompt frames the rewriting model as a listing copywriter
const systemPrompt = "You are an expert e-commerce copywriter. Rewrite product " +
	"descriptions so they surface well in AI-driven search and answer engines. " +
	"Respond with the rewritten description only, no conversational filler."

// Client handles communication with the generative rewriting provider
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new rewriting provider client
func NewClient(apiKey, baseURL, model string, temperature float64) *Client {
	// Generation endpoints are slower and stricter than embedding ones
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// chatRequest is the provider wire format for a completion call
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the provider wire format for a completion result
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Rewrite asks the provider for an improved description given the current
// text, its weaknesses, and the category context. Transient failures are
// retried with exponential backoff; empty or malformed output is
// ErrInvalidResponse and is not retried.
func (c *Client) Rewrite(
	ctx context.Context,
	product domain.ProductText,
	report domain.WeaknessReport,
	profile *domain.CategoryProfile,
) (string, error) {
	prompt := buildPrompt(product, report, profile)

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		rewritten, err := c.doRewrite(ctx, payload)
		if err == nil {
			return rewritten, nil
		}

		if !isRetryable(err) {
			return "", err
		}

		if c.debug {
			log.Printf("[REWRITE] attempt %d failed: %v", attempt, err)
		}
		lastErr = err

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, ctx.Err())
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return "", lastErr
}

// doRewrite executes a single completion request
func (c *Client) doRewrite(ctx context.Context, payload []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "Visara/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", domain.ErrServiceUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d, body: %s", domain.ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrInvalidResponse)
	}

	rewritten := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if rewritten == "" {
		return "", fmt.Errorf("%w: empty rewrite", domain.ErrInvalidResponse)
	}

	return rewritten, nil
}

// buildPrompt assembles the rewriting instruction from the current text, the
// weakness report, and the category context.
func buildPrompt(product domain.ProductText, report domain.WeaknessReport, profile *domain.CategoryProfile) string {
	var b strings.Builder

	b.WriteString("Rewrite the description of this product listing to maximize its visibility to AI search engines.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", product.Title)
	fmt.Fprintf(&b, "Category: %s\n", product.Category)
	if product.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", product.Brand)
	}
	fmt.Fprintf(&b, "Current description: %s\n", product.Description)

	if len(report.MissingSpecs) > 0 {
		fmt.Fprintf(&b, "\nMissing specifications to cover: %s\n", strings.Join(report.MissingSpecs, ", "))
	}
	if len(report.MissingKeywords) > 0 {
		fmt.Fprintf(&b, "Missing keywords to include naturally: %s\n", strings.Join(report.MissingKeywords, ", "))
	}
	if len(report.Suggestions) > 0 {
		b.WriteString("\nAddress each of these issues:\n")
		for _, s := range report.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	if profile != nil && len(profile.ExpectedKeywords) > 0 {
		fmt.Fprintf(&b, "\nShoppers searching this category use terms such as: %s\n",
			strings.Join(profile.ExpectedKeywords, ", "))
	}

	b.WriteString("\nKeep every factual detail from the current description. Do not invent specifications.")

	return b.String()
}

// isRetryable reports whether a provider error is transient
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrServiceUnavailable) || errors.Is(err, domain.ErrRateLimited)
}

// exponentialBackoff returns the wait duration before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
