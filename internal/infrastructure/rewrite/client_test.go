package rewrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visara/backend/internal/domain"
)

func sampleProduct() domain.ProductText {
	return domain.ProductText{
		Title:       "Noise cancelling headphones",
		Description: "Good headphones for music",
		Category:    "Headphones",
		Brand:       "Acme",
	}
}

func sampleReport() domain.WeaknessReport {
	return domain.WeaknessReport{
		MissingSpecs:    []string{"battery life", "warranty"},
		MissingKeywords: []string{"bluetooth", "wireless"},
		Suggestions:     []string{"Add specifications and technical details"},
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-key", "https://api.example.com", "rewrite-model", 0.7)

	assert.NotNil(t, client)
	assert.Equal(t, "test-key", client.apiKey)
	assert.Equal(t, "rewrite-model", client.model)
	assert.Equal(t, 0.7, client.temperature)
	assert.NotNil(t, client.rateLimiter)
}

func TestRewrite_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rewrite-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Improved description.  "}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, "rewrite-model", 0.7)

	out, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Improved description.", out, "output must be trimmed")
}

func TestRewrite_PromptCarriesWeaknessesAndContext(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Messages[1].Content
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "m", 0.5)
	profile := &domain.CategoryProfile{
		Category:         "Headphones",
		ExpectedKeywords: []string{"noise cancelling", "battery"},
	}

	_, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), profile)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Good headphones for music")
	assert.Contains(t, prompt, "battery life")
	assert.Contains(t, prompt, "bluetooth")
	assert.Contains(t, prompt, "Add specifications and technical details")
	assert.Contains(t, prompt, "noise cancelling")
	assert.Contains(t, prompt, "Do not invent specifications")
}

func TestRewrite_EmptyOutputIsInvalid(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "m", 0.5)

	_, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts), "malformed output must not be retried")
}

func TestRewrite_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "m", 0.5)

	_, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidResponse)
}

func TestRewrite_RetriesOnServiceUnavailable(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "m", 0.5)

	out, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestRewrite_RateLimitedExhaustsRetries(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("k", server.URL, "m", 0.5)

	_, err := client.Rewrite(context.Background(), sampleProduct(), sampleReport(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestBuildPrompt_OmitsEmptySections(t *testing.T) {
	prompt := buildPrompt(domain.ProductText{
		Title:       "Plain product",
		Description: "Short text",
		Category:    "Misc",
	}, domain.WeaknessReport{}, nil)

	assert.NotContains(t, prompt, "Missing specifications")
	assert.NotContains(t, prompt, "Missing keywords")
	assert.NotContains(t, prompt, "Brand:")
	assert.True(t, strings.Contains(prompt, "Plain product"))
}
