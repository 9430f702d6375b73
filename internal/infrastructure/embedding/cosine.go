package embedding

import (
	"errors"
	"math"

	"github.com/visara/backend/internal/domain"
)

// Cosine computes the cosine similarity between two vectors, in [-1,1].
// Mismatched dimensions or a zero vector yield 0, since no angle is defined.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// isRetryable reports whether a provider error is transient. Invalid requests
// and malformed responses are never retried.
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrServiceUnavailable) || errors.Is(err, domain.ErrRateLimited)
}
