package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProfileNotFound is returned when no category profile exists for a product's category
	ErrProfileNotFound = errors.New("category profile not found")

	// ErrServiceUnavailable is returned when an external provider is unreachable or timed out
	ErrServiceUnavailable = errors.New("provider service unavailable")

	// ErrRateLimited is returned when a provider signals backpressure
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrInvalidResponse is returned when a provider returns unusable output
	ErrInvalidResponse = errors.New("provider returned invalid response")

	// ErrCacheMiss is returned when an embedding is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
