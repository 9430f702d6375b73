package domain

import "context"

// EmbeddingProvider turns text into a fixed-length vector via an external model.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Model() string
}

// RewriteProvider generates an improved product description from the current
// text, its weaknesses, and the category context.
type RewriteProvider interface {
	Rewrite(ctx context.Context, product ProductText, report WeaknessReport, profile *CategoryProfile) (string, error)
}

// VectorCache memoizes embedding vectors keyed by (model, canonical text).
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float64, error)
	Set(ctx context.Context, key string, vector []float64) error
}

// ProfileRepository resolves category profiles loaded at process start.
type ProfileRepository interface {
	Profile(category string) (*CategoryProfile, error)
	Categories() []string
}
