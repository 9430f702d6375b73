package domain

// ProductText represents a product listing as submitted for analysis.
// Immutable input; never mutated after creation.
type ProductText struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
}

// NormalizedText is the canonical form of a ProductText used by all sub-scorers.
// Recomputed per scoring call; cache keys use Canonical only, never product identity.
type NormalizedText struct {
	Canonical     string
	Tokens        map[string]bool
	SentenceCount int
	WordCount     int
}

// HasToken reports whether a normalized token is present.
func (n NormalizedText) HasToken(token string) bool {
	return n.Tokens[token]
}
