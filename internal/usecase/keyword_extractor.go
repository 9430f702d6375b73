package usecase

import (
	"sort"
	"strings"

	"github.com/visara/backend/internal/domain"
)

// KeywordExtractor measures how much of a category's expected vocabulary a
// product's token set covers.
type KeywordExtractor struct{}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Coverage returns |tokens ∩ expected| / |expected| × 100 and the sorted list
// of expected keywords not found. Matching is case-insensitive with
// plural/singular stemming (see stemToken). An empty expected-keyword set is
// vacuously complete and scores exactly 100.
func (e *KeywordExtractor) Coverage(norm domain.NormalizedText, profile *domain.CategoryProfile) (float64, []string) {
	if profile == nil || len(profile.ExpectedKeywords) == 0 {
		return 100, nil
	}

	stemmed := make(map[string]bool, len(norm.Tokens))
	for token := range norm.Tokens {
		stemmed[stemToken(token)] = true
	}

	found := 0
	var missing []string
	for _, keyword := range profile.ExpectedKeywords {
		if keywordPresent(keyword, stemmed) {
			found++
		} else {
			missing = append(missing, keyword)
		}
	}

	sort.Strings(missing)

	score := float64(found) / float64(len(profile.ExpectedKeywords)) * 100
	return clampScore(score), missing
}

// keywordPresent checks a single expected keyword against the stemmed token
// set. Multi-word keywords match when every constituent word is present.
func keywordPresent(keyword string, stemmed map[string]bool) bool {
	words := strings.Fields(strings.ToLower(keyword))
	if len(words) == 0 {
		return true
	}
	for _, word := range words {
		if !stemmed[stemToken(word)] {
			return false
		}
	}
	return true
}

// stemToken applies the documented plural/singular normalization rule, a
// plain S-stemmer: for tokens longer than 3 characters, "ies" becomes "y",
// "es" is stripped after sibilants (s, x, z, ch, sh), and a trailing "s"
// (but never "ss") is stripped otherwise. Deterministic by construction.
func stemToken(token string) string {
	if len(token) <= 3 {
		return token
	}
	if strings.HasSuffix(token, "ies") && len(token) > 4 {
		return token[:len(token)-3] + "y"
	}
	if strings.HasSuffix(token, "es") && len(token) > 4 {
		stem := token[:len(token)-2]
		if strings.HasSuffix(stem, "s") || strings.HasSuffix(stem, "x") ||
			strings.HasSuffix(stem, "z") || strings.HasSuffix(stem, "ch") ||
			strings.HasSuffix(stem, "sh") {
			return stem
		}
	}
	if strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") {
		return token[:len(token)-1]
	}
	return token
}

// clampScore caps a score to the [0,100] range
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
