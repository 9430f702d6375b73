package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/visara/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Strips punctuation except sentence terminators (periods kept for sentence counting)
	nonSentencePunctRegex = regexp.MustCompile(`[^\w\s.!?]`)

	// Strips all punctuation for token extraction
	allPunctRegex = regexp.MustCompile(`[^\w\s]`)

	// Sentence terminators
	sentenceEndRegex = regexp.MustCompile(`[.!?]+`)

	// Multiple spaces cleanup
	multiSpaceRegex = regexp.MustCompile(`\s+`)
)

// normalizerStopWords are low-signal words excluded from the token set.
// Expected keywords in category profiles never use these, so dropping them
// cannot cost coverage.
var normalizerStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"it": true, "as": true, "be": true, "was": true, "are": true,
	"this": true, "that": true, "its": true, "your": true, "our": true,
}

// Normalizer cleans and tokenizes raw product text into canonical form.
type Normalizer struct {
	enableDebugLogging bool
}

// NewNormalizer creates a new text normalizer
func NewNormalizer(enableDebugLogging bool) *Normalizer {
	return &Normalizer{enableDebugLogging: enableDebugLogging}
}

// Normalize concatenates title, description, and flattened specs into one
// canonical lowercase string with a deduplicated token set and sentence count.
// Deterministic for identical input; an empty product yields an empty token
// set but never fails.
func (n *Normalizer) Normalize(product domain.ProductText) domain.NormalizedText {
	full := buildFullText(product)

	lowered := strings.ToLower(full)

	canonical := nonSentencePunctRegex.ReplaceAllString(lowered, " ")
	canonical = multiSpaceRegex.ReplaceAllString(canonical, " ")
	canonical = strings.TrimSpace(canonical)

	tokens := tokenSet(lowered)
	sentences := countSentences(canonical)
	words := len(strings.Fields(allPunctRegex.ReplaceAllString(lowered, " ")))

	if n.enableDebugLogging {
		log.Printf("[NORMALIZE] %q -> %d tokens, %d sentences, %d words",
			product.Title, len(tokens), sentences, words)
	}

	return domain.NormalizedText{
		Canonical:     canonical,
		Tokens:        tokens,
		SentenceCount: sentences,
		WordCount:     words,
	}
}

// buildFullText joins title, description, and attribute:value spec pairs.
// Spec keys are walked in sorted order so the canonical text is deterministic.
func buildFullText(product domain.ProductText) string {
	parts := make([]string, 0, 2+len(product.Specs))

	if product.Title != "" {
		parts = append(parts, product.Title)
	}
	if product.Description != "" {
		parts = append(parts, product.Description)
	}

	if len(product.Specs) > 0 {
		keys := make([]string, 0, len(product.Specs))
		for k := range product.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+product.Specs[k])
		}
	}

	return strings.Join(parts, ". ")
}

// tokenSet extracts the deduplicated token set from lowercased text.
// Removes punctuation, stop words, and single-character tokens.
func tokenSet(lowered string) map[string]bool {
	cleaned := allPunctRegex.ReplaceAllString(lowered, " ")
	words := strings.Fields(cleaned)

	tokens := make(map[string]bool, len(words))
	for _, word := range words {
		if len(word) <= 1 {
			continue
		}
		if normalizerStopWords[word] {
			continue
		}
		tokens[word] = true
	}

	return tokens
}

// countSentences counts non-empty sentence segments in canonical text.
func countSentences(canonical string) int {
	segments := sentenceEndRegex.Split(canonical, -1)
	count := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg) != "" {
			count++
		}
	}
	return count
}
