package usecase

import (
	"sort"
	"strings"

	"github.com/visara/backend/internal/domain"
)

// CompletenessChecker evaluates presence of required attribute classes
// against a category profile.
type CompletenessChecker struct{}

// NewCompletenessChecker creates a new completeness checker
func NewCompletenessChecker() *CompletenessChecker {
	return &CompletenessChecker{}
}

// Check returns the fraction of required attribute classes present × 100 and
// the sorted names of the absent classes. A class counts as present if the
// structured specs contain it or any of its detection keywords appear in the
// normalized text: the two signals are unioned, never double-penalizing.
func (c *CompletenessChecker) Check(product domain.ProductText, norm domain.NormalizedText, profile *domain.CategoryProfile) (float64, []string) {
	if profile == nil || len(profile.RequiredAttributes) == 0 {
		return 100, nil
	}

	specKeys := make(map[string]bool, len(product.Specs))
	for key := range product.Specs {
		specKeys[normalizeAttributeName(key)] = true
	}

	present := 0
	var missing []string
	for _, attr := range profile.RequiredAttributes {
		if specKeys[normalizeAttributeName(attr.Name)] || detectedInText(attr, norm) {
			present++
		} else {
			missing = append(missing, attr.Name)
		}
	}

	sort.Strings(missing)

	score := float64(present) / float64(len(profile.RequiredAttributes)) * 100
	return clampScore(score), missing
}

// detectedInText checks whether any detection keyword of the attribute class
// appears in the normalized tokens (single words, stemmed) or canonical text
// (multi-word phrases).
func detectedInText(attr domain.AttributeClass, norm domain.NormalizedText) bool {
	for _, keyword := range attr.DetectionKeywords {
		lowered := strings.ToLower(keyword)
		if strings.Contains(lowered, " ") {
			if strings.Contains(norm.Canonical, lowered) {
				return true
			}
			continue
		}
		if norm.HasToken(lowered) || norm.HasToken(stemToken(lowered)) {
			return true
		}
		// Tolerate plural form in the text for a singular detection keyword
		if norm.HasToken(lowered+"s") || norm.HasToken(lowered+"es") {
			return true
		}
	}
	return false
}

// normalizeAttributeName lowercases and collapses separators so that
// "Battery Life", "battery_life", and "battery-life" compare equal.
func normalizeAttributeName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	lowered = strings.ReplaceAll(lowered, "_", " ")
	lowered = strings.ReplaceAll(lowered, "-", " ")
	return multiSpaceRegex.ReplaceAllString(lowered, " ")
}
