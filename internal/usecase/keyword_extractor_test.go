package usecase

import (
	"testing"

	"github.com/visara/backend/internal/domain"
)

func normFor(t *testing.T, product domain.ProductText) domain.NormalizedText {
	t.Helper()
	return NewNormalizer(false).Normalize(product)
}

func TestCoverage(t *testing.T) {
	e := NewKeywordExtractor()

	t.Run("empty expected keyword set scores exactly 100", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "anything at all"})
		profile := &domain.CategoryProfile{Category: "Misc"}

		score, missing := e.Coverage(norm, profile)

		if score != 100 {
			t.Errorf("score = %v, want exactly 100", score)
		}
		if len(missing) != 0 {
			t.Errorf("missing = %v, want empty", missing)
		}
	})

	t.Run("full coverage scores 100", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "wireless bluetooth headphones"})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"wireless", "bluetooth", "headphones"},
		}

		score, missing := e.Coverage(norm, profile)

		if score != 100 {
			t.Errorf("score = %v, want 100", score)
		}
		if len(missing) != 0 {
			t.Errorf("missing = %v, want empty", missing)
		}
	})

	t.Run("partial coverage is proportional and reports missing sorted", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "wireless headphones"})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"wireless", "headphones", "microphone", "battery"},
		}

		score, missing := e.Coverage(norm, profile)

		if score != 50 {
			t.Errorf("score = %v, want 50", score)
		}
		if len(missing) != 2 || missing[0] != "battery" || missing[1] != "microphone" {
			t.Errorf("missing = %v, want [battery microphone]", missing)
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "WIRELESS Headphones"})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"Wireless", "HEADPHONES"},
		}

		score, _ := e.Coverage(norm, profile)

		if score != 100 {
			t.Errorf("score = %v, want 100", score)
		}
	})

	t.Run("tolerates plural and singular forms", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "comes with cable and adapters"})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"cables", "adapter"},
		}

		score, missing := e.Coverage(norm, profile)

		if score != 100 {
			t.Errorf("score = %v, want 100, missing = %v", score, missing)
		}
	})

	t.Run("multi-word keyword matches when all words present", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{Description: "active noise cancelling design"})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"noise cancelling", "sound quality"},
		}

		score, missing := e.Coverage(norm, profile)

		if score != 50 {
			t.Errorf("score = %v, want 50", score)
		}
		if len(missing) != 1 || missing[0] != "sound quality" {
			t.Errorf("missing = %v, want [sound quality]", missing)
		}
	})

	t.Run("empty token set scores zero with all keywords missing", func(t *testing.T) {
		norm := normFor(t, domain.ProductText{})
		profile := &domain.CategoryProfile{
			ExpectedKeywords: []string{"wireless", "bluetooth"},
		}

		score, missing := e.Coverage(norm, profile)

		if score != 0 {
			t.Errorf("score = %v, want 0", score)
		}
		if len(missing) != 2 {
			t.Errorf("missing = %v, want both keywords", missing)
		}
	})
}

func TestStemToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"headphones", "headphone"},
		{"cables", "cable"},
		{"adapters", "adapter"},
		{"batteries", "battery"},
		{"glasses", "glass"},
		{"boxes", "box"},
		{"glass", "glass"},
		{"bus", "bus"},
		{"cat", "cat"},
		{"runs", "run"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := stemToken(tt.in); got != tt.want {
				t.Errorf("stemToken(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
