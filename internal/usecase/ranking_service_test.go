package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/visara/backend/internal/domain"
)

func newTestRanker(embedder *stubEmbedder) *RankingService {
	return NewRankingService(newTestScorer(embedder), false)
}

// competitorWithKeywords builds a product whose keyword coverage grows with
// the number of expected keywords included, so aggregate scores are distinct
// and controllable.
func competitorWithKeywords(title string, keywords ...string) domain.ProductText {
	desc := "A product"
	for _, kw := range keywords {
		desc += " " + kw
	}
	return domain.ProductText{
		Title:       title,
		Description: desc,
		Category:    "Headphones",
	}
}

func TestRank(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for empty target", func(t *testing.T) {
		ranker := newTestRanker(newStubEmbedder())
		_, _, err := ranker.Rank(ctx, domain.ProductText{}, nil, fullHeadphonesProfile())
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("orders by aggregate score descending with 1-based ranks", func(t *testing.T) {
		ranker := newTestRanker(newStubEmbedder())

		target := competitorWithKeywords("Target", "headphones", "wireless")
		competitors := []domain.ProductText{
			competitorWithKeywords("Strong", "headphones", "wireless", "bluetooth", "battery", "microphone"),
			competitorWithKeywords("Weak", "headphones"),
		}

		entries, targetRank, err := ranker.Rank(ctx, target, competitors, fullHeadphonesProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d, want 3", len(entries))
		}
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Breakdown.AIVisibilityScore < entries[i].Breakdown.AIVisibilityScore {
				t.Errorf("entries not sorted descending at index %d", i)
			}
		}
		for i, e := range entries {
			if e.Rank != i+1 {
				t.Errorf("entries[%d].Rank = %d, want %d", i, e.Rank, i+1)
			}
		}
		if entries[0].Product.Title != "Strong" {
			t.Errorf("top entry = %q, want Strong", entries[0].Product.Title)
		}
		if targetRank != 2 {
			t.Errorf("targetRank = %d, want 2", targetRank)
		}
	})

	t.Run("target rank equals one plus competitors ordered ahead of it", func(t *testing.T) {
		ranker := newTestRanker(newStubEmbedder())

		// Competitor 4 carries the exact keyword set of the target, so the
		// two breakdowns are identical and only the tie-break separates them.
		all := []string{"headphones", "wireless", "bluetooth", "battery", "microphone", "comfort", "sound"}
		target := competitorWithKeywords("Target", all[:4]...)

		var competitors []domain.ProductText
		for i := 0; i < 7; i++ {
			competitors = append(competitors, competitorWithKeywords(fmt.Sprintf("Competitor %d", i), all[:i]...))
		}

		entries, targetRank, err := ranker.Rank(ctx, target, competitors, fullHeadphonesProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var targetEntry domain.RankedEntry
		for _, e := range entries {
			if e.IsTarget {
				targetEntry = e
			}
		}

		// Expected rank under the full ordering, ties included: one plus the
		// competitors that sort ahead of the target under rankLess.
		ahead := 0
		for _, e := range entries {
			if !e.IsTarget && rankLess(e, targetEntry) {
				ahead++
			}
		}
		if targetRank != 1+ahead {
			t.Errorf("targetRank = %d, want %d", targetRank, 1+ahead)
		}

		// The identical-breakdown competitor must sort ahead lexically, so
		// the target can never be first here.
		if targetRank == 1 {
			t.Error("targetRank = 1, want the tied competitor ranked ahead")
		}
	})

	t.Run("ranking is stable across repeated runs", func(t *testing.T) {
		ranker := newTestRanker(newStubEmbedder())

		target := competitorWithKeywords("Target", "headphones")
		competitors := []domain.ProductText{
			competitorWithKeywords("B", "headphones", "wireless"),
			competitorWithKeywords("A", "headphones", "wireless"),
			competitorWithKeywords("C", "headphones", "bluetooth", "battery"),
		}

		first, _, err := ranker.Rank(ctx, target, competitors, fullHeadphonesProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, _, err := ranker.Rank(ctx, target, competitors, fullHeadphonesProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := range first {
			if first[i].Product.Title != second[i].Product.Title {
				t.Errorf("order differs at %d: %q vs %q", i, first[i].Product.Title, second[i].Product.Title)
			}
			if first[i].Rank != second[i].Rank {
				t.Errorf("rank differs at %d: %d vs %d", i, first[i].Rank, second[i].Rank)
			}
		}
	})

	t.Run("no two entries share a rank number", func(t *testing.T) {
		ranker := newTestRanker(newStubEmbedder())

		// A and B are identical except for the title, forcing the lexical tie-break
		target := competitorWithKeywords("B", "headphones", "wireless")
		competitors := []domain.ProductText{
			competitorWithKeywords("A", "headphones", "wireless"),
		}

		entries, _, err := ranker.Rank(ctx, target, competitors, fullHeadphonesProfile())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		seen := make(map[int]bool)
		for _, e := range entries {
			if seen[e.Rank] {
				t.Errorf("duplicate rank %d", e.Rank)
			}
			seen[e.Rank] = true
		}
	})

	t.Run("scoring failure aborts the ranking", func(t *testing.T) {
		embedder := newStubEmbedder()
		embedder.err = domain.ErrServiceUnavailable
		ranker := newTestRanker(embedder)

		target := competitorWithKeywords("Target", "headphones")
		_, _, err := ranker.Rank(ctx, target, nil, fullHeadphonesProfile())
		if !errors.Is(err, domain.ErrServiceUnavailable) {
			t.Errorf("error = %v, want ErrServiceUnavailable", err)
		}
	})
}

func TestRankLess(t *testing.T) {
	entry := func(agg, sem, comp float64, title string) domain.RankedEntry {
		return domain.RankedEntry{
			Product: domain.ProductText{Title: title},
			Breakdown: domain.ScoreBreakdown{
				AIVisibilityScore: agg,
				SemanticRelevance: sem,
				Completeness:      comp,
			},
		}
	}

	t.Run("higher aggregate wins", func(t *testing.T) {
		if !rankLess(entry(80, 0, 0, "b"), entry(70, 100, 100, "a")) {
			t.Error("expected higher aggregate to sort first")
		}
	})

	t.Run("semantic relevance breaks aggregate ties", func(t *testing.T) {
		if !rankLess(entry(80, 90, 0, "b"), entry(80, 85, 100, "a")) {
			t.Error("expected higher semantic to sort first on tie")
		}
	})

	t.Run("completeness breaks semantic ties", func(t *testing.T) {
		if !rankLess(entry(80, 90, 60, "b"), entry(80, 90, 50, "a")) {
			t.Error("expected higher completeness to sort first on tie")
		}
	})

	t.Run("title lexical order is the final tie-break", func(t *testing.T) {
		if !rankLess(entry(80, 90, 60, "Alpha"), entry(80, 90, 60, "Beta")) {
			t.Error("expected lexically smaller title to sort first")
		}
		if rankLess(entry(80, 90, 60, "Beta"), entry(80, 90, 60, "Alpha")) {
			t.Error("expected lexically larger title to sort last")
		}
	})
}
