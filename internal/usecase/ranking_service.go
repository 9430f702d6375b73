package usecase

import (
	"context"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/visara/backend/internal/domain"
)

// RankingService orders a target product against a competitor set by
// AI visibility score.
type RankingService struct {
	scorer             *ScoringService
	enableDebugLogging bool
}

// NewRankingService creates a new ranking service
func NewRankingService(scorer *ScoringService, enableDebugLogging bool) *RankingService {
	return &RankingService{
		scorer:             scorer,
		enableDebugLogging: enableDebugLogging,
	}
}

// Rank scores the target and every competitor concurrently, sorts descending
// by aggregate score, and assigns 1-based ranks. Ties are broken by semantic
// relevance, then completeness, then lexical order of title, so the ordering
// is a total order and re-running on the same inputs yields identical ranks.
// Returns the full ordering and the target's rank.
func (s *RankingService) Rank(
	ctx context.Context,
	target domain.ProductText,
	competitors []domain.ProductText,
	profile *domain.CategoryProfile,
) ([]domain.RankedEntry, int, error) {
	if target.Title == "" && target.Description == "" {
		return nil, 0, domain.ErrInvalidRequest
	}

	products := make([]domain.ProductText, 0, 1+len(competitors))
	products = append(products, target)
	products = append(products, competitors...)

	entries := make([]domain.RankedEntry, len(products))

	g, gctx := errgroup.WithContext(ctx)
	for i, product := range products {
		i, product := i, product
		g.Go(func() error {
			breakdown, _, err := s.scorer.Score(gctx, product, profile)
			if err != nil {
				return err
			}
			entries[i] = domain.RankedEntry{
				Product:   product,
				Breakdown: breakdown,
				IsTarget:  i == 0,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return rankLess(entries[i], entries[j])
	})

	targetRank := 0
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].IsTarget {
			targetRank = entries[i].Rank
		}
	}

	if s.enableDebugLogging {
		log.Printf("[RANK] %q ranked %d of %d", target.Title, targetRank, len(entries))
	}

	return entries, targetRank, nil
}

// rankLess implements the deterministic ordering: aggregate score descending,
// then semantic relevance, then completeness, then title lexical ascending.
func rankLess(a, b domain.RankedEntry) bool {
	if a.Breakdown.AIVisibilityScore != b.Breakdown.AIVisibilityScore {
		return a.Breakdown.AIVisibilityScore > b.Breakdown.AIVisibilityScore
	}
	if a.Breakdown.SemanticRelevance != b.Breakdown.SemanticRelevance {
		return a.Breakdown.SemanticRelevance > b.Breakdown.SemanticRelevance
	}
	if a.Breakdown.Completeness != b.Breakdown.Completeness {
		return a.Breakdown.Completeness > b.Breakdown.Completeness
	}
	return a.Product.Title < b.Product.Title
}
