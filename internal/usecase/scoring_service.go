package usecase

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/visara/backend/internal/domain"
	"github.com/visara/backend/internal/infrastructure/embedding"
)

// Fixed aggregate weights. These sum to 1.0 and define the AI Visibility
// Score; they are an invariant of the product, not tunable configuration.
const (
	weightSemantic     = 0.4
	weightKeyword      = 0.2
	weightCompleteness = 0.2
	weightReadability  = 0.2
)

// defaultWeaknessThreshold is the sub-score below which a suggestion is emitted
const defaultWeaknessThreshold = 70.0

// ScoringConfig holds configuration for the scoring service
type ScoringConfig struct {
	WeaknessThreshold  float64
	EnableDebugLogging bool
}

// ScoringService aggregates the four sub-scores into one visibility score
// with a full breakdown and weakness report. Pure function of its inputs plus
// the embedding provider call; the vector cache is the only shared state.
type ScoringService struct {
	embedder     domain.EmbeddingProvider
	vectors      domain.VectorCache
	normalizer   *Normalizer
	keywords     *KeywordExtractor
	completeness *CompletenessChecker
	readability  *ReadabilityScorer

	weaknessThreshold  float64
	enableDebugLogging bool
}

// NewScoringService creates a new scoring service with dependencies
func NewScoringService(
	embedder domain.EmbeddingProvider,
	vectors domain.VectorCache,
	config ScoringConfig,
) *ScoringService {
	threshold := config.WeaknessThreshold
	if threshold <= 0 {
		threshold = defaultWeaknessThreshold
	}

	return &ScoringService{
		embedder:           embedder,
		vectors:            vectors,
		normalizer:         NewNormalizer(config.EnableDebugLogging),
		keywords:           NewKeywordExtractor(),
		completeness:       NewCompletenessChecker(),
		readability:        NewReadabilityScorer(),
		weaknessThreshold:  threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Score runs the four independent sub-scorers concurrently, joins them, and
// computes the weighted aggregate plus a weakness report.
// An embedding failure is surfaced to the caller, never masked as a zero
// score, since that would corrupt ranking and improvement deltas.
func (s *ScoringService) Score(
	ctx context.Context,
	product domain.ProductText,
	profile *domain.CategoryProfile,
) (domain.ScoreBreakdown, domain.WeaknessReport, error) {
	if product.Title == "" && product.Description == "" {
		return domain.ScoreBreakdown{}, domain.WeaknessReport{}, domain.ErrInvalidRequest
	}
	if profile == nil {
		return domain.ScoreBreakdown{}, domain.WeaknessReport{}, domain.ErrProfileNotFound
	}

	norm := s.normalizer.Normalize(product)

	var (
		semantic        float64
		keywordScore    float64
		missingKeywords []string
		complete        float64
		missingSpecs    []string
		readable        float64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		score, err := s.semanticRelevance(gctx, norm, profile)
		if err != nil {
			return err
		}
		semantic = score
		return nil
	})
	g.Go(func() error {
		keywordScore, missingKeywords = s.keywords.Coverage(norm, profile)
		return nil
	})
	g.Go(func() error {
		complete, missingSpecs = s.completeness.Check(product, norm, profile)
		return nil
	})
	g.Go(func() error {
		readable = s.readability.Score(product.Description)
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ScoreBreakdown{}, domain.WeaknessReport{}, err
	}

	breakdown := domain.ScoreBreakdown{
		SemanticRelevance: semantic,
		KeywordCoverage:   keywordScore,
		Completeness:      complete,
		Readability:       readable,
	}
	breakdown.AIVisibilityScore = aggregateScore(breakdown)

	report := s.buildWeaknessReport(breakdown, missingSpecs, missingKeywords)

	if s.enableDebugLogging {
		log.Printf("[SCORE] %q: aggregate=%.1f (sem=%.1f kw=%.1f comp=%.1f read=%.1f)",
			product.Title, breakdown.AIVisibilityScore,
			semantic, keywordScore, complete, readable)
	}

	return breakdown, report, nil
}

// aggregateScore computes the fixed weighted sum of the four sub-scores
func aggregateScore(b domain.ScoreBreakdown) float64 {
	return clampScore(weightSemantic*b.SemanticRelevance +
		weightKeyword*b.KeywordCoverage +
		weightCompleteness*b.Completeness +
		weightReadability*b.Readability)
}

// semanticRelevance embeds the product's canonical text and the category
// reference text, and rescales their cosine similarity from [-1,1] to [0,100]
// via (cos+1)/2*100. Zero-length canonical text scores 0 without a provider
// call, since there is nothing to embed.
func (s *ScoringService) semanticRelevance(
	ctx context.Context,
	norm domain.NormalizedText,
	profile *domain.CategoryProfile,
) (float64, error) {
	if norm.Canonical == "" {
		return 0, nil
	}

	reference := profile.ReferenceText
	if reference == "" {
		reference = profile.Category
	}

	productVec, err := s.embedText(ctx, norm.Canonical)
	if err != nil {
		return 0, fmt.Errorf("embedding product text: %w", err)
	}

	referenceVec, err := s.embedText(ctx, reference)
	if err != nil {
		return 0, fmt.Errorf("embedding reference text: %w", err)
	}

	cosine := embedding.Cosine(productVec, referenceVec)
	return clampScore((cosine + 1) / 2 * 100), nil
}

// embedText resolves a vector through the cache before calling the provider.
// Keys are (model, canonical text); concurrent callers for the same key may
// redundantly compute and overwrite, which is safe because embedding is a
// pure function of the text.
func (s *ScoringService) embedText(ctx context.Context, text string) ([]float64, error) {
	key := s.embedder.Model() + ":" + text

	if vec, err := s.vectors.Get(ctx, key); err == nil {
		return vec, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.vectors.Set(ctx, key, vec); err != nil && s.enableDebugLogging {
		log.Printf("[SCORE] vector cache set failed: %v", err)
	}

	return vec, nil
}

// buildWeaknessReport surfaces missing specs/keywords directly and adds a
// human-readable suggestion for each sub-score below the threshold.
func (s *ScoringService) buildWeaknessReport(
	breakdown domain.ScoreBreakdown,
	missingSpecs, missingKeywords []string,
) domain.WeaknessReport {
	var suggestions []string

	if breakdown.SemanticRelevance < s.weaknessThreshold {
		suggestions = append(suggestions, "Add more context about product use cases and benefits")
	}
	if breakdown.KeywordCoverage < s.weaknessThreshold {
		suggestions = append(suggestions, "Include more keywords shoppers use for this category")
	}
	if breakdown.Completeness < s.weaknessThreshold {
		suggestions = append(suggestions, "Add specifications and technical details")
	}
	if breakdown.Readability < s.weaknessThreshold {
		suggestions = append(suggestions, "Simplify language for better readability")
	}

	return domain.WeaknessReport{
		MissingSpecs:    missingSpecs,
		MissingKeywords: missingKeywords,
		Suggestions:     suggestions,
	}
}
