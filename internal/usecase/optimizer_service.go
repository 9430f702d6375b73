package usecase

import (
	"context"
	"log"

	"github.com/visara/backend/internal/domain"
)

// Optimizer loop states. The loop is an explicit finite state machine so the
// termination and non-regression guarantees stay checkable.
type optimizerState int

const (
	stateScoring optimizerState = iota
	stateRewriting
	stateEvaluating
	stateConverged
	stateExhausted
)

// Terminal outcomes reported on OptimizationResult
const (
	OutcomeConverged = "converged"
	OutcomeExhausted = "exhausted"
	OutcomeAborted   = "aborted"
)

// Optimizer defaults
const (
	defaultMaxIterations  = 5
	defaultMinImprovement = 1.0
	defaultScoreCeiling   = 95.0
)

// OptimizerConfig holds configuration for the optimizer service
type OptimizerConfig struct {
	MaxIterations      int
	MinImprovement     float64
	ScoreCeiling       float64
	EnableDebugLogging bool
}

// OptimizerService iteratively rewrites a product description and verifies
// each rewrite actually improved the visibility score. Strictly sequential:
// every iteration depends on the previous rewrite.
type OptimizerService struct {
	scorer   *ScoringService
	rewriter domain.RewriteProvider

	maxIterations      int
	minImprovement     float64
	scoreCeiling       float64
	enableDebugLogging bool
}

// NewOptimizerService creates a new optimizer service with dependencies
func NewOptimizerService(
	scorer *ScoringService,
	rewriter domain.RewriteProvider,
	config OptimizerConfig,
) *OptimizerService {
	maxIter := config.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	minImp := config.MinImprovement
	if minImp <= 0 {
		minImp = defaultMinImprovement
	}
	ceiling := config.ScoreCeiling
	if ceiling <= 0 {
		ceiling = defaultScoreCeiling
	}

	return &OptimizerService{
		scorer:             scorer,
		rewriter:           rewriter,
		maxIterations:      maxIter,
		minImprovement:     minImp,
		scoreCeiling:       ceiling,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Optimize runs the rewrite-and-rescore loop until improvement stalls, the
// score ceiling is reached, or the iteration cap is hit. The returned result
// always carries the best candidate observed across the trace; the loop
// never regresses the reported result even if a later rewrite scores lower.
// A rewriting-provider failure ends the loop early with the best candidate so
// far and the failure noted, rather than failing the entire call. A caller
// deadline aborts the loop the same way instead of hanging.
func (s *OptimizerService) Optimize(
	ctx context.Context,
	product domain.ProductText,
	profile *domain.CategoryProfile,
	maxIterations int,
) (*domain.OptimizationResult, error) {
	if maxIterations <= 0 || maxIterations > s.maxIterations {
		maxIterations = s.maxIterations
	}

	state := stateScoring

	// Initial scoring failure has no safe fallback: surface it.
	bestScore, bestReport, err := s.scorer.Score(ctx, product, profile)
	if err != nil {
		return nil, err
	}

	result := &domain.OptimizationResult{
		Best:          product,
		OriginalScore: bestScore,
		BestScore:     bestScore,
	}

	candidate := product
	candidateReport := bestReport
	iteration := 0

	if bestScore.AIVisibilityScore >= s.scoreCeiling {
		state = stateConverged
	} else {
		state = stateRewriting
	}

	for state != stateConverged && state != stateExhausted {
		if ctx.Err() != nil {
			result.Outcome = OutcomeAborted
			result.StoppedOnError = true
			result.ProviderFailure = ctx.Err().Error()
			return result, nil
		}

		switch state {
		case stateRewriting:
			if iteration >= maxIterations {
				state = stateExhausted
				continue
			}
			iteration++

			rewritten, err := s.rewriter.Rewrite(ctx, candidate, candidateReport, profile)
			if err != nil {
				if s.enableDebugLogging {
					log.Printf("[OPTIMIZE] rewrite failed on iteration %d: %v", iteration, err)
				}
				result.Outcome = OutcomeAborted
				result.StoppedOnError = true
				result.ProviderFailure = err.Error()
				return result, nil
			}

			// Title, brand, and category are carried forward unchanged.
			candidate = domain.ProductText{
				Title:       product.Title,
				Description: rewritten,
				Category:    product.Category,
				Brand:       product.Brand,
				Specs:       product.Specs,
			}
			state = stateEvaluating

		case stateEvaluating:
			breakdown, report, err := s.scorer.Score(ctx, candidate, profile)
			if err != nil {
				result.Outcome = OutcomeAborted
				result.StoppedOnError = true
				result.ProviderFailure = err.Error()
				return result, nil
			}

			delta := breakdown.AIVisibilityScore - result.BestScore.AIVisibilityScore
			accepted := delta >= s.minImprovement

			result.Attempts = append(result.Attempts, domain.OptimizationAttempt{
				Iteration: iteration,
				Candidate: candidate,
				Breakdown: breakdown,
				Delta:     delta,
				Accepted:  accepted,
			})

			if s.enableDebugLogging {
				log.Printf("[OPTIMIZE] iteration %d: score=%.1f delta=%.2f accepted=%v",
					iteration, breakdown.AIVisibilityScore, delta, accepted)
			}

			if !accepted {
				state = stateConverged
				continue
			}

			result.Best = candidate
			result.BestScore = breakdown
			candidateReport = report

			if breakdown.AIVisibilityScore >= s.scoreCeiling {
				state = stateConverged
			} else {
				state = stateRewriting
			}
		}
	}

	switch state {
	case stateExhausted:
		result.Outcome = OutcomeExhausted
	default:
		result.Outcome = OutcomeConverged
	}

	return result, nil
}
