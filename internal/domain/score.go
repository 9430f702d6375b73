package domain

// ScoreBreakdown holds the four sub-scores and the weighted aggregate.
// Invariant: AIVisibilityScore is always the fixed weighted sum of the
// four components; it is never set independently.
type ScoreBreakdown struct {
	SemanticRelevance float64 `json:"semantic_relevance"`
	KeywordCoverage   float64 `json:"keyword_coverage"`
	Completeness      float64 `json:"completeness"`
	Readability       float64 `json:"readability"`
	AIVisibilityScore float64 `json:"ai_visibility_score"`
}

// WeaknessReport lists what the product text is missing, derived from the
// breakdown and sub-component evidence.
type WeaknessReport struct {
	MissingSpecs    []string `json:"missing_specs"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
}

// RankedEntry is one row of a ranking result. Produced fresh per ranking
// call; not persisted.
type RankedEntry struct {
	Product   ProductText    `json:"product"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Rank      int            `json:"rank"`
	IsTarget  bool           `json:"is_target"`
}

// OptimizationAttempt records one iteration of the optimizer loop.
type OptimizationAttempt struct {
	Iteration int            `json:"iteration"`
	Candidate ProductText    `json:"candidate"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Delta     float64        `json:"delta"`
	Accepted  bool           `json:"accepted"`
}

// OptimizationResult is the outcome of an optimizer run: the best candidate
// found, before/after breakdowns, and the full attempt trace.
type OptimizationResult struct {
	Best            ProductText           `json:"best"`
	OriginalScore   ScoreBreakdown        `json:"original_score"`
	BestScore       ScoreBreakdown        `json:"best_score"`
	Attempts        []OptimizationAttempt `json:"attempts"`
	Outcome         string                `json:"outcome"`
	StoppedOnError  bool                  `json:"stopped_on_error"`
	ProviderFailure string                `json:"provider_failure,omitempty"`
}
