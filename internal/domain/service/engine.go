package service

import (
	"time"

	"LaunchCast/internal/domain/models"
	xlogger "LaunchCast/pkg/logger"
)

// RandomSource yields uniform values in [0,1). Implementations must be seedable.
type RandomSource interface {
	Float64() float64
}

// InterestProvider supplies an external 0-100 market interest score for a candidate.
type InterestProvider interface {
	Interest(candidate models.CandidateProduct) (float64, bool)
}

// RunContext is owned by a single planning run. Nothing in it is shared across runs.
type RunContext struct {
	RunID    string
	Now      time.Time
	Options  models.EngineOptions
	Rand     RandomSource
	Interest InterestProvider
	Logger   *xlogger.Logger
}

// CurrentYear is the calendar year of the run clock.
func (rc RunContext) CurrentYear() int { return rc.Now.Year() }

// Log never returns nil.
func (rc RunContext) Log() *xlogger.Logger {
	if rc.Logger == nil {
		return xlogger.NewNop()
	}
	return rc.Logger
}

// NormalizeResult carries normalized candidates plus how many snippets were dropped.
type NormalizeResult struct {
	Candidates []models.CandidateProduct
	Skipped    int
}

// CandidateNormalizer turns raw snippets into partially filled candidates.
type CandidateNormalizer interface {
	Normalize(rc RunContext, target models.TargetProfile, snippets []models.RawCandidateSnippet) NormalizeResult
}

// FamilyClassifier maps a normalized name to a family tag.
type FamilyClassifier interface {
	Classify(name string) string
}

// SimilarityScorer fills SimilarityScore and Breakdown on each candidate.
type SimilarityScorer interface {
	Score(rc RunContext, target models.TargetProfile, candidates []models.CandidateProduct) []models.CandidateProduct
}

// CandidateRanker deduplicates, self-excludes, sorts and truncates.
type CandidateRanker interface {
	Rank(rc RunContext, target models.TargetProfile, scored []models.CandidateProduct) models.RankedCandidateSet
}

// SeriesSynthesizer builds the category history from ranked candidates.
type SeriesSynthesizer interface {
	Synthesize(rc RunContext, category string, ranked models.RankedCandidateSet) models.HistoricalSeries
}

// TrendForecaster projects the series over the horizon.
type TrendForecaster interface {
	Forecast(rc RunContext, target models.TargetProfile, history models.HistoricalSeries, insights models.CandidateInsights) models.ForecastResult
}
