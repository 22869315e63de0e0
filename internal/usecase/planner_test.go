package usecase

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"LaunchCast/internal/domain/models"
	"LaunchCast/internal/service/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func fit5() models.TargetProduct {
	return models.TargetProduct{Name: "Galaxy Fit5", Category: "wearables", Price: 100}
}

type recordingPublisher struct {
	mu   sync.Mutex
	runs []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, r *models.PlanResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, r.RunID)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func findCandidate(set models.RankedCandidateSet, name string) (models.CandidateProduct, bool) {
	for _, c := range set.Candidates {
		if c.NormalizedName == name {
			return c, true
		}
	}
	return models.CandidateProduct{}, false
}

func TestPlanRanksSameFamilyAboveIncompatible(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	res, err := p.Plan(context.Background(), models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "Galaxy Watch7 review", Description: "Launched July 2024 at $299", Source: "review"},
			{Title: "Galaxy Fit4 review", Description: "Launched April 2024 at $99", Source: "review"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Candidates.Len())

	assert.Equal(t, "Galaxy Fit4", res.Candidates.Candidates[0].NormalizedName)
	fit4, _ := findCandidate(res.Candidates, "Galaxy Fit4")
	watch7, _ := findCandidate(res.Candidates, "Galaxy Watch7")
	assert.Less(t, watch7.SimilarityScore, 0.15)
	assert.GreaterOrEqual(t, fit4.SimilarityScore-watch7.SimilarityScore, 0.5)
	assert.Empty(t, res.Diagnostics.Fallbacks)
	assert.NotEmpty(t, res.RunID)
}

func TestPlanEmptyInputFallsBack(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	res, err := p.Plan(context.Background(), models.PlanInput{Target: fit5()})
	require.NoError(t, err)

	assert.Zero(t, res.Candidates.Len())
	assert.True(t, res.History.Baseline)
	require.Len(t, res.History.Points, models.DefaultLookbackMonths)
	require.Len(t, res.Forecast.HorizonPoints, models.DefaultHorizonMonths)
	assert.Less(t, res.Forecast.ConfidenceScore, 0.5)
	assert.Equal(t, []string{models.FallbackBaselineSeries, models.FallbackConservativeForecast}, res.Diagnostics.Fallbacks)
}

func TestPlanFutureMarkerForcesNextYear(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	res, err := p.Plan(context.Background(), models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "Galaxy Fit3 review 2023"},
			{Title: "Fitbit Charge7 upcoming tracker"},
		},
		Options: models.EngineOptions{FutureProducts: []string{"Galaxy Fit3"}},
	})
	require.NoError(t, err)

	for _, c := range res.Candidates.Candidates {
		assert.Equal(t, fixedNow.Year()+1, c.EstimatedLaunchYear, c.NormalizedName)
		assert.True(t, c.FutureProduct)
	}
	assert.Equal(t, 2, res.Candidates.Len())
}

func TestPlanValuePricingRaisesMultiplier(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	res, err := p.Plan(context.Background(), models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "Fitbit Charge6 review", Description: "released in 2023 for $200"},
			{Title: "Galaxy Fit3 review", Description: "released in 2024 for $220"},
			{Title: "Xiaomi Smart Band 8 review", Description: "released in 2023 for $240"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Candidates.Len())

	assert.InDelta(t, 220, res.Insights.AverageTopPrice, 1e-9)
	assert.Equal(t, 1.3, res.Forecast.Drivers.PriceMultiplier)
	assert.False(t, res.Forecast.Fallback)
}

func TestPlanIsDeterministicForSeed(t *testing.T) {
	in := models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "Galaxy Fit3 review", Description: "released in 2024 for $59"},
			{Title: "Fitbit Inspire3 review 2022"},
		},
		Options: models.EngineOptions{Seed: 7},
	}
	a, err := NewPlanner(WithClock(clock)).Plan(context.Background(), in)
	require.NoError(t, err)
	b, err := NewPlanner(WithClock(clock)).Plan(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a.Candidates, b.Candidates)
	assert.Equal(t, a.History, b.History)
	assert.Equal(t, a.Forecast, b.Forecast)
	assert.NotEqual(t, a.RunID, b.RunID)

	// no explicit seed still reproduces: the seed comes from the target
	in.Options.Seed = 0
	c, _ := NewPlanner(WithClock(clock)).Plan(context.Background(), in)
	d, _ := NewPlanner(WithClock(clock)).Plan(context.Background(), in)
	assert.Equal(t, c.History, d.History)
	assert.Equal(t, TargetSeed(in.Target), c.Options.Seed)
}

func TestPlanOutputsAreNonNegative(t *testing.T) {
	res, err := NewPlanner(WithClock(clock)).Plan(context.Background(), models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "Galaxy Fit2 review 2020 $59"},
			{Title: "Galaxy Watch4 review 2021 $249"},
		},
		Options: models.EngineOptions{VarianceAmplitude: 0.5},
	})
	require.NoError(t, err)
	for _, pt := range res.History.Points {
		assert.GreaterOrEqual(t, pt.Volume, 0.0)
	}
	for i, hp := range res.Forecast.HorizonPoints {
		assert.GreaterOrEqual(t, hp.LowerBound, 0.0)
		assert.LessOrEqual(t, res.Forecast.ScenarioBands.Pessimistic[i], res.Forecast.ScenarioBands.Realistic[i])
		assert.LessOrEqual(t, res.Forecast.ScenarioBands.Realistic[i], res.Forecast.ScenarioBands.Optimistic[i])
	}
}

func TestPlanRejectsInvalidTarget(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	for name, target := range map[string]models.TargetProduct{
		"empty name":     {Category: "wearables", Price: 100},
		"blank category": {Name: "Galaxy Fit5", Category: "  ", Price: 100},
		"zero price":     {Name: "Galaxy Fit5", Category: "wearables"},
		"nan price":      {Name: "Galaxy Fit5", Category: "wearables", Price: math.NaN()},
		"inf price":      {Name: "Galaxy Fit5", Category: "wearables", Price: math.Inf(1)},
		"bad month":      {Name: "Galaxy Fit5", Category: "wearables", Price: 100, LaunchMonth: "June"},
	} {
		_, err := p.Plan(context.Background(), models.PlanInput{Target: target})
		assert.ErrorIs(t, err, models.ErrInvalidTargetProduct, name)
		assert.True(t, IsInvalidTarget(err), name)
	}
}

func TestPlanExcludesTarget(t *testing.T) {
	res, err := NewPlanner(WithClock(clock)).RankCandidates(context.Background(), models.PlanInput{
		Target: fit5(),
		Snippets: []models.RawCandidateSnippet{
			{Title: "galaxy  FIT5 hands-on"},
			{Title: "Galaxy Fit4 review"},
			{Title: "Galaxy Fit4 deal", Source: "retail"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Candidates.Len())
	assert.Equal(t, "Galaxy Fit4", res.Candidates.Candidates[0].NormalizedName)
	assert.Equal(t, 1, res.Diagnostics.SelfExcluded)
	assert.Equal(t, 1, res.Diagnostics.Duplicates)
	assert.Equal(t, 3, res.Diagnostics.SnippetsReceived)
}

func TestPlanUsesCacheAndPublishes(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	p := NewPlanner(
		WithClock(clock),
		WithCache(cache.NewPlanCache(cache.NewTTLCache(0), time.Minute)),
		WithPublisher(pub),
	)
	in := models.PlanInput{Target: fit5(), Snippets: []models.RawCandidateSnippet{{Title: "Galaxy Fit4 review $99"}}}

	first, err := p.Plan(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := p.Plan(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.RunID, second.RunID)

	// publish failures are logged, never returned, and cache hits are not republished
	assert.Equal(t, []string{first.RunID}, pub.runs)
}

func TestPlanDiscoverMergesSources(t *testing.T) {
	srcA := &fakeSource{name: "a", snippets: []models.RawCandidateSnippet{{Title: "Galaxy Fit3 review $59"}}}
	srcB := &fakeSource{name: "b", err: errors.New("timeout")}
	collector := NewSnippetCollector(toSources(srcA, srcB), time.Second, nil, nil)

	p := NewPlanner(WithClock(clock), WithCollector(collector))
	res, err := p.Plan(context.Background(), models.PlanInput{
		Target:   fit5(),
		Snippets: []models.RawCandidateSnippet{{Title: "Galaxy Fit4 review $99"}},
		Discover: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Candidates.Len())
	assert.Equal(t, []string{"b"}, res.Diagnostics.SourceFailures)
	assert.Contains(t, res.Diagnostics.StageMillis, "lookup")

	// without discover the sources are not consulted
	srcA.calls = 0
	res, err = p.Plan(context.Background(), models.PlanInput{Target: fit5()})
	require.NoError(t, err)
	assert.Zero(t, srcA.calls)
	assert.Zero(t, res.Candidates.Len())
}

func TestPlanDiscoverWithoutSources(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	res, err := p.Plan(context.Background(), models.PlanInput{
		Target:   fit5(),
		Snippets: []models.RawCandidateSnippet{{Title: "Galaxy Fit4 review $99"}},
		Discover: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Candidates.Len())
	assert.NotContains(t, res.Diagnostics.StageMillis, "lookup")
}

func TestPlanAnchorsHorizonOnLaunchMonth(t *testing.T) {
	p := NewPlanner(WithClock(clock))
	snippets := []models.RawCandidateSnippet{
		{Title: "Galaxy Fit3 review", Description: "Launched February 2024 at $59.", Source: "review"},
		{Title: "Galaxy Fit4 review", Description: "Launched March 2025 at $99.", Source: "review"},
	}

	plain, err := p.Plan(context.Background(), models.PlanInput{Target: fit5(), Snippets: snippets})
	require.NoError(t, err)
	assert.Equal(t, "2025-07", plain.Forecast.HorizonPoints[0].Month)

	target := fit5()
	target.LaunchMonth = "2026-11"
	anchored, err := p.Plan(context.Background(), models.PlanInput{Target: target, Snippets: snippets})
	require.NoError(t, err)
	assert.Equal(t, "2026-11", anchored.Target.LaunchMonth)
	assert.Equal(t, "2026-11", anchored.Forecast.StartMonth)
	assert.Equal(t, "2026-11", anchored.Forecast.HorizonPoints[0].Month)
	assert.Equal(t, "2027-10", anchored.Forecast.HorizonPoints[len(anchored.Forecast.HorizonPoints)-1].Month)
	assert.NotEqual(t, plain.Forecast.HorizonPoints[0].PointEstimate, anchored.Forecast.HorizonPoints[0].PointEstimate)
}
