package similarity

import (
	"testing"
	"time"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	"LaunchCast/internal/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rc(opts models.EngineOptions) domsvc.RunContext {
	return domsvc.RunContext{
		RunID:   "test",
		Now:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Options: opts.WithDefaults(),
	}
}

func candidate(name string, price float64, labels ...string) models.CandidateProduct {
	parts := catalog.DescribeName(name)
	tier, _ := catalog.NamingTier(parts.Canonical)
	if len(labels) == 0 {
		labels = []string{"news"}
	}
	return models.CandidateProduct{
		NormalizedName:      parts.Canonical,
		Brand:               parts.Brand,
		LineKey:             parts.LineKey,
		Generation:          parts.Generation,
		EstimatedPrice:      price,
		EstimatedLaunchYear: 2024,
		LaunchMonth:         1,
		NamingTier:          tier,
		FamilyTag:           catalog.NewClassifier().Classify(parts.Canonical),
		SourceLabels:        labels,
	}
}

func fit5Target() models.TargetProfile {
	return catalog.Profile(models.TargetProduct{Name: "Galaxy Fit5", Category: "wearables", Price: 100})
}

func TestScoreFamilyDominatesPrice(t *testing.T) {
	scored := NewScorer().Score(rc(models.EngineOptions{}), fit5Target(), []models.CandidateProduct{
		candidate("Galaxy Fit4", 90),
		candidate("Galaxy Watch7", 400),
	})
	require.Len(t, scored, 2)

	fit4, watch7 := scored[0], scored[1]
	assert.InDelta(t, 0.96, fit4.SimilarityScore, 1e-9)
	assert.Equal(t, RelationMatch, fit4.Breakdown.Relation)
	assert.Equal(t, RelationIncompatible, watch7.Breakdown.Relation)
	assert.Less(t, watch7.SimilarityScore, 0.15)
	assert.GreaterOrEqual(t, fit4.SimilarityScore-watch7.SimilarityScore, 0.5)
}

func TestIncompatiblePairStaysBelowThreshold(t *testing.T) {
	target := fit5Target()
	prices := []float64{5, 50, 90, 100, 110, 250, 400, 1000, 5000}
	severities := []float64{0.05, 0.3, 0.9, 1}
	for _, sev := range severities {
		for _, p := range prices {
			target.Price = p
			target.PriceTier = catalog.PriceTier(target.Category, p)
			for _, name := range []string{"Galaxy Watch7", "Galaxy Watch Fit", "Pixel Watch 2"} {
				c := candidate(name, p)
				require.Equal(t, models.FamilySmartwatch, c.FamilyTag)
				score, _ := ScoreCandidate(target, c, sev)
				assert.Less(t, score, 0.15, "%s at %.0f sev %.2f", name, p, sev)
			}
		}
	}

	// and the other way round
	watchTarget := catalog.Profile(models.TargetProduct{Name: "Galaxy Watch8", Category: "wearables", Price: 300})
	score, _ := ScoreCandidate(watchTarget, candidate("Galaxy Fit3", 300), 0.05)
	assert.Less(t, score, 0.15)
}

func TestScoreAlwaysWithinUnitInterval(t *testing.T) {
	names := []string{"Galaxy Fit4", "Galaxy Watch7", "Galaxy Buds3 Pro", "Galaxy Tab S9", "Galaxy Book4", "iPhone 15 Pro Max", "Acme Toaster"}
	targets := []models.TargetProduct{
		{Name: "Galaxy Fit5", Category: "wearables", Price: 100},
		{Name: "iPhone 17", Category: "smartphones", Price: 999},
		{Name: "Galaxy Tab S11", Category: "tablets", Price: 800},
		{Name: "Mystery Device", Category: "other", Price: 1},
	}
	for _, tp := range targets {
		target := catalog.Profile(tp)
		for _, n := range names {
			for _, p := range []float64{0, 1, 99, 100, 1500, 99999} {
				score, b := ScoreCandidate(target, candidate(n, p), 0.05)
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
				assert.GreaterOrEqual(t, b.Price, 0.0)
				assert.LessOrEqual(t, b.Price, 1.0)
			}
		}
	}
}

func TestFamilySimilarityTable(t *testing.T) {
	rel, v := FamilySimilarity(models.FamilyTablet, models.FamilyTablet, 0.05)
	assert.Equal(t, RelationMatch, rel)
	assert.Equal(t, 0.95, v)

	rel, v = FamilySimilarity(models.FamilySmartwatch, models.FamilyFitnessTracker, 0.05)
	assert.Equal(t, RelationIncompatible, rel)
	assert.Equal(t, 0.05, v)

	_, v = FamilySimilarity(models.FamilyLaptop, models.FamilyTablet, 0.05)
	assert.Equal(t, 0.40, v)

	_, v = FamilySimilarity(models.FamilyOther, models.FamilyTablet, 0.05)
	assert.Equal(t, 0.10, v)

	for _, a := range []string{models.FamilyPrimaryPhone, models.FamilyAudioWearable, models.FamilyTablet, models.FamilyLaptop, models.FamilyOther} {
		for _, b := range []string{models.FamilySmartwatch, models.FamilyFitnessTracker} {
			rel, v := FamilySimilarity(a, b, 0.05)
			assert.Equal(t, RelationMismatch, rel)
			assert.GreaterOrEqual(t, v, 0.10)
			assert.LessOrEqual(t, v, 0.40)
		}
	}
}

func TestNameSeriesSimilarity(t *testing.T) {
	target := fit5Target()
	assert.InDelta(t, 0.95, NameSeriesSimilarity(target, candidate("Galaxy Fit4", 90)), 1e-9)
	assert.InDelta(t, 0.85, NameSeriesSimilarity(target, candidate("Galaxy Fit2", 90)), 1e-9)

	farTarget := catalog.Profile(models.TargetProduct{Name: "Galaxy Fit20", Category: "wearables", Price: 100})
	assert.InDelta(t, 0.8, NameSeriesSimilarity(farTarget, candidate("Galaxy Fit1", 90)), 1e-9)

	sameBrand := NameSeriesSimilarity(target, candidate("Galaxy Watch7", 300))
	assert.GreaterOrEqual(t, sameBrand, 0.7)
	assert.LessOrEqual(t, sameBrand, 0.8)

	assert.Equal(t, 0.5, NameSeriesSimilarity(target, candidate("Fitbit Charge 6", 160)))
}

func TestTierBonus(t *testing.T) {
	assert.Equal(t, 0.2, TierBonus(models.TierMid, models.TierMid))
	assert.Equal(t, 0.1, TierBonus(models.TierMid, models.TierPremium))
	assert.Equal(t, 0.0, TierBonus(models.TierBudget, models.TierFlagship))
}

func TestPriceSimilarity(t *testing.T) {
	assert.InDelta(t, 0.9, PriceSimilarity(100, 90), 1e-9)
	assert.InDelta(t, 0.25, PriceSimilarity(100, 400), 1e-9)
	// the 100 floor keeps cheap items from looking wildly different
	assert.InDelta(t, 0.9, PriceSimilarity(20, 30), 1e-9)
	assert.Equal(t, 1.0, PriceSimilarity(0, 0))
}

func TestScoreThirdPartySmartwatchesMatchWatchTarget(t *testing.T) {
	target := catalog.Profile(models.TargetProduct{Name: "Galaxy Watch8", Category: "wearables", Price: 350})
	scored := NewScorer().Score(rc(models.EngineOptions{}), target, []models.CandidateProduct{
		candidate("Fitbit Sense 2", 300),
		candidate("Garmin Venu 3", 450),
		candidate("Fitbit Charge 6", 160),
	})
	require.Len(t, scored, 3)

	assert.Equal(t, RelationMatch, scored[0].Breakdown.Relation)
	assert.Equal(t, RelationMatch, scored[1].Breakdown.Relation)
	assert.Greater(t, scored[0].SimilarityScore, 0.5)
	assert.Equal(t, RelationIncompatible, scored[2].Breakdown.Relation)
	assert.Less(t, scored[2].SimilarityScore, 0.15)
}
