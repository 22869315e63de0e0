package features

import (
	"testing"

	"LaunchCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func cand(name string, price, sim float64, year int, labels ...string) models.CandidateProduct {
	return models.CandidateProduct{
		NormalizedName:      name,
		EstimatedPrice:      price,
		SimilarityScore:     sim,
		EstimatedLaunchYear: year,
		SourceLabels:        labels,
	}
}

func TestExtractInsightsEmpty(t *testing.T) {
	ins := ExtractInsights(models.RankedCandidateSet{}, 100, 2025)
	assert.True(t, ins.Empty())
	assert.Equal(t, models.CandidateInsights{}, ins)
}

func TestExtractInsights(t *testing.T) {
	set := models.RankedCandidateSet{Candidates: []models.CandidateProduct{
		cand("A", 100, 0.9, 2025, "news"),
		cand("B", 200, 0.7, 2024, "retailer", "news"),
		cand("C", 300, 0.5, 2020, "review"),
		cand("D", 400, 0.5, 2019, "official"),
		cand("E", 500, 0.4, 2018, "forum"),
		cand("F", 9000, 0.1, 2017, "news"),
	}}

	ins := ExtractInsights(set, 150, 2025)
	assert.Equal(t, 6, ins.Count)
	assert.InDelta(t, 2.0/6.0, ins.RecentLaunchRatio, 1e-9)
	assert.InDelta(t, 300, ins.AverageTopPrice, 1e-9)
	assert.InDelta(t, -0.5, ins.PriceDelta, 1e-9)
	assert.InDelta(t, 3.1/6, ins.AverageSimilarity, 1e-9)
	assert.Greater(t, ins.SimilarityVariance, 0.0)
	assert.Equal(t, 1.0, ins.SourceDiversity)
	assert.Greater(t, ins.PriceCV, 1.0)
	assert.Greater(t, ins.LaunchYearStdDev, 2.0)
}

func TestSourceDiversitySaturates(t *testing.T) {
	cs := []models.CandidateProduct{cand("A", 1, 1, 2024, "news"), cand("B", 1, 1, 2024, "news", "review")}
	assert.Equal(t, 0.5, SourceDiversity(cs))
}

func TestVariationOfIdenticalValues(t *testing.T) {
	assert.Zero(t, CoefficientOfVariation([]float64{100, 100, 100}))
	assert.Zero(t, CoefficientOfVariation(nil))
	assert.Zero(t, populationVariance([]float64{0.4}))
	assert.InDelta(t, 0.25, populationVariance([]float64{0, 1}), 1e-12)
}
