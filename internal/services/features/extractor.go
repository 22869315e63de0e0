package features

import (
	"math"

	"LaunchCast/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

const (
	// topPriceWindow is how many of the best ranked candidates set the reference price.
	topPriceWindow = 5
	// diversitySaturation distinct provenance labels count as fully diverse.
	diversitySaturation = 4.0
	// recentYears is how far back a launch still counts as recent.
	recentYears = 1
)

// ExtractInsights aggregates a ranked candidate set into the forecaster's inputs.
// It returns the zero value (Empty) for an empty set.
func ExtractInsights(ranked models.RankedCandidateSet, targetPrice float64, currentYear int) models.CandidateInsights {
	cs := ranked.Candidates
	if len(cs) == 0 {
		return models.CandidateInsights{}
	}

	prices := make([]float64, len(cs))
	sims := make([]float64, len(cs))
	years := make([]float64, len(cs))
	recent := 0
	for i, c := range cs {
		prices[i] = c.EstimatedPrice
		sims[i] = c.SimilarityScore
		years[i] = float64(c.EstimatedLaunchYear)
		if c.EstimatedLaunchYear >= currentYear-recentYears {
			recent++
		}
	}

	ins := models.CandidateInsights{
		Count:              len(cs),
		RecentLaunchRatio:  float64(recent) / float64(len(cs)),
		AverageTopPrice:    AverageTopPrice(cs),
		AverageSimilarity:  stat.Mean(sims, nil),
		SimilarityVariance: populationVariance(sims),
		SourceDiversity:    SourceDiversity(cs),
		PriceCV:            CoefficientOfVariation(prices),
		LaunchYearStdDev:   math.Sqrt(populationVariance(years)),
	}
	if ins.AverageTopPrice > 0 {
		ins.PriceDelta = (targetPrice - ins.AverageTopPrice) / ins.AverageTopPrice
	}
	return ins
}

// AverageTopPrice is the mean price of the first five candidates. The set is
// expected in rank order.
func AverageTopPrice(cs []models.CandidateProduct) float64 {
	n := len(cs)
	if n > topPriceWindow {
		n = topPriceWindow
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range cs[:n] {
		sum += c.EstimatedPrice
	}
	return sum / float64(n)
}

// SourceDiversity is the number of distinct provenance labels, saturating at 1.
func SourceDiversity(cs []models.CandidateProduct) float64 {
	seen := make(map[string]struct{})
	for _, c := range cs {
		for _, l := range c.SourceLabels {
			seen[l] = struct{}{}
		}
	}
	return math.Min(1, float64(len(seen))/diversitySaturation)
}

// CoefficientOfVariation is stddev/mean, 0 when the mean is not positive.
func CoefficientOfVariation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	if mean <= 0 {
		return 0
	}
	return math.Sqrt(populationVariance(xs)) / mean
}

// populationVariance is stat.PopVariance with short or degenerate input mapped to 0.
func populationVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	v := stat.PopVariance(xs, nil)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
