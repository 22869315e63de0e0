package similarity

import (
	"testing"

	"LaunchCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredCandidate(name string, score float64, labels ...string) models.CandidateProduct {
	return models.CandidateProduct{NormalizedName: name, SimilarityScore: score, SourceLabels: labels}
}

func names(cs []models.CandidateProduct) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.NormalizedName
	}
	return out
}

func TestDeduplicateKeepsBestScoreAndUnionsLabels(t *testing.T) {
	in := []models.CandidateProduct{
		scoredCandidate("Galaxy Watch7", 0.4, "news"),
		scoredCandidate("Galaxy Fit4", 0.8, "retailer"),
		scoredCandidate("galaxy  watch7", 0.6, "review", "news"),
	}
	in[2].EstimatedPrice = 299

	out := Deduplicate(in)
	require.Len(t, out, 2)
	assert.Equal(t, "galaxy  watch7", out[0].NormalizedName)
	assert.Equal(t, 0.6, out[0].SimilarityScore)
	assert.Equal(t, 299.0, out[0].EstimatedPrice)
	assert.Equal(t, []string{"news", "review"}, out[0].SourceLabels)
	assert.Equal(t, "Galaxy Fit4", out[1].NormalizedName)

	// input untouched
	assert.Equal(t, []string{"news"}, in[0].SourceLabels)
}

func TestRankExcludesTargetAndSortsStably(t *testing.T) {
	target := fit5Target()
	scored := []models.CandidateProduct{
		scoredCandidate("Galaxy Fit3", 0.7, "news"),
		scoredCandidate("galaxy fit 5", 0.99, "news"),
		scoredCandidate("Galaxy Fit4", 0.9, "news"),
		scoredCandidate("Fitbit Charge 6", 0.7, "review"),
		scoredCandidate("Galaxy Fit4", 0.85, "retailer"),
	}

	set := NewRanker().Rank(rc(models.EngineOptions{}), target, scored)
	assert.Equal(t, []string{"Galaxy Fit4", "Galaxy Fit3", "Fitbit Charge 6"}, names(set.Candidates))
	assert.Equal(t, 5, set.Considered)
	assert.Equal(t, 1, set.Duplicates)
	assert.Equal(t, 1, set.SelfExcluded)
	assert.Zero(t, set.Truncated)
	assert.Equal(t, []string{"news", "retailer"}, set.Candidates[0].SourceLabels)
}

func TestRankTruncatesToTopN(t *testing.T) {
	var scored []models.CandidateProduct
	for i, n := range []string{"A1", "A2", "A3", "A4", "A5"} {
		scored = append(scored, scoredCandidate(n, float64(i)/10, "news"))
	}

	set := NewRanker().Rank(rc(models.EngineOptions{TopN: 2}), fit5Target(), scored)
	assert.Equal(t, []string{"A5", "A4"}, names(set.Candidates))
	assert.Equal(t, 3, set.Truncated)
	assert.Equal(t, 2, set.Len())
}

func TestRankIsDeterministic(t *testing.T) {
	target := fit5Target()
	build := func() []models.CandidateProduct {
		return NewScorer().Score(rc(models.EngineOptions{}), target, []models.CandidateProduct{
			candidate("Galaxy Watch7", 300, "news"),
			candidate("Galaxy Fit3", 60, "retailer"),
			candidate("Galaxy Fit4", 90, "review"),
			candidate("Galaxy Buds3", 150, "news"),
		})
	}

	first := NewRanker().Rank(rc(models.EngineOptions{}), target, build())
	second := NewRanker().Rank(rc(models.EngineOptions{}), target, build())
	assert.Equal(t, first, second)
	assert.Equal(t, "Galaxy Fit4", first.Candidates[0].NormalizedName)
	assert.Equal(t, "Galaxy Watch7", first.Candidates[len(first.Candidates)-1].NormalizedName)
}

func TestRankEmptyInput(t *testing.T) {
	set := NewRanker().Rank(rc(models.EngineOptions{}), fit5Target(), nil)
	assert.Zero(t, set.Len())
	assert.Zero(t, set.Considered)
}
