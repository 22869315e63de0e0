package similarity

import (
	"math"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	"LaunchCast/internal/services/catalog"
	xlogger "LaunchCast/pkg/logger"

	"github.com/agnivade/levenshtein"
)

// Family relation labels stored on the score breakdown.
const (
	RelationMatch        = "match"
	RelationIncompatible = "incompatible"
	RelationMismatch     = "mismatch"
)

const (
	sameFamilySimilarity = 0.95
	defaultRelatedness   = 0.10
	nameWeight           = 0.2
	tierWeight           = 0.1
	// Hard cap for the incompatible pair, whatever severity the caller configured.
	incompatibleCeiling = 0.14
)

type weights struct {
	price  float64
	family float64
}

var relationWeights = map[string]weights{
	RelationMatch:        {price: 0.2, family: 0.6},
	RelationIncompatible: {price: 0.05, family: 0.8},
	RelationMismatch:     {price: 0.3, family: 0.5},
}

type familyPair struct{ a, b string }

func pairOf(a, b string) familyPair {
	if a > b {
		a, b = b, a
	}
	return familyPair{a, b}
}

// incompatiblePair are product classes users never compare with each other.
var incompatiblePair = pairOf(models.FamilyFitnessTracker, models.FamilySmartwatch)

// relatedness grades the remaining mismatches; unlisted pairs get defaultRelatedness.
var relatedness = map[familyPair]float64{
	pairOf(models.FamilyTablet, models.FamilyLaptop):                0.40,
	pairOf(models.FamilyTablet, models.FamilyPrimaryPhone):          0.35,
	pairOf(models.FamilyAudioWearable, models.FamilySmartwatch):     0.30,
	pairOf(models.FamilyAudioWearable, models.FamilyFitnessTracker): 0.30,
	pairOf(models.FamilyLaptop, models.FamilyPrimaryPhone):          0.20,
	pairOf(models.FamilyPrimaryPhone, models.FamilySmartwatch):      0.15,
	pairOf(models.FamilyPrimaryPhone, models.FamilyFitnessTracker):  0.15,
	pairOf(models.FamilyPrimaryPhone, models.FamilyAudioWearable):   0.15,
}

// Scorer computes the weighted multi-factor similarity of candidates to the target.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score returns a copy of candidates with SimilarityScore and Breakdown set.
// Candidates must already carry a family tag.
func (s *Scorer) Score(rc domsvc.RunContext, target models.TargetProfile, candidates []models.CandidateProduct) []models.CandidateProduct {
	severity := rc.Options.IncompatibilitySeverity
	if severity <= 0 {
		severity = models.DefaultIncompatibilitySeverity
	}
	out := make([]models.CandidateProduct, len(candidates))
	for i, c := range candidates {
		c.SimilarityScore, c.Breakdown = ScoreCandidate(target, c, severity)
		out[i] = c
	}
	rc.Log().Debug("candidates scored", xlogger.Int("count", len(out)))
	return out
}

// ScoreCandidate scores one candidate. The result is always within [0,1], and
// below 0.15 for the incompatible family pair.
func ScoreCandidate(target models.TargetProfile, c models.CandidateProduct, severity float64) (float64, models.ScoreBreakdown) {
	relation, family := FamilySimilarity(target.FamilyTag, c.FamilyTag, severity)
	w := relationWeights[relation]

	price := PriceSimilarity(target.Price, c.EstimatedPrice)
	name := NameSeriesSimilarity(target, c)
	tier := TierBonus(target.PriceTier, catalog.PriceTier(target.Category, c.EstimatedPrice))

	if relation == RelationIncompatible {
		// Name and tier affinity cannot lift an incompatible pair.
		gate := family / sameFamilySimilarity
		name *= gate
		tier *= gate
	}

	score := price*w.price + family*w.family + name*nameWeight + tier*tierWeight
	score = clamp01(score)
	if relation == RelationIncompatible && score > incompatibleCeiling {
		score = incompatibleCeiling
	}

	return score, models.ScoreBreakdown{
		Price:        price,
		Family:       family,
		NameSeries:   name,
		TierBonus:    tier,
		PriceWeight:  w.price,
		FamilyWeight: w.family,
		Relation:     relation,
	}
}

// PriceSimilarity = 1 - |c - t| / max(c, t, 100).
func PriceSimilarity(target, candidate float64) float64 {
	denom := math.Max(math.Max(candidate, target), 100)
	return clamp01(1 - math.Abs(candidate-target)/denom)
}

// FamilySimilarity classifies the tag relation and returns its similarity.
func FamilySimilarity(targetTag, candidateTag string, severity float64) (string, float64) {
	if targetTag == candidateTag {
		return RelationMatch, sameFamilySimilarity
	}
	if pairOf(targetTag, candidateTag) == incompatiblePair {
		return RelationIncompatible, clamp01(severity)
	}
	if r, ok := relatedness[pairOf(targetTag, candidateTag)]; ok {
		return RelationMismatch, r
	}
	return RelationMismatch, defaultRelatedness
}

// NameSeriesSimilarity rewards a shared product line (fading with generation
// distance), then a shared brand graded by line-name edit distance.
func NameSeriesSimilarity(target models.TargetProfile, c models.CandidateProduct) float64 {
	if target.LineKey != "" && target.LineKey == c.LineKey {
		gap := 1
		if target.Generation > 0 && c.Generation > 0 {
			gap = absInt(target.Generation - c.Generation)
		}
		return math.Max(0.8, 0.95-0.05*float64(maxInt(0, gap-1)))
	}
	if target.Brand != "" && target.Brand == c.Brand {
		return 0.7 + 0.1*editRatio(target.LineKey, c.LineKey)
	}
	return 0.5
}

// TierBonus is 0.2 for the same price tier, 0.1 for adjacent tiers.
func TierBonus(a, b string) float64 {
	switch absInt(catalog.TierRank(a) - catalog.TierRank(b)) {
	case 0:
		return 0.2
	case 1:
		return 0.1
	default:
		return 0
	}
}

func editRatio(a, b string) float64 {
	longest := maxInt(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return clamp01(1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var _ domsvc.SimilarityScorer = (*Scorer)(nil)
