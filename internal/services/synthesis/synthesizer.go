package synthesis

import (
	"math"
	"time"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	xlogger "LaunchCast/pkg/logger"
	"LaunchCast/pkg/util"
)

// BaselineVolume is the flat value used when there is nothing to synthesize from.
const BaselineVolume = 100.0

// baseVolumes maps price ceilings to assumed monthly units; cheaper sells more.
var baseVolumes = []struct {
	below  float64
	volume float64
}{
	{100, 50000},
	{300, 30000},
	{600, 18000},
	{1000, 10000},
	{math.Inf(1), 5000},
}

// BaseVolume looks up the assumed monthly unit volume for a price.
func BaseVolume(price float64) float64 {
	for _, b := range baseVolumes {
		if price < b.below {
			return b.volume
		}
	}
	return baseVolumes[len(baseVolumes)-1].volume
}

// InterestFactor maps a 0-100 interest score onto [0.3, 2.0].
func InterestFactor(score float64) float64 {
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(100, score))
	return 0.3 + 1.7*score/100
}

// Synthesizer builds the category HistoricalSeries from ranked candidates.
type Synthesizer struct{}

func NewSynthesizer() *Synthesizer { return &Synthesizer{} }

// Synthesize averages per-candidate synthetic monthly volumes over the lookback
// window ending at the run's current month.
func (s *Synthesizer) Synthesize(rc domsvc.RunContext, category string, ranked models.RankedCandidateSet) models.HistoricalSeries {
	months := window(rc)
	if ranked.Len() == 0 {
		rc.Log().Info("no candidates, using baseline series", xlogger.Int("months", len(months)))
		return baselineSeries(months)
	}

	totals := make([]float64, len(months))
	interest := interestLookup(rc)
	for _, c := range ranked.Candidates {
		launch := launchMonth(c)
		base := BaseVolume(c.EstimatedPrice) * InterestFactor(interest(c)) * clamp01(c.SimilarityScore) * SourceReliability(c.SourceLabels)
		for i, m := range months {
			monthsAgo := len(months) - 1 - i
			v := base *
				TimeDecay(monthsAgo) *
				LifecycleFactor(util.MonthsBetween(launch, m)) *
				SeasonalFactor(category, m.Month()) *
				Variance(rc.Rand, rc.Options.VarianceAmplitude)
			totals[i] += math.Max(0, v)
		}
	}

	n := float64(ranked.Len())
	points := make([]models.MonthlySeriesPoint, len(months))
	for i, m := range months {
		points[i] = models.MonthlySeriesPoint{MonthIndex: i, Month: util.MonthKey(m), Volume: totals[i] / n}
	}
	rc.Log().Debug("series synthesized",
		xlogger.Int("candidates", ranked.Len()),
		xlogger.Int("months", len(months)),
	)
	return models.HistoricalSeries{Points: points}
}

func window(rc domsvc.RunContext) []time.Time {
	lookback := rc.Options.LookbackMonths
	if lookback <= 0 {
		lookback = models.DefaultLookbackMonths
	}
	end := util.MonthStart(rc.Now)
	out := make([]time.Time, lookback)
	for i := range out {
		out[i] = util.AddMonths(end, i-(lookback-1))
	}
	return out
}

func baselineSeries(months []time.Time) models.HistoricalSeries {
	points := make([]models.MonthlySeriesPoint, len(months))
	for i, m := range months {
		points[i] = models.MonthlySeriesPoint{MonthIndex: i, Month: util.MonthKey(m), Volume: BaselineVolume}
	}
	return models.HistoricalSeries{Points: points, Baseline: true}
}

func launchMonth(c models.CandidateProduct) time.Time {
	month := c.LaunchMonth
	if month < 1 || month > 12 {
		month = 1
	}
	return time.Date(c.EstimatedLaunchYear, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// interestLookup prefers the injected provider, then per-call overrides keyed by
// name, then the similarity heuristic.
func interestLookup(rc domsvc.RunContext) func(models.CandidateProduct) float64 {
	overrides := make(map[string]float64, len(rc.Options.InterestScores))
	for name, v := range rc.Options.InterestScores {
		overrides[models.NameKey(name)] = v
	}
	return func(c models.CandidateProduct) float64 {
		if rc.Interest != nil {
			if v, ok := rc.Interest.Interest(c); ok {
				return v
			}
		}
		if v, ok := overrides[models.NameKey(c.NormalizedName)]; ok {
			return v
		}
		return c.SimilarityScore * 80
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

var _ domsvc.SeriesSynthesizer = (*Synthesizer)(nil)
