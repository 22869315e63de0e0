package forecast

import (
	"math"
	"time"

	"LaunchCast/internal/domain/models"
	domsvc "LaunchCast/internal/domain/service"
	xlogger "LaunchCast/pkg/logger"
	"LaunchCast/pkg/util"

	"gonum.org/v1/gonum/stat"
)

// Conservative assumptions used when there are no candidates to learn from.
const (
	FallbackGrowthRate  = 0.03
	FallbackBandWidth   = 0.30
	FallbackConfidence  = 0.2
	FallbackVariance    = 0.3
	minGrowthRate       = 0.02
	growthPerRecentRate = 0.08
	boundSpread         = 0.6
	premiumThreshold    = 1.2
	valueThreshold      = 0.8
	premiumMultiplier   = 0.8
	valueMultiplier     = 1.3
	// A launch further out than this is projected from the cap.
	maxLaunchLead = 60
)

// Forecaster projects the synthesized history over the horizon.
type Forecaster struct{}

func NewForecaster() *Forecaster { return &Forecaster{} }

// Forecast fits a recency-weighted linear trend and layers growth, competitive
// pressure and price positioning on top. Empty insights take the conservative path.
func (f *Forecaster) Forecast(rc domsvc.RunContext, target models.TargetProfile, history models.HistoricalSeries, insights models.CandidateInsights) models.ForecastResult {
	horizon := rc.Options.HorizonMonths
	if horizon <= 0 {
		horizon = models.DefaultHorizonMonths
	}
	ys := history.Volumes()
	lead := LaunchLead(target, history)

	if insights.Empty() {
		alpha, beta := FitTrend(ys, 1)
		res := project(history, horizon, lead, alpha, beta, FallbackGrowthRate, 1, projection{
			confidence: FallbackConfidence,
			band:       FallbackBandWidth,
			variance:   FallbackVariance,
		})
		res.Drivers = models.ForecastDrivers{
			RecencyMultiplier:   1,
			CompetitiveDampener: 1,
			PriceMultiplier:     1,
			VarianceFactor:      FallbackVariance,
			Slope:               beta,
			Intercept:           alpha,
		}
		res.Fallback = true
		rc.Log().Info("conservative forecast", xlogger.Int("horizon", horizon))
		return res
	}

	recency := RecencyMultiplier(insights.RecentLaunchRatio)
	alpha, beta := FitTrend(ys, recency)
	growth := GrowthRate(insights.RecentLaunchRatio)
	damp := CompetitiveDampener(insights.AverageSimilarity)
	priceMult := PriceMultiplier(target.Price, insights.AverageTopPrice)
	conf := Confidence(insights)
	vf := VarianceFactor(insights)

	res := project(history, horizon, lead, alpha, beta, growth, damp*priceMult, projection{
		confidence: conf,
		band:       (1 - conf) * boundSpread,
		variance:   vf,
	})
	res.Drivers = models.ForecastDrivers{
		RecencyMultiplier:   recency,
		CompetitiveDampener: damp,
		PriceMultiplier:     priceMult,
		VarianceFactor:      vf,
		Slope:               beta,
		Intercept:           alpha,
	}
	rc.Log().Debug("forecast projected",
		xlogger.Float64("growth_rate", growth),
		xlogger.Float64("confidence", conf),
		xlogger.Float64("price_multiplier", priceMult),
	)
	return res
}

type projection struct {
	confidence float64
	band       float64 // relative half-width of the confidence bounds
	variance   float64 // relative scenario spread
}

// project extrapolates the trend. The first horizon month lies lead months after
// the last history month; growth compounds from the end of the history.
func project(history models.HistoricalSeries, horizon, lead int, alpha, beta, growth, multiplier float64, p projection) models.ForecastResult {
	if lead < 1 {
		lead = 1
	}
	n := len(history.Points)
	res := models.ForecastResult{
		HorizonPoints: make([]models.HorizonPoint, horizon),
		ScenarioBands: models.ScenarioBands{
			Optimistic:  make([]float64, horizon),
			Realistic:   make([]float64, horizon),
			Pessimistic: make([]float64, horizon),
		},
		GrowthRate:      growth,
		ConfidenceScore: clamp01(p.confidence),
	}

	lastMonth, hasMonth := lastSeriesMonth(history)
	if hasMonth {
		res.StartMonth = util.MonthKey(util.AddMonths(lastMonth, lead))
	}
	for k := 1; k <= horizon; k++ {
		ahead := lead - 1 + k
		trend := math.Max(0, alpha+beta*float64(n-1+ahead))
		point := nonNegative(trend * math.Pow(1+growth, float64(ahead)/12) * multiplier)
		spread := point * p.band

		hp := models.HorizonPoint{
			MonthIndex:    k,
			PointEstimate: point,
			LowerBound:    math.Max(0, point-spread),
			UpperBound:    point + spread,
		}
		if hasMonth {
			hp.Month = util.MonthKey(util.AddMonths(lastMonth, ahead))
		}
		res.HorizonPoints[k-1] = hp
		res.ScenarioBands.Optimistic[k-1] = point * (1 + p.variance)
		res.ScenarioBands.Realistic[k-1] = point
		res.ScenarioBands.Pessimistic[k-1] = math.Max(0, point*(1-p.variance))
	}
	return res
}

// FitTrend fits y = alpha + beta*x by weighted least squares, x being the month
// index and weights rising linearly from 1 (oldest) to recency (newest). Series
// too short or degenerate to fit come back flat at their first value.
func FitTrend(ys []float64, recency float64) (alpha, beta float64) {
	switch len(ys) {
	case 0:
		return 0, 0
	case 1:
		return ys[0], 0
	}
	xs := make([]float64, len(ys))
	ws := make([]float64, len(ys))
	last := float64(len(ys) - 1)
	for i := range ys {
		xs[i] = float64(i)
		ws[i] = 1 + (recency-1)*float64(i)/last
	}
	alpha, beta = stat.LinearRegression(xs, ys, ws, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return ys[0], 0
	}
	return alpha, beta
}

// RecencyMultiplier is the newest-month weight: 1 + recent launch ratio, in [1, 2].
func RecencyMultiplier(recentRatio float64) float64 {
	return 1 + clamp01(recentRatio)
}

// GrowthRate is the annual launch-velocity growth, in [0.02, 0.10].
func GrowthRate(recentRatio float64) float64 {
	return minGrowthRate + growthPerRecentRate*clamp01(recentRatio)
}

// CompetitiveDampener shrinks the projection when candidates are very similar,
// i.e. the market is crowded. Ranges from 1 down to 0.7.
func CompetitiveDampener(avgSimilarity float64) float64 {
	crowding := math.Max(0, clamp01(avgSimilarity)-0.5) / 0.5
	return 1 - 0.3*crowding
}

// PriceMultiplier rewards value pricing and penalizes premium pricing relative
// to the top candidates' average price.
func PriceMultiplier(targetPrice, avgTopPrice float64) float64 {
	if avgTopPrice <= 0 || targetPrice <= 0 {
		return 1
	}
	switch {
	case targetPrice > avgTopPrice*premiumThreshold:
		return premiumMultiplier
	case targetPrice < avgTopPrice*valueThreshold:
		return valueMultiplier
	default:
		return 1
	}
}

// Confidence blends similarity agreement, source diversity and similarity
// level, scaled down for sets of fewer than three candidates.
func Confidence(ins models.CandidateInsights) float64 {
	if ins.Empty() {
		return FallbackConfidence
	}
	agreement := 1 - math.Min(1, ins.SimilarityVariance/0.05)
	c := 0.4*agreement + 0.35*clamp01(ins.SourceDiversity) + 0.25*clamp01(ins.AverageSimilarity)
	return clamp01(c * math.Min(1, float64(ins.Count)/3))
}

// VarianceFactor sizes the scenario spread from the dispersion of candidate
// prices, similarities and launch years.
func VarianceFactor(ins models.CandidateInsights) float64 {
	if ins.Empty() {
		return FallbackVariance
	}
	v := 0.05 + 0.5*ins.PriceCV + 0.5*math.Sqrt(math.Max(0, ins.SimilarityVariance)) + 0.05*ins.LaunchYearStdDev
	if math.IsNaN(v) {
		return FallbackVariance
	}
	return math.Max(0.05, math.Min(0.5, v))
}

// LaunchLead is how many months after the last history month the horizon starts:
// the target's launch month when it lies after the history, otherwise the next month.
func LaunchLead(target models.TargetProfile, history models.HistoricalSeries) int {
	last, ok := lastSeriesMonth(history)
	if !ok || target.LaunchMonth == "" {
		return 1
	}
	launch, ok := util.ParseMonthKey(target.LaunchMonth)
	if !ok {
		return 1
	}
	lead := util.MonthsBetween(last, launch)
	if lead < 1 {
		return 1
	}
	if lead > maxLaunchLead {
		return maxLaunchLead
	}
	return lead
}

func lastSeriesMonth(history models.HistoricalSeries) (time.Time, bool) {
	if len(history.Points) == 0 {
		return time.Time{}, false
	}
	return util.ParseMonthKey(history.Points[len(history.Points)-1].Month)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

var _ domsvc.TrendForecaster = (*Forecaster)(nil)
