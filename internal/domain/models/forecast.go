package models

// MonthlySeriesPoint is one month of synthesized unit volume.
type MonthlySeriesPoint struct {
	MonthIndex int     `json:"month_index"`
	Month      string  `json:"month"`
	Volume     float64 `json:"volume"`
}

// HistoricalSeries spans the lookback window, oldest month first.
type HistoricalSeries struct {
	Points   []MonthlySeriesPoint `json:"points"`
	Baseline bool                 `json:"baseline"`
}

// Volumes returns the series values in order.
func (s HistoricalSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Volume
	}
	return out
}

// HorizonPoint is one projected month.
type HorizonPoint struct {
	MonthIndex    int     `json:"month_index"`
	Month         string  `json:"month"`
	PointEstimate float64 `json:"point_estimate"`
	LowerBound    float64 `json:"lower_bound"`
	UpperBound    float64 `json:"upper_bound"`
}

// ScenarioBands are aligned index-by-index with ForecastResult.HorizonPoints.
type ScenarioBands struct {
	Optimistic  []float64 `json:"optimistic"`
	Realistic   []float64 `json:"realistic"`
	Pessimistic []float64 `json:"pessimistic"`
}

// ForecastDrivers exposes the multipliers applied on top of the fitted trend.
type ForecastDrivers struct {
	RecencyMultiplier   float64 `json:"recency_multiplier"`
	CompetitiveDampener float64 `json:"competitive_dampener"`
	PriceMultiplier     float64 `json:"price_multiplier"`
	VarianceFactor      float64 `json:"variance_factor"`
	Slope               float64 `json:"slope"`
	Intercept           float64 `json:"intercept"`
}

// ForecastResult is the projected trajectory for the target.
type ForecastResult struct {
	HorizonPoints   []HorizonPoint  `json:"horizon_points"`
	StartMonth      string          `json:"start_month,omitempty"`
	ScenarioBands   ScenarioBands   `json:"scenario_bands"`
	GrowthRate      float64         `json:"growth_rate"`
	ConfidenceScore float64         `json:"confidence_score"`
	Drivers         ForecastDrivers `json:"drivers"`
	Fallback        bool            `json:"fallback"`
}

// CandidateInsights aggregates the ranked set into the forecaster's inputs.
type CandidateInsights struct {
	Count              int     `json:"count"`
	RecentLaunchRatio  float64 `json:"recent_launch_ratio"`
	AverageTopPrice    float64 `json:"average_top_price"`
	PriceDelta         float64 `json:"price_delta"`
	AverageSimilarity  float64 `json:"average_similarity"`
	SimilarityVariance float64 `json:"similarity_variance"`
	SourceDiversity    float64 `json:"source_diversity"`
	PriceCV            float64 `json:"price_cv"`
	LaunchYearStdDev   float64 `json:"launch_year_stddev"`
}

// Empty reports whether there is nothing to derive a forecast from.
func (i CandidateInsights) Empty() bool { return i.Count == 0 }
