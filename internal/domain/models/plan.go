package models

import "strings"

// Engine defaults applied when a knob is left at zero.
const (
	DefaultLookbackMonths          = 36
	DefaultHorizonMonths           = 12
	DefaultTopN                    = 10
	DefaultIncompatibilitySeverity = 0.05
	DefaultVarianceAmplitude       = 0.1
)

// EngineOptions are the per-call knobs of one planning run.
type EngineOptions struct {
	LookbackMonths          int                `json:"lookback_months"`
	HorizonMonths           int                `json:"horizon_months"`
	TopN                    int                `json:"top_n"`
	IncompatibilitySeverity float64            `json:"incompatibility_severity"`
	VarianceAmplitude       float64            `json:"variance_amplitude"`
	Seed                    int64              `json:"seed"`
	FutureProducts          []string           `json:"future_products,omitempty"`
	InterestScores          map[string]float64 `json:"interest_scores,omitempty"`
}

// DefaultEngineOptions returns the documented defaults.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		LookbackMonths:          DefaultLookbackMonths,
		HorizonMonths:           DefaultHorizonMonths,
		TopN:                    DefaultTopN,
		IncompatibilitySeverity: DefaultIncompatibilitySeverity,
		VarianceAmplitude:       DefaultVarianceAmplitude,
	}
}

// WithDefaults fills zero or out-of-range knobs from defaults. A negative
// variance amplitude disables variance entirely.
func (o EngineOptions) WithDefaults() EngineOptions {
	d := DefaultEngineOptions()
	if o.LookbackMonths <= 0 {
		o.LookbackMonths = d.LookbackMonths
	}
	if o.HorizonMonths <= 0 {
		o.HorizonMonths = d.HorizonMonths
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	if o.IncompatibilitySeverity <= 0 || o.IncompatibilitySeverity > 1 {
		o.IncompatibilitySeverity = d.IncompatibilitySeverity
	}
	switch {
	case o.VarianceAmplitude == 0:
		o.VarianceAmplitude = d.VarianceAmplitude
	case o.VarianceAmplitude < 0:
		o.VarianceAmplitude = 0
	case o.VarianceAmplitude > 0.5:
		o.VarianceAmplitude = 0.5
	}
	return o
}

// Merge overlays the non-zero fields of override on o.
func (o EngineOptions) Merge(override EngineOptions) EngineOptions {
	if override.LookbackMonths != 0 {
		o.LookbackMonths = override.LookbackMonths
	}
	if override.HorizonMonths != 0 {
		o.HorizonMonths = override.HorizonMonths
	}
	if override.TopN != 0 {
		o.TopN = override.TopN
	}
	if override.IncompatibilitySeverity != 0 {
		o.IncompatibilitySeverity = override.IncompatibilitySeverity
	}
	if override.VarianceAmplitude != 0 {
		o.VarianceAmplitude = override.VarianceAmplitude
	}
	if override.Seed != 0 {
		o.Seed = override.Seed
	}
	if len(override.FutureProducts) > 0 {
		o.FutureProducts = append(append([]string{}, o.FutureProducts...), override.FutureProducts...)
	}
	if len(override.InterestScores) > 0 {
		merged := make(map[string]float64, len(o.InterestScores)+len(override.InterestScores))
		for k, v := range o.InterestScores {
			merged[k] = v
		}
		for k, v := range override.InterestScores {
			merged[k] = v
		}
		o.InterestScores = merged
	}
	return o
}

// NameKey folds a product name for identity comparisons: case and whitespace are ignored.
func NameKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}

// PlanDiagnostics reports what the run skipped or replaced with fallbacks.
type PlanDiagnostics struct {
	SnippetsReceived int              `json:"snippets_received"`
	SkippedSnippets  int              `json:"skipped_snippets"`
	SourceFailures   []string         `json:"source_failures,omitempty"`
	Normalized       int              `json:"normalized"`
	Duplicates       int              `json:"duplicates"`
	SelfExcluded     int              `json:"self_excluded"`
	Fallbacks        []string         `json:"fallbacks,omitempty"`
	StageMillis      map[string]int64 `json:"stage_millis,omitempty"`
}

// PlanResult is the full output of one planning run.
type PlanResult struct {
	RunID       string             `json:"run_id"`
	GeneratedAt string             `json:"generated_at"`
	Target      TargetProfile      `json:"target"`
	Options     EngineOptions      `json:"options"`
	Candidates  RankedCandidateSet `json:"candidates"`
	Insights    CandidateInsights  `json:"insights"`
	History     HistoricalSeries   `json:"history"`
	Forecast    ForecastResult     `json:"forecast"`
	Diagnostics PlanDiagnostics    `json:"diagnostics"`
	Cached      bool               `json:"cached"`
}

// PlanInput is what callers hand to the planner.
type PlanInput struct {
	Target   TargetProduct         `json:"target"`
	Snippets []RawCandidateSnippet `json:"snippets"`
	Options  EngineOptions         `json:"options"`
	Discover bool                  `json:"discover"`
}

// CandidatesResult is the ranking-only output.
type CandidatesResult struct {
	RunID       string             `json:"run_id"`
	Target      TargetProfile      `json:"target"`
	Options     EngineOptions      `json:"options"`
	Candidates  RankedCandidateSet `json:"candidates"`
	Insights    CandidateInsights  `json:"insights"`
	Diagnostics PlanDiagnostics    `json:"diagnostics"`
}
