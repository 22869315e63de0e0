package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	plansTotal      *prometheus.CounterVec
	fallbacksTotal  *prometheus.CounterVec
	skippedSnippets prometheus.Counter
	rankedHist      prometheus.Histogram
	stageLatency    *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
}

// New creates a recorder registered with the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		plansTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchcast_plans_total",
				Help: "Planning runs by outcome",
			},
			[]string{"outcome"},
		),
		fallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchcast_fallbacks_total",
				Help: "Fallback paths taken by kind",
			},
			[]string{"kind"},
		),
		skippedSnippets: f.NewCounter(
			prometheus.CounterOpts{
				Name: "launchcast_skipped_snippets_total",
				Help: "Snippets dropped by the normalizer",
			},
		),
		rankedHist: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launchcast_ranked_candidates",
				Help:    "Candidates kept after ranking",
				Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
			},
		),
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launchcast_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchcast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchcast_plan_cache_total",
				Help: "Plan cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordPlan counts a finished run.
func (r *Recorder) RecordPlan(outcome string) {
	r.plansTotal.WithLabelValues(outcome).Inc()
}

// RecordFallback counts a fallback path.
func (r *Recorder) RecordFallback(kind string) {
	r.fallbacksTotal.WithLabelValues(kind).Inc()
}

// RecordSkippedSnippets adds dropped snippets.
func (r *Recorder) RecordSkippedSnippets(n int) {
	if n > 0 {
		r.skippedSnippets.Add(float64(n))
	}
}

// RecordRankedCandidates observes the size of a ranked set.
func (r *Recorder) RecordRankedCandidates(n int) {
	r.rankedHist.Observe(float64(n))
}

// RecordStageLatency records a stage duration.
func (r *Recorder) RecordStageLatency(stage string, d time.Duration) {
	r.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache counts a cache hit, miss or error.
func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordPlan(string)                        {}
func (Nop) RecordFallback(string)                    {}
func (Nop) RecordSkippedSnippets(int)                {}
func (Nop) RecordRankedCandidates(int)               {}
func (Nop) RecordStageLatency(string, time.Duration) {}
func (Nop) RecordError(string)                       {}
func (Nop) RecordCache(string)                       {}
