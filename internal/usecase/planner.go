package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"LaunchCast/internal/domain/models"
	drepo "LaunchCast/internal/domain/repository"
	domsvc "LaunchCast/internal/domain/service"
	"LaunchCast/internal/service/cache"
	"LaunchCast/internal/services/catalog"
	"LaunchCast/internal/services/features"
	"LaunchCast/internal/services/forecast"
	"LaunchCast/internal/services/similarity"
	"LaunchCast/internal/services/synthesis"
	xlogger "LaunchCast/pkg/logger"
	"LaunchCast/pkg/metrics"
	xutil "LaunchCast/pkg/util"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Plan outcomes recorded in metrics.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeCached   = "cached"
	OutcomeInvalid  = "invalid"
)

const publishTimeout = 5 * time.Second

// Stages bundles the engine components a planner runs in order.
type Stages struct {
	Normalizer  domsvc.CandidateNormalizer
	Classifier  domsvc.FamilyClassifier
	Scorer      domsvc.SimilarityScorer
	Ranker      domsvc.CandidateRanker
	Synthesizer domsvc.SeriesSynthesizer
	Forecaster  domsvc.TrendForecaster
}

// DefaultStages wires the stock engine.
func DefaultStages() Stages {
	return Stages{
		Normalizer:  catalog.NewNormalizer(),
		Classifier:  catalog.NewClassifier(),
		Scorer:      similarity.NewScorer(),
		Ranker:      similarity.NewRanker(),
		Synthesizer: synthesis.NewSynthesizer(),
		Forecaster:  forecast.NewForecaster(),
	}
}

// Planner runs one planning request end to end: gather, normalize, classify,
// score, rank, synthesize and forecast.
type Planner struct {
	stages    Stages
	collector *SnippetCollector
	cache     drepo.PlanCache
	publisher drepo.PlanPublisher
	metrics   drepo.Metrics
	interest  domsvc.InterestProvider
	defaults  models.EngineOptions
	now       func() time.Time
	log       *xlogger.Logger
}

// Option configures Planner.
type Option func(*Planner)

func WithStages(s Stages) Option { return func(p *Planner) { p.stages = s } }

func WithCollector(c *SnippetCollector) Option { return func(p *Planner) { p.collector = c } }

func WithCache(c drepo.PlanCache) Option { return func(p *Planner) { p.cache = c } }

func WithPublisher(pub drepo.PlanPublisher) Option { return func(p *Planner) { p.publisher = pub } }

func WithMetrics(m drepo.Metrics) Option { return func(p *Planner) { p.metrics = m } }

func WithInterestProvider(ip domsvc.InterestProvider) Option {
	return func(p *Planner) { p.interest = ip }
}

// WithDefaults sets the engine options requests are merged over.
func WithDefaults(o models.EngineOptions) Option { return func(p *Planner) { p.defaults = o } }

func WithClock(now func() time.Time) Option { return func(p *Planner) { p.now = now } }

func WithLogger(l *xlogger.Logger) Option { return func(p *Planner) { p.log = l } }

// NewPlanner creates a planner with the stock stages and no cache or publisher.
func NewPlanner(opts ...Option) *Planner {
	p := &Planner{
		stages:   DefaultStages(),
		metrics:  metrics.Nop{},
		defaults: models.DefaultEngineOptions(),
		now:      time.Now,
		log:      xlogger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var validate = validator.New()

// ValidateTarget is the only check that can fail a plan.
func ValidateTarget(t models.TargetProduct) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is empty", models.ErrInvalidTargetProduct)
	}
	if strings.TrimSpace(t.Category) == "" {
		return fmt.Errorf("%w: category is empty", models.ErrInvalidTargetProduct)
	}
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return fmt.Errorf("%w: price is not finite", models.ErrInvalidTargetProduct)
	}
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidTargetProduct, err)
	}
	return nil
}

// Plan builds the ranked candidate set and the forecast for the input target.
func (p *Planner) Plan(ctx context.Context, in models.PlanInput) (*models.PlanResult, error) {
	if err := ValidateTarget(in.Target); err != nil {
		p.metrics.RecordPlan(OutcomeInvalid)
		return nil, err
	}

	now := p.now()
	opts := p.options(in)

	key, keyErr := cache.Key(xutil.MonthKey(now), struct {
		Input   models.PlanInput     `json:"input"`
		Options models.EngineOptions `json:"options"`
	}{in, opts})
	if cached, ok := p.lookupCache(ctx, key, keyErr); ok {
		p.metrics.RecordPlan(OutcomeCached)
		return cached, nil
	}

	rc := p.runContext(now, opts)
	log := rc.Log()
	log.Info("plan started",
		xlogger.String("target", in.Target.Name),
		xlogger.String("category", in.Target.Category),
		xlogger.Int64("seed", opts.Seed),
	)

	res := &models.PlanResult{
		RunID:       rc.RunID,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Options:     opts,
		Diagnostics: models.PlanDiagnostics{StageMillis: map[string]int64{}},
	}
	diag := &res.Diagnostics

	res.Target, res.Candidates = p.rank(ctx, rc, in, diag)

	p.timed(diag, "insights", func() {
		res.Insights = features.ExtractInsights(res.Candidates, res.Target.Price, rc.CurrentYear())
	})
	p.timed(diag, "synthesize", func() {
		res.History = p.stages.Synthesizer.Synthesize(rc, res.Target.Category, res.Candidates)
	})
	if res.History.Baseline {
		log.Warn("falling back to baseline series", xlogger.Error(models.ErrEmptyCandidateSet))
		p.fallback(diag, models.FallbackBaselineSeries)
	}
	p.timed(diag, "forecast", func() {
		res.Forecast = p.stages.Forecaster.Forecast(rc, res.Target, res.History, res.Insights)
	})
	if res.Forecast.Fallback {
		p.fallback(diag, models.FallbackConservativeForecast)
	}

	outcome := OutcomeOK
	if len(diag.Fallbacks) > 0 {
		outcome = OutcomeFallback
	}
	p.metrics.RecordPlan(outcome)
	p.metrics.RecordRankedCandidates(res.Candidates.Len())
	p.metrics.RecordSkippedSnippets(diag.SkippedSnippets)

	log.Info("plan completed",
		xlogger.Int("candidates", res.Candidates.Len()),
		xlogger.Float64("growth_rate", res.Forecast.GrowthRate),
		xlogger.Float64("confidence", res.Forecast.ConfidenceScore),
		xlogger.Strings("fallbacks", diag.Fallbacks),
	)

	p.storeCache(ctx, key, keyErr, res)
	p.publish(ctx, res)
	return res, nil
}

// RankCandidates stops after ranking and returns the candidate set with its insights.
func (p *Planner) RankCandidates(ctx context.Context, in models.PlanInput) (*models.CandidatesResult, error) {
	if err := ValidateTarget(in.Target); err != nil {
		return nil, err
	}
	now := p.now()
	opts := p.options(in)
	rc := p.runContext(now, opts)

	res := &models.CandidatesResult{
		RunID:       rc.RunID,
		Options:     opts,
		Diagnostics: models.PlanDiagnostics{StageMillis: map[string]int64{}},
	}
	res.Target, res.Candidates = p.rank(ctx, rc, in, &res.Diagnostics)
	res.Insights = features.ExtractInsights(res.Candidates, res.Target.Price, rc.CurrentYear())
	p.metrics.RecordRankedCandidates(res.Candidates.Len())
	return res, nil
}

func (p *Planner) rank(ctx context.Context, rc domsvc.RunContext, in models.PlanInput, diag *models.PlanDiagnostics) (models.TargetProfile, models.RankedCandidateSet) {
	target := catalog.Profile(in.Target)

	snippets := append([]models.RawCandidateSnippet(nil), in.Snippets...)
	if in.Discover {
		if p.collector == nil || p.collector.Len() == 0 {
			rc.Log().Warn("discovery requested", xlogger.Error(models.ErrNoSources))
		} else {
			p.timed(diag, "lookup", func() {
				got := p.collector.Collect(ctx, in.Target)
				snippets = append(snippets, got.Snippets...)
				diag.SourceFailures = got.Failures
			})
		}
	}
	diag.SnippetsReceived = len(snippets)

	var norm domsvc.NormalizeResult
	p.timed(diag, "normalize", func() {
		norm = p.stages.Normalizer.Normalize(rc, target, snippets)
	})
	diag.SkippedSnippets = norm.Skipped
	diag.Normalized = len(norm.Candidates)

	p.timed(diag, "classify", func() {
		for i := range norm.Candidates {
			norm.Candidates[i].FamilyTag = p.stages.Classifier.Classify(norm.Candidates[i].NormalizedName)
		}
	})

	var ranked models.RankedCandidateSet
	p.timed(diag, "score", func() {
		scored := p.stages.Scorer.Score(rc, target, norm.Candidates)
		ranked = p.stages.Ranker.Rank(rc, target, scored)
	})
	diag.Duplicates = ranked.Duplicates
	diag.SelfExcluded = ranked.SelfExcluded
	return target, ranked
}

func (p *Planner) options(in models.PlanInput) models.EngineOptions {
	opts := p.defaults.Merge(in.Options).WithDefaults()
	if opts.Seed == 0 {
		opts.Seed = TargetSeed(in.Target)
	}
	return opts
}

func (p *Planner) runContext(now time.Time, opts models.EngineOptions) domsvc.RunContext {
	id := uuid.NewString()
	return domsvc.RunContext{
		RunID:    id,
		Now:      now,
		Options:  opts,
		Rand:     synthesis.NewSource(opts.Seed),
		Interest: p.interest,
		Logger:   p.log.With(xlogger.String("run_id", id)),
	}
}

func (p *Planner) timed(diag *models.PlanDiagnostics, stage string, fn func()) {
	start := time.Now()
	fn()
	d := time.Since(start)
	diag.StageMillis[stage] = d.Milliseconds()
	p.metrics.RecordStageLatency(stage, d)
}

func (p *Planner) fallback(diag *models.PlanDiagnostics, kind string) {
	diag.Fallbacks = append(diag.Fallbacks, kind)
	p.metrics.RecordFallback(kind)
}

func (p *Planner) lookupCache(ctx context.Context, key string, keyErr error) (*models.PlanResult, bool) {
	if p.cache == nil || keyErr != nil {
		return nil, false
	}
	res, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.metrics.RecordError("cache")
		p.log.Warn("plan cache read failed", xlogger.Error(err))
		return nil, false
	}
	if !ok {
		p.metrics.RecordCache("miss")
		return nil, false
	}
	p.metrics.RecordCache("hit")
	res.Cached = true
	return res, true
}

func (p *Planner) storeCache(ctx context.Context, key string, keyErr error, res *models.PlanResult) {
	if p.cache == nil {
		return
	}
	if keyErr != nil {
		p.log.Warn("plan cache key failed", xlogger.Error(keyErr))
		return
	}
	if err := p.cache.Set(ctx, key, res); err != nil {
		p.metrics.RecordError("cache")
		p.log.Warn("plan cache write failed", xlogger.Error(err))
	}
}

// publish outlives request cancellation but not the publish timeout.
func (p *Planner) publish(ctx context.Context, res *models.PlanResult) {
	if p.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.publisher.Publish(pctx, res); err != nil {
		p.metrics.RecordError("publish")
		p.log.Warn("plan publish failed",
			xlogger.String("run_id", res.RunID),
			xlogger.Error(err),
		)
	}
}

// TargetSeed derives a stable non-zero seed from the target identity, so
// repeated requests without an explicit seed reproduce the same plan.
func TargetSeed(t models.TargetProduct) int64 {
	h := fnv.New64a()
	h.Write([]byte(models.NameKey(t.Name)))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(t.Category))))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(t.Price, 'f', 2, 64)))
	seed := int64(h.Sum64() & math.MaxInt64)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// IsInvalidTarget reports whether err came from target validation.
func IsInvalidTarget(err error) bool { return errors.Is(err, models.ErrInvalidTargetProduct) }
