package usecase

import (
	"context"
	"time"

	"LaunchCast/internal/domain/models"
	drepo "LaunchCast/internal/domain/repository"
	xlogger "LaunchCast/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// CollectResult is the merged output of every lookup source.
type CollectResult struct {
	Snippets []models.RawCandidateSnippet
	Failures []string
}

// SnippetCollector fans a target out to all lookup sources concurrently.
type SnippetCollector struct {
	sources []drepo.SnippetSource
	timeout time.Duration
	metrics drepo.Metrics
	log     *xlogger.Logger
}

// NewSnippetCollector creates a collector. A zero timeout leaves deadlines to the caller.
func NewSnippetCollector(sources []drepo.SnippetSource, timeout time.Duration, metrics drepo.Metrics, log *xlogger.Logger) *SnippetCollector {
	if log == nil {
		log = xlogger.NewNop()
	}
	return &SnippetCollector{sources: sources, timeout: timeout, metrics: metrics, log: log}
}

func (c *SnippetCollector) Len() int { return len(c.sources) }

// Collect never fails because of a single source. Results keep registration order.
func (c *SnippetCollector) Collect(ctx context.Context, target models.TargetProduct) CollectResult {
	if len(c.sources) == 0 {
		return CollectResult{}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	batches := make([][]models.RawCandidateSnippet, len(c.sources))
	errs := make([]error, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			start := time.Now()
			snippets, err := src.Fetch(gctx, target)
			if c.metrics != nil {
				c.metrics.RecordStageLatency("lookup_"+src.Name(), time.Since(start))
			}
			if err != nil {
				errs[i] = err
				return nil
			}
			batches[i] = snippets
			return nil
		})
	}
	_ = g.Wait()

	var res CollectResult
	for i, src := range c.sources {
		if errs[i] != nil {
			res.Failures = append(res.Failures, src.Name())
			c.log.Warn("lookup source failed",
				xlogger.String("source", src.Name()),
				xlogger.Error(errs[i]),
			)
			if c.metrics != nil {
				c.metrics.RecordError("lookup")
			}
			continue
		}
		res.Snippets = append(res.Snippets, batches[i]...)
	}
	return res
}
