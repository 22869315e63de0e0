package repository

import (
	"context"
	"time"

	"LaunchCast/internal/domain/models"
)

// SnippetSource is an external lookup collaborator returning raw candidate text.
type SnippetSource interface {
	Name() string
	Fetch(ctx context.Context, target models.TargetProduct) ([]models.RawCandidateSnippet, error)
}

// PlanPublisher hands finished plans to reporting collaborators.
type PlanPublisher interface {
	Publish(ctx context.Context, result *models.PlanResult) error
	Close() error
}

// PlanCache stores finished plans by request key.
type PlanCache interface {
	Get(ctx context.Context, key string) (*models.PlanResult, bool, error)
	Set(ctx context.Context, key string, result *models.PlanResult) error
}

type Metrics interface {
	RecordPlan(outcome string)
	RecordFallback(kind string)
	RecordSkippedSnippets(n int)
	RecordRankedCandidates(n int)
	RecordStageLatency(stage string, d time.Duration)
	RecordError(kind string)
	RecordCache(result string)
}
