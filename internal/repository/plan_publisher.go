package repository

import (
	"context"
	"fmt"
	"time"

	"LaunchCast/internal/domain/models"
	"LaunchCast/internal/domain/repository"
	pkgkafka "LaunchCast/pkg/kafka"
)

// PlanCompletedEvent is the message reporting collaborators consume.
type PlanCompletedEvent struct {
	RunID           string  `json:"run_id"`
	GeneratedAt     string  `json:"generated_at"`
	Target          string  `json:"target"`
	Category        string  `json:"category"`
	Candidates      int     `json:"candidates"`
	TopCandidate    string  `json:"top_candidate,omitempty"`
	GrowthRate      float64 `json:"growth_rate"`
	ConfidenceScore float64 `json:"confidence_score"`
	FirstMonth      float64 `json:"first_month_estimate"`
	HorizonTotal    float64 `json:"horizon_total"`
	Fallback        bool    `json:"fallback"`
	PublishedAt     int64   `json:"published_at"`
}

// NewPlanCompletedEvent summarizes a plan for publishing.
func NewPlanCompletedEvent(r *models.PlanResult, now time.Time) PlanCompletedEvent {
	ev := PlanCompletedEvent{
		RunID:           r.RunID,
		GeneratedAt:     r.GeneratedAt,
		Target:          r.Target.Name,
		Category:        r.Target.Category,
		Candidates:      r.Candidates.Len(),
		GrowthRate:      r.Forecast.GrowthRate,
		ConfidenceScore: r.Forecast.ConfidenceScore,
		Fallback:        r.Forecast.Fallback,
		PublishedAt:     now.Unix(),
	}
	if r.Candidates.Len() > 0 {
		ev.TopCandidate = r.Candidates.Candidates[0].NormalizedName
	}
	for i, hp := range r.Forecast.HorizonPoints {
		if i == 0 {
			ev.FirstMonth = hp.PointEstimate
		}
		ev.HorizonTotal += hp.PointEstimate
	}
	return ev
}

// Publisher is the subset of *pkgkafka.Producer the plan publisher uses.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaPlanPublisher implements PlanPublisher on top of the Kafka producer.
type KafkaPlanPublisher struct {
	producer Publisher
	topic    string
	now      func() time.Time
}

// NewKafkaPlanPublisher creates a Kafka-backed plan publisher.
func NewKafkaPlanPublisher(p Publisher, topic string) repository.PlanPublisher {
	return &KafkaPlanPublisher{producer: p, topic: topic, now: time.Now}
}

// Publish keys the event by run ID so every event of a run lands on one partition.
func (p *KafkaPlanPublisher) Publish(ctx context.Context, result *models.PlanResult) error {
	if result == nil {
		return nil
	}
	ev := NewPlanCompletedEvent(result, p.now())
	if err := p.producer.Publish(ctx, p.topic, []byte(result.RunID), ev); err != nil {
		return fmt.Errorf("publish plan %s: %w", result.RunID, err)
	}
	return nil
}

func (p *KafkaPlanPublisher) Close() error { return p.producer.Close() }

// NopPlanPublisher drops every event. Used when Kafka is disabled.
type NopPlanPublisher struct{}

func (NopPlanPublisher) Publish(context.Context, *models.PlanResult) error { return nil }
func (NopPlanPublisher) Close() error                                       { return nil }

var (
	_ repository.PlanPublisher = (*KafkaPlanPublisher)(nil)
	_ repository.PlanPublisher = NopPlanPublisher{}
	_ Publisher                = (*pkgkafka.Producer)(nil)
)
