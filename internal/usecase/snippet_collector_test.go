package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"LaunchCast/internal/domain/models"
	drepo "LaunchCast/internal/domain/repository"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	name     string
	snippets []models.RawCandidateSnippet
	err      error
	delay    time.Duration
	calls    int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, _ models.TargetProduct) ([]models.RawCandidateSnippet, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.snippets, f.err
}

func toSources(srcs ...*fakeSource) []drepo.SnippetSource {
	out := make([]drepo.SnippetSource, len(srcs))
	for i, s := range srcs {
		out[i] = s
	}
	return out
}

func TestCollectKeepsRegistrationOrder(t *testing.T) {
	slow := &fakeSource{name: "slow", delay: 20 * time.Millisecond, snippets: []models.RawCandidateSnippet{{Title: "first"}}}
	fast := &fakeSource{name: "fast", snippets: []models.RawCandidateSnippet{{Title: "second"}, {Title: "third"}}}

	res := NewSnippetCollector(toSources(slow, fast), time.Second, nil, nil).Collect(context.Background(), fit5())
	assert.Empty(t, res.Failures)
	titles := make([]string, len(res.Snippets))
	for i, s := range res.Snippets {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles)
}

func TestCollectToleratesFailures(t *testing.T) {
	bad := &fakeSource{name: "bad", err: errors.New("boom")}
	hung := &fakeSource{name: "hung", delay: time.Second}
	good := &fakeSource{name: "good", snippets: []models.RawCandidateSnippet{{Title: "ok"}}}

	res := NewSnippetCollector(toSources(bad, hung, good), 30*time.Millisecond, nil, nil).Collect(context.Background(), fit5())
	assert.Equal(t, []string{"bad", "hung"}, res.Failures)
	assert.Len(t, res.Snippets, 1)
}

func TestCollectWithoutSources(t *testing.T) {
	c := NewSnippetCollector(nil, 0, nil, nil)
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Collect(context.Background(), fit5()).Snippets)
}
