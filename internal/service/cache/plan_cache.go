package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"LaunchCast/internal/domain/models"
	"LaunchCast/internal/domain/repository"
)

// PlanCache stores finished plans as JSON in a BytesCache.
type PlanCache struct {
	store BytesCache
	ttl   time.Duration
}

func NewPlanCache(store BytesCache, ttl time.Duration) *PlanCache {
	return &PlanCache{store: store, ttl: ttl}
}

func (p *PlanCache) Get(ctx context.Context, key string) (*models.PlanResult, bool, error) {
	b, ok, err := p.store.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var res models.PlanResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, false, fmt.Errorf("decode cached plan: %w", err)
	}
	return &res, true, nil
}

func (p *PlanCache) Set(ctx context.Context, key string, result *models.PlanResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return p.store.SetBytes(ctx, key, b, p.ttl)
}

// Key hashes a JSON-encodable request together with a scope string (for
// example the current month) into a stable cache key.
func Key(scope string, request any) (string, error) {
	b, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(scope))
	h.Write([]byte{0})
	h.Write(b)
	return "plan:" + hex.EncodeToString(h.Sum(nil)), nil
}

var _ repository.PlanCache = (*PlanCache)(nil)
