// Package reporting serves the dashboard aggregates. Stats are recomputed
// from the full invoice collection and cached in Redis for a short TTL.
package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/rainline/rainline/internal/billing/invoices"
)

const statsCacheKey = "rainline:stats:invoices"

// Service computes and caches invoice dashboard stats.
type Service struct {
	logger  *slog.Logger
	repo    invoices.Repository
	cache   *redis.Client
	ttl     time.Duration
	group   singleflight.Group
}

func NewService(logger *slog.Logger, repo invoices.Repository, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{logger: logger, repo: repo, cache: cache, ttl: ttl}
}

// Stats returns the cached dashboard aggregates, recomputing on a miss.
// Concurrent misses collapse into a single recomputation.
func (s *Service) Stats(ctx context.Context) (invoices.Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var stats invoices.Stats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read", slog.Any("error", err))
		}
	}

	result, err, _ := s.group.Do(statsCacheKey, func() (interface{}, error) {
		return s.recompute(ctx)
	})
	if err != nil {
		return invoices.Stats{}, err
	}
	return result.(invoices.Stats), nil
}

// Refresh recomputes the stats and rewrites the cache entry. Used by the
// warmup job so dashboard reads stay warm.
func (s *Service) Refresh(ctx context.Context) (invoices.Stats, error) {
	return s.recompute(ctx)
}

func (s *Service) recompute(ctx context.Context) (invoices.Stats, error) {
	list, err := invoices.ListAll(ctx, s.repo, invoices.ListInvoicesRequest{})
	if err != nil {
		return invoices.Stats{}, fmt.Errorf("reporting: fetch invoices: %w", err)
	}

	stats := invoices.Reduce(list, time.Now())

	if s.cache != nil {
		raw, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
				s.logger.Warn("stats cache write", slog.Any("error", err))
			}
		}
	}
	return stats, nil
}
