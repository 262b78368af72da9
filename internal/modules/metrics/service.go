package metrics

import (
	"context"
	"fmt"

	"github.com/socialdash/socialdash/internal/apperror"
)

// MetricsService defines the business logic contract for dashboard metrics.
type MetricsService interface {
	Summary(ctx context.Context, userID string) (*Summary, error)
}

// metricsService implements MetricsService with a Redis cache in front of
// the SQL aggregation.
type metricsService struct {
	repo  SummaryRepository
	cache *Cache
}

// NewMetricsService creates a new metrics service. cache may be nil in
// tests that only exercise the aggregation.
func NewMetricsService(repo SummaryRepository, cache *Cache) MetricsService {
	return &metricsService{repo: repo, cache: cache}
}

// Summary returns the user's aggregated metrics, from cache when possible.
func (s *metricsService) Summary(ctx context.Context, userID string) (*Summary, error) {
	if s.cache != nil {
		if summary := s.cache.Get(ctx, userID); summary != nil {
			return summary, nil
		}
	}

	summary, err := s.repo.Summarize(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("computing summary: %w", err))
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, summary)
	}

	return summary, nil
}
