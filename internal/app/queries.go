package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mikiyasegaye/Customer-Experience-Analytics-for-Fintech-Apps/internal/domain"
)

// QueryService is the read side of the reporting API. Aggregates are
// recomputed from the full persisted set on each cache miss.
type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetStats(ctx context.Context) (domain.AggregateStats, error) {
	const key = "stats:all"
	var stats domain.AggregateStats
	if ok, _ := s.cache.Get(ctx, key, &stats); ok {
		return stats, nil
	}
	records, err := s.repo.ListAllReviews(ctx)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	stats = Aggregate(records)
	_ = s.cache.Set(ctx, key, stats, int(s.cacheTTL.Seconds()))
	return stats, nil
}

func (s *QueryService) ListBanks(ctx context.Context) ([]domain.Bank, error) {
	return s.repo.ListBanks(ctx)
}

func (s *QueryService) ListReviews(ctx context.Context, bankID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	key := fmt.Sprintf("reviews:%d:%d:%s", bankID, pg.Limit, pg.Sort)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rp, err := s.repo.ListReviews(ctx, bankID, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy before caching so callers can't mutate the cached value
	cp := domain.ReviewsPage{}
	if n := len(rp.Items); n > 0 {
		cp.Items = make([]domain.ClassifiedReview, n)
		copy(cp.Items, rp.Items)
	}
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// InvalidateStats drops the cached aggregate, e.g. after a pipeline run.
func (s *QueryService) InvalidateStats(ctx context.Context) {
	_ = s.cache.Del(ctx, "stats:all")
}
