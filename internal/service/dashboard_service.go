package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/lucianocastr/estudiors/internal/domain"
	"github.com/lucianocastr/estudiors/internal/repository"
)

const statsCacheTTL = time.Minute

// StatsCache stores serialized dashboard snapshots. Get reports a miss as
// (nil, nil).
type StatsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type RedisStatsCache struct {
	client *redis.Client
}

func NewRedisStatsCache(client *redis.Client) *RedisStatsCache {
	return &RedisStatsCache{client: client}
}

func (c *RedisStatsCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// DashboardService aggregates panel home-screen counters. The aggregation
// hits three tables, so results are cached for a minute per organization.
type DashboardService struct {
	CaseRepo    repository.CaseRepository
	InquiryRepo repository.InquiryRepository
	AlertRepo   repository.AlertRepository

	cache StatsCache
	now   func() time.Time
}

func NewDashboardService(
	caseRepo repository.CaseRepository,
	inquiryRepo repository.InquiryRepository,
	alertRepo repository.AlertRepository,
	cache StatsCache,
) *DashboardService {
	return &DashboardService{
		CaseRepo:    caseRepo,
		InquiryRepo: inquiryRepo,
		AlertRepo:   alertRepo,
		cache:       cache,
		now:         time.Now,
	}
}

func (s *DashboardService) Stats(ctx context.Context, orgID uuid.UUID) (*domain.DashboardStats, error) {
	key := "cache:dashboard:" + orgID.String()

	if cached, err := s.cache.Get(ctx, key); err != nil {
		logrus.WithError(err).Warn("dashboard cache read failed")
	} else if cached != nil {
		var stats domain.DashboardStats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		logrus.WithField("key", key).Warn("discarding malformed dashboard cache entry")
	}

	cases, err := s.CaseRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	inquiries, err := s.InquiryRepo.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	alerts, err := s.AlertRepo.CountPendingByPriority(ctx, orgID)
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		CasesByStatus:           cases,
		InquiriesByStatus:       inquiries,
		PendingAlertsByPriority: alerts,
		GeneratedAt:             s.now(),
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, encoded, statsCacheTTL); err != nil {
			logrus.WithError(err).Warn("dashboard cache write failed")
		}
	}

	return stats, nil
}
