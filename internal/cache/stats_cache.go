package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const recentSubmissionsMax = 100

// StatsCache keeps the review dashboard counters in Redis: intake
// counts per triage status and a recency-ordered set of submissions.
type StatsCache interface {
	IncrStatus(ctx context.Context, status string) error
	MoveStatus(ctx context.Context, from, to string) error
	StatusCounts(ctx context.Context) (map[string]int64, error)

	RecordSubmission(ctx context.Context, intakeID string, submittedAt time.Time) error
	RecentSubmissions(ctx context.Context, limit int64) ([]string, error)
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new review stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

func (c *statsCache) statusKey() string {
	return "intakes:stats:status"
}

func (c *statsCache) recentKey() string {
	return "intakes:recent"
}

func (c *statsCache) IncrStatus(ctx context.Context, status string) error {
	return c.client.HIncrBy(ctx, c.statusKey(), status, 1).Err()
}

func (c *statsCache) MoveStatus(ctx context.Context, from, to string) error {
	if err := c.client.HIncrBy(ctx, c.statusKey(), from, -1).Err(); err != nil {
		return err
	}
	return c.client.HIncrBy(ctx, c.statusKey(), to, 1).Err()
}

func (c *statsCache) StatusCounts(ctx context.Context) (map[string]int64, error) {
	data, err := c.client.HGetAll(ctx, c.statusKey()).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(data))
	for status, raw := range data {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		counts[status] = n
	}
	return counts, nil
}

func (c *statsCache) RecordSubmission(ctx context.Context, intakeID string, submittedAt time.Time) error {
	key := c.recentKey()
	if err := c.client.ZAdd(ctx, key, redis.Z{
		Score:  float64(submittedAt.Unix()),
		Member: intakeID,
	}).Err(); err != nil {
		return err
	}
	// trim so the set cannot grow unbounded
	return c.client.ZRemRangeByRank(ctx, key, 0, -(recentSubmissionsMax + 1)).Err()
}

func (c *statsCache) RecentSubmissions(ctx context.Context, limit int64) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	return c.client.ZRevRange(ctx, c.recentKey(), 0, limit-1).Result()
}
