// Package cache keeps computed analytics reports in Redis until the
// wardrobe changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/omara/internal/analytics"
	"github.com/erazemk/omara/internal/model"
)

// DefaultKey prefixes the Redis keys holding cached reports.
const DefaultKey = "omara:analytics"

// DefaultTTL bounds how long a report survives without an invalidation.
const DefaultTTL = time.Hour

// Reports caches analytics reports in one Redis hash per cache generation,
// one field per reference date and limit. Invalidate starts a new
// generation, so a report computed before a wardrobe change is written
// where no later lookup reads it.
type Reports struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewReports returns a report cache on client. Empty key and non-positive
// ttl fall back to DefaultKey and DefaultTTL.
func NewReports(client *redis.Client, key string, ttl time.Duration) *Reports {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Reports{client: client, key: key, ttl: ttl}
}

func (r *Reports) genKey() string {
	return r.key + ":gen"
}

func (r *Reports) hashKey(gen int64) string {
	return r.key + ":" + strconv.FormatInt(gen, 10)
}

func field(ref model.Date, n int) string {
	return ref.String() + ":" + strconv.Itoa(n)
}

// Get returns the cached report, or nil on a miss, along with the
// generation it looked in. Pass that generation to Set.
func (r *Reports) Get(ctx context.Context, ref model.Date, n int) (*analytics.Report, int64, error) {
	gen, err := r.client.Get(ctx, r.genKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("reading cache generation: %w", err)
	}

	data, err := r.client.HGet(ctx, r.hashKey(gen), field(ref, n)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, gen, fmt.Errorf("reading cached report: %w", err)
	}

	var report analytics.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, gen, fmt.Errorf("decoding cached report: %w", err)
	}
	return &report, gen, nil
}

// Set stores report under generation gen and refreshes its expiry.
func (r *Reports) Set(ctx context.Context, gen int64, ref model.Date, n int, report analytics.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	key := r.hashKey(gen)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field(ref, n), data)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("caching report: %w", err)
	}
	return nil
}

// Invalidate starts a new generation. Reports from earlier generations
// are no longer read and expire with their TTL.
func (r *Reports) Invalidate(ctx context.Context) error {
	if err := r.client.Incr(ctx, r.genKey()).Err(); err != nil {
		return fmt.Errorf("invalidating reports: %w", err)
	}
	return nil
}
