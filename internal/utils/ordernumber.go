package utils

import (
	"context" // Context for Redis operations
	"fmt"     // Number formatting
	"strings" // Suffix formatting
	"time"    // Date component

	"github.com/google/uuid"       // Random suffix
	"github.com/redis/go-redis/v9" // Daily sequence
)

// OrderNumbers generates human-readable order numbers.
// Uniqueness is finally enforced by the unique index on orders.order_number.
type OrderNumbers interface {
	Next(ctx context.Context) (string, error)
}

// RandomOrderNumbers yields ORD-YYYYMMDD-XXXXXXXXXX with a random suffix
type RandomOrderNumbers struct {
	Now func() time.Time // Clock, time.Now when nil
}

// Next returns a new order number
func (g RandomOrderNumbers) Next(ctx context.Context) (string, error) {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10] // 40 random bits
	return fmt.Sprintf("ORD-%s-%s", day(g.Now), strings.ToUpper(suffix)), nil
}

// RedisOrderNumbers yields ORD-YYYYMMDD-NNNNNN from a per-day Redis counter
type RedisOrderNumbers struct {
	rdb *redis.Client    // Redis client
	Now func() time.Time // Clock, time.Now when nil
}

// NewRedisOrderNumbers creates a generator backed by Redis INCR
func NewRedisOrderNumbers(rdb *redis.Client) *RedisOrderNumbers {
	return &RedisOrderNumbers{rdb: rdb}
}

// Next increments today's counter and formats it
func (g *RedisOrderNumbers) Next(ctx context.Context) (string, error) {
	d := day(g.Now)
	key := "orders:seq:" + d // One counter per day
	n, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("order sequence: %w", err)
	}
	if n == 1 {
		_ = g.rdb.Expire(ctx, key, 48*time.Hour).Err() // Old counters expire on their own
	}
	return fmt.Sprintf("ORD-%s-%06d", d, n), nil
}

func day(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format("20060102")
}
