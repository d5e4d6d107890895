// Package notifier hands newly created matches to the downstream push
// delivery service through a Redis list. Delivery itself is not this
// service's concern; enqueueing is best-effort and must never fail a
// match creation.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Queue pushes match ids onto a Redis list consumed by the notification
// dispatcher.
type Queue struct {
	rdb *redis.Client
	key string
	log *slog.Logger
}

func NewQueue(rdb *redis.Client, key string, log *slog.Logger) *Queue {
	return &Queue{rdb: rdb, key: key, log: log}
}

// Enqueue appends a match id to the queue.
func (q *Queue) Enqueue(ctx context.Context, matchID string) error {
	if err := q.rdb.LPush(ctx, q.key, matchID).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", q.key, err)
	}

	return nil
}
