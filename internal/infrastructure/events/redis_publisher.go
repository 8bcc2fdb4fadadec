// Package events streams workflow events to Redis for downstream consumers.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "newsdesk:articles"

// RedisPublisher implements EventPublisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
	stream string
}

var _ ports.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher from a redis:// URL.
func NewRedisPublisher(url, stream string) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisPublisherWithClient(redis.NewClient(opts), stream), nil
}

// NewRedisPublisherWithClient wraps an existing client.
func NewRedisPublisherWithClient(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream}
}

// Publish appends the event to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, event domain.ArticleEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: eventToValues(event),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// Ping checks connectivity.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func eventToValues(event domain.ArticleEvent) map[string]any {
	return map[string]any{
		"type":            string(event.Type),
		"article_id":      event.ArticleID,
		"status":          string(event.Status),
		"approval_status": string(event.ApprovalStatus),
		"actor":           event.Actor,
		"occurred_at":     event.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}
