package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/forumhub/webhook-notifier/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventQueueKey is the Redis sorted set holding pending events, scored
// by enqueue time in microseconds.
const EventQueueKey = "webhook_events"

// ErrUnknownEventType is returned when a producer submits an event type
// outside the recognized set.
var ErrUnknownEventType = errors.New("unknown event type")

// Queue decouples event producers (the forum's notification path) from
// webhook delivery latency.
type Queue struct {
	client *redis.Client
	logger *slog.Logger
}

func New(ctx context.Context, redisURL string, logger *slog.Logger) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &Queue{client: client, logger: logger}, nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, logger *slog.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

func (q *Queue) Close() error {
	return q.client.Close()
}

// Enqueue validates the event type, stamps an id and timestamp, and
// queues the event for dispatch.
func (q *Queue) Enqueue(ctx context.Context, eventType string, payload json.RawMessage) (*domain.Event, error) {
	if !domain.KnownEventType(eventType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshaling event: %w", err)
	}

	err = q.client.ZAdd(ctx, EventQueueKey, redis.Z{
		Score:  float64(event.CreatedAt.UnixMicro()),
		Member: string(data),
	}).Err()
	if err != nil {
		return nil, fmt.Errorf("queuing event: %w", err)
	}

	q.logger.Info("event queued", "event_id", event.ID, "event_type", event.Type)
	return &event, nil
}

// Depth returns the number of events waiting for dispatch.
func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, EventQueueKey).Result()
}
