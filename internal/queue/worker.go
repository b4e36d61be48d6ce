package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/forumhub/webhook-notifier/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Worker drains the event queue and hands events to the dispatch pool.
type Worker struct {
	queue        *Queue
	pool         *Pool
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int64
}

func NewWorker(q *Queue, pool *Pool, logger *slog.Logger) *Worker {
	return &Worker{
		queue:        q,
		pool:         pool,
		logger:       logger,
		pollInterval: 100 * time.Millisecond,
		batchSize:    10,
	}
}

// Start runs the polling loop until the context is cancelled. Events
// already handed to the pool are allowed to finish dispatching.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("event worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("event worker stopping")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll claims a batch of ready events. The ZRem acts as the claim: when
// two worker instances race, only the one that removed the member
// dispatches it.
func (w *Worker) poll(ctx context.Context) {
	now := float64(time.Now().UnixMicro())

	results, err := w.queue.client.ZRangeByScore(ctx, EventQueueKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatFloat(now, 'f', -1, 64),
		Count: w.batchSize,
	}).Result()
	if err != nil {
		w.logger.Error("failed to poll event queue", "error", err)
		return
	}

	for _, member := range results {
		removed, err := w.queue.client.ZRem(ctx, EventQueueKey, member).Result()
		if err != nil {
			w.logger.Error("failed to claim event", "error", err)
			continue
		}
		if removed == 0 {
			continue
		}

		var event domain.Event
		if err := json.Unmarshal([]byte(member), &event); err != nil {
			w.logger.Error("failed to unmarshal queued event", "error", err)
			continue
		}

		w.pool.Submit(event)
	}
}
