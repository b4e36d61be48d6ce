package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/forumhub/webhook-notifier/internal/domain"
	"github.com/forumhub/webhook-notifier/internal/store"
	ws "github.com/forumhub/webhook-notifier/internal/websocket"
)

// Registry selects the active webhooks subscribed to an event type.
type Registry interface {
	ListActiveForEvent(ctx context.Context, eventType string) ([]domain.Webhook, error)
}

// Recorder persists one attempt per (webhook, event) and refreshes the
// webhook's health summary.
type Recorder interface {
	RecordDelivery(ctx context.Context, webhookID, event string, out store.DeliveryOutcome) (*domain.DeliveryAttempt, error)
}

// Dispatcher fans an event out to all matching webhooks concurrently.
// Each webhook's delivery and recording is fully isolated from the
// others; a hung or failing endpoint never affects its neighbors.
type Dispatcher struct {
	registry Registry
	recorder Recorder
	client   *Client
	hub      *ws.Hub
	logger   *slog.Logger
}

// NewDispatcher wires the fan-out pipeline. hub may be nil when no
// real-time feed is attached.
func NewDispatcher(registry Registry, recorder Recorder, client *Client, hub *ws.Hub, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		recorder: recorder,
		client:   client,
		hub:      hub,
		logger:   logger,
	}
}

// Dispatch delivers event to every active webhook subscribed to its
// type and blocks until all attempts are recorded. Unknown event types
// and empty matches are logged no-ops.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) {
	if !domain.KnownEventType(event.Type) {
		d.logger.Warn("ignoring unknown event type",
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return
	}

	// Shutdown of the caller must not sever in-flight deliveries; the
	// client timeout already bounds every attempt.
	ctx = context.WithoutCancel(ctx)

	webhooks, err := d.registry.ListActiveForEvent(ctx, event.Type)
	if err != nil {
		d.logger.Error("failed to select webhooks",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type,
		)
		return
	}

	if len(webhooks) == 0 {
		d.logger.Info("no matching webhooks", "event_id", event.ID, "event_type", event.Type)
		return
	}

	// Serialize the envelope once. Every subscriber signs and receives
	// the identical byte sequence.
	body, err := json.Marshal(domain.Envelope{
		Event:        event.Type,
		Notification: event.Payload,
	})
	if err != nil {
		d.logger.Error("failed to marshal envelope", "error", err, "event_id", event.ID)
		return
	}

	var wg sync.WaitGroup
	for _, hook := range webhooks {
		wg.Add(1)
		go func(hook domain.Webhook) {
			defer wg.Done()
			d.deliverOne(ctx, event, hook, body)
		}(hook)
	}
	wg.Wait()
}

func (d *Dispatcher) deliverOne(ctx context.Context, event domain.Event, hook domain.Webhook, body []byte) {
	var signature string
	if hook.Secret != "" {
		signature = Sign(hook.Secret, body)
	}

	res := d.client.Deliver(ctx, hook.TargetURL, body, signature)

	outcome := store.DeliveryOutcome{
		StatusCode:   res.StatusCode,
		ResponseTime: res.ResponseTime,
		Error:        res.Error,
	}

	// Always record, success or failure. A recorder failure is an
	// internal error, never a reason to retry the already-sent call.
	if _, err := d.recorder.RecordDelivery(ctx, hook.ID, event.Type, outcome); err != nil {
		d.logger.Error("failed to record delivery attempt",
			"error", err,
			"webhook_id", hook.ID,
			"event_id", event.ID,
		)
	}

	if outcome.Status() == domain.DeliverySuccess {
		d.logger.Info("delivery successful",
			"webhook_id", hook.ID,
			"event_id", event.ID,
			"event_type", event.Type,
			"status_code", res.StatusCode,
			"response_time_ms", res.ResponseTime,
		)
	} else {
		d.logger.Warn("delivery failed",
			"webhook_id", hook.ID,
			"event_id", event.ID,
			"event_type", event.Type,
			"status_code", res.StatusCode,
			"response_time_ms", res.ResponseTime,
			"error", res.Error,
		)
	}

	if d.hub != nil {
		d.hub.Broadcast(ws.DeliveryUpdate{
			Type:       "delivery_" + outcome.Status(),
			WebhookID:  hook.ID,
			TargetURL:  hook.TargetURL,
			EventID:    event.ID,
			EventType:  event.Type,
			StatusCode: res.StatusCode,
			ResponseMs: res.ResponseTime,
			Error:      res.Error,
			Timestamp:  time.Now().UTC(),
		})
	}
}
