package store

import (
	"context"
	"fmt"

	"github.com/forumhub/webhook-notifier/internal/domain"
)

// DeliveryOutcome holds the result of one outbound call, as observed by
// the delivery client. A zero StatusCode means no response was received.
type DeliveryOutcome struct {
	StatusCode   int
	ResponseTime int
	Error        string
}

// Status maps the outcome onto the webhook health summary values.
func (o DeliveryOutcome) Status() string {
	if o.StatusCode >= 200 && o.StatusCode < 300 && o.Error == "" {
		return domain.DeliverySuccess
	}
	return domain.DeliveryFailed
}

// RecordDelivery inserts one immutable attempt row and refreshes the
// webhook's denormalized health fields. The two statements are
// independent single-row writes; concurrent fan-outs resolve the health
// fields last-writer-wins. When the health update fails the inserted
// attempt is still returned alongside the error.
func (s *PostgresStore) RecordDelivery(ctx context.Context, webhookID, event string, out DeliveryOutcome) (*domain.DeliveryAttempt, error) {
	var errMsg *string
	if out.Error != "" {
		errMsg = &out.Error
	}

	var a domain.DeliveryAttempt
	err := s.pool.QueryRow(ctx, `
		INSERT INTO webhook_deliveries (webhook_id, event, status_code, response_time_ms, error)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, webhook_id, event, status_code, response_time_ms, error, created_at
	`, webhookID, event, out.StatusCode, out.ResponseTime, errMsg).Scan(
		&a.ID, &a.WebhookID, &a.Event, &a.StatusCode, &a.ResponseTime, &a.Error, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting delivery attempt: %w", err)
	}

	// The webhook may have been deleted mid-flight; zero rows affected is
	// fine, the attempt record stands on its own.
	_, err = s.pool.Exec(ctx, `
		UPDATE webhooks SET last_delivery_at = NOW(), last_delivery_status = $2
		WHERE id = $1
	`, webhookID, out.Status())
	if err != nil {
		return &a, fmt.Errorf("updating webhook delivery status: %w", err)
	}

	return &a, nil
}

// ListDeliveries returns the webhook's attempt history, newest first.
// Limit values outside 1..50 are clamped to 50.
func (s *PostgresStore) ListDeliveries(ctx context.Context, webhookID string, limit int) ([]domain.DeliveryAttempt, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, webhook_id, event, status_code, response_time_ms, error, created_at
		FROM webhook_deliveries
		WHERE webhook_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, webhookID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying delivery attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.DeliveryAttempt
	for rows.Next() {
		var a domain.DeliveryAttempt
		err := rows.Scan(
			&a.ID, &a.WebhookID, &a.Event, &a.StatusCode,
			&a.ResponseTime, &a.Error, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning delivery attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	if attempts == nil {
		attempts = []domain.DeliveryAttempt{}
	}

	return attempts, nil
}
