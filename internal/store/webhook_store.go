package store

import (
	"context"
	"fmt"

	"github.com/forumhub/webhook-notifier/internal/domain"
	"github.com/jackc/pgx/v5"
)

const webhookColumns = `id, target_url, events, secret, is_active, last_delivery_at, last_delivery_status, created_at, updated_at`

func scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	var wh domain.Webhook
	err := row.Scan(
		&wh.ID, &wh.TargetURL, &wh.Events, &wh.Secret, &wh.IsActive,
		&wh.LastDeliveryAt, &wh.LastDeliveryStatus, &wh.CreatedAt, &wh.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (s *PostgresStore) CreateWebhook(ctx context.Context, req domain.CreateWebhookRequest) (*domain.Webhook, error) {
	wh, err := scanWebhook(s.pool.QueryRow(ctx, `
		INSERT INTO webhooks (target_url, events, secret)
		VALUES ($1, $2, $3)
		RETURNING `+webhookColumns,
		req.TargetURL, req.Events, req.Secret,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting webhook: %w", err)
	}
	return wh, nil
}

// GetWebhook returns nil, nil when no webhook has the given id.
func (s *PostgresStore) GetWebhook(ctx context.Context, id string) (*domain.Webhook, error) {
	wh, err := scanWebhook(s.pool.QueryRow(ctx,
		`SELECT `+webhookColumns+` FROM webhooks WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying webhook: %w", err)
	}
	return wh, nil
}

// ListWebhooks returns all webhooks, most recently created first.
func (s *PostgresStore) ListWebhooks(ctx context.Context) ([]domain.Webhook, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+webhookColumns+` FROM webhooks ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying webhooks: %w", err)
	}
	defer rows.Close()

	return collectWebhooks(rows)
}

// ListActiveForEvent returns active webhooks subscribed to the given
// event type. Order is unspecified; dispatch treats the result as a set.
func (s *PostgresStore) ListActiveForEvent(ctx context.Context, eventType string) ([]domain.Webhook, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+webhookColumns+` FROM webhooks WHERE is_active = true AND $1 = ANY(events)`,
		eventType,
	)
	if err != nil {
		return nil, fmt.Errorf("querying matching webhooks: %w", err)
	}
	defer rows.Close()

	return collectWebhooks(rows)
}

func collectWebhooks(rows pgx.Rows) ([]domain.Webhook, error) {
	var webhooks []domain.Webhook
	for rows.Next() {
		wh, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning webhook: %w", err)
		}
		webhooks = append(webhooks, *wh)
	}
	if webhooks == nil {
		webhooks = []domain.Webhook{}
	}
	return webhooks, nil
}

// UpdateWebhook applies the non-nil fields of req. Returns nil, nil when
// the webhook does not exist.
func (s *PostgresStore) UpdateWebhook(ctx context.Context, id string, req domain.UpdateWebhookRequest) (*domain.Webhook, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	if req.TargetURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("target_url = $%d", argIdx))
		args = append(args, *req.TargetURL)
		argIdx++
	}
	if req.Events != nil {
		setClauses = append(setClauses, fmt.Sprintf("events = $%d", argIdx))
		args = append(args, *req.Events)
		argIdx++
	}
	if req.Secret != nil {
		setClauses = append(setClauses, fmt.Sprintf("secret = $%d", argIdx))
		args = append(args, *req.Secret)
		argIdx++
	}
	if req.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetWebhook(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf(
		`UPDATE webhooks SET %s WHERE id = $%d RETURNING `+webhookColumns,
		joinStrings(setClauses, ", "), argIdx,
	)
	args = append(args, id)

	wh, err := scanWebhook(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("updating webhook: %w", err)
	}
	return wh, nil
}

// ToggleWebhook flips the active flag. Returns nil, nil when the webhook
// does not exist.
func (s *PostgresStore) ToggleWebhook(ctx context.Context, id string, isActive bool) (*domain.Webhook, error) {
	wh, err := scanWebhook(s.pool.QueryRow(ctx, `
		UPDATE webhooks SET is_active = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+webhookColumns,
		id, isActive,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("toggling webhook: %w", err)
	}
	return wh, nil
}

// DeleteWebhook hard-deletes the webhook. Delivery history rows are kept.
func (s *PostgresStore) DeleteWebhook(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}
	return nil
}

func joinStrings(strs []string, sep string) string {
	result := ""
	for i, s := range strs {
		if i > 0 {
			result += sep
		}
		result += s
	}
	return result
}
