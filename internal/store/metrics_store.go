package store

import (
	"context"
	"fmt"
)

// DeliveryMetrics holds aggregated delivery statistics for the
// operator dashboard.
type DeliveryMetrics struct {
	TotalDeliveries int     `json:"total_deliveries"`
	SuccessCount    int     `json:"success_count"`
	FailedCount     int     `json:"failed_count"`
	SuccessRate     float64 `json:"success_rate"`
	AvgResponseMs   float64 `json:"avg_response_ms"`
	ActiveWebhooks  int     `json:"active_webhooks"`
}

func (s *PostgresStore) GetDeliveryMetrics(ctx context.Context) (*DeliveryMetrics, error) {
	var m DeliveryMetrics

	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status_code BETWEEN 200 AND 299 AND error IS NULL) AS success,
			COUNT(*) FILTER (WHERE status_code NOT BETWEEN 200 AND 299 OR error IS NOT NULL) AS failed,
			COALESCE(AVG(response_time_ms) FILTER (WHERE response_time_ms > 0), 0) AS avg_response_ms
		FROM webhook_deliveries
	`).Scan(&m.TotalDeliveries, &m.SuccessCount, &m.FailedCount, &m.AvgResponseMs)
	if err != nil {
		return nil, fmt.Errorf("querying delivery metrics: %w", err)
	}

	if m.TotalDeliveries > 0 {
		m.SuccessRate = float64(m.SuccessCount) / float64(m.TotalDeliveries) * 100
	}

	err = s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM webhooks WHERE is_active = true`,
	).Scan(&m.ActiveWebhooks)
	if err != nil {
		return nil, fmt.Errorf("querying active webhooks: %w", err)
	}

	return &m, nil
}
