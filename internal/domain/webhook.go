package domain

import "time"

// Delivery health summary values for Webhook.LastDeliveryStatus.
const (
	DeliverySuccess = "success"
	DeliveryFailed  = "failed"
)

// Webhook is a subscription: an endpoint that wants to be called when
// the forum emits one of its subscribed event types.
type Webhook struct {
	ID                 string     `json:"id"`
	TargetURL          string     `json:"targetUrl"`
	Events             []string   `json:"events"`
	Secret             string     `json:"secret,omitempty"`
	IsActive           bool       `json:"isActive"`
	LastDeliveryAt     *time.Time `json:"lastDeliveryAt,omitempty"`
	LastDeliveryStatus *string    `json:"lastDeliveryStatus,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type CreateWebhookRequest struct {
	TargetURL string   `json:"targetUrl"`
	Events    []string `json:"events"`
	Secret    string   `json:"secret,omitempty"`
}

type UpdateWebhookRequest struct {
	TargetURL *string   `json:"targetUrl,omitempty"`
	Events    *[]string `json:"events,omitempty"`
	Secret    *string   `json:"secret,omitempty"`
	IsActive  *bool     `json:"isActive,omitempty"`
}
