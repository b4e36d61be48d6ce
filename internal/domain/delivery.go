package domain

import "time"

// DeliveryAttempt is one immutable record of an outbound call to a
// webhook endpoint. StatusCode 0 means no HTTP response was received
// (timeout, DNS failure, connection refused).
type DeliveryAttempt struct {
	ID           string    `json:"id"`
	WebhookID    string    `json:"webhookId"`
	Event        string    `json:"event"`
	StatusCode   int       `json:"statusCode"`
	ResponseTime int       `json:"responseTime"`
	Error        *string   `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Succeeded reports whether the attempt counts as a successful delivery:
// a 2xx response with no transport or rejection error.
func (a DeliveryAttempt) Succeeded() bool {
	return a.StatusCode >= 200 && a.StatusCode < 300 && a.Error == nil
}
