package api

import (
	"net/http"

	"github.com/forumhub/webhook-notifier/internal/queue"
	"github.com/forumhub/webhook-notifier/internal/store"
	ws "github.com/forumhub/webhook-notifier/internal/websocket"
)

type DashboardHandler struct {
	store *store.PostgresStore
	queue *queue.Queue
	hub   *ws.Hub
}

func NewDashboardHandler(s *store.PostgresStore, q *queue.Queue, hub *ws.Hub) *DashboardHandler {
	return &DashboardHandler{store: s, queue: q, hub: hub}
}

// Metrics returns aggregated delivery statistics for the dashboard.
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.GetDeliveryMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get metrics")
		return
	}

	queueDepth, err := h.queue.Depth(r.Context())
	if err != nil {
		queueDepth = 0
	}

	type metricsResponse struct {
		store.DeliveryMetrics
		QueueDepth       int64 `json:"queue_depth"`
		WebSocketClients int   `json:"websocket_clients"`
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		DeliveryMetrics:  *metrics,
		QueueDepth:       queueDepth,
		WebSocketClients: h.hub.ClientCount(),
	})
}
