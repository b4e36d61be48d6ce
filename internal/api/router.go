package api

import (
	"net/http"

	"github.com/forumhub/webhook-notifier/internal/queue"
	"github.com/forumhub/webhook-notifier/internal/store"
	ws "github.com/forumhub/webhook-notifier/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(pgStore *store.PostgresStore, q *queue.Queue, hub *ws.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for the admin dashboard
	r.Use(corsMiddleware)

	webhookHandler := NewWebhookHandler(pgStore)
	eventHandler := NewEventHandler(q)
	dashHandler := NewDashboardHandler(pgStore, q, hub)

	// Real-time delivery feed
	r.Get("/ws", hub.HandleWebSocket)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/", webhookHandler.Create)
			r.Get("/", webhookHandler.List)
			r.Put("/{id}", webhookHandler.Update)
			r.Patch("/{id}/toggle", webhookHandler.Toggle)
			r.Delete("/{id}", webhookHandler.Delete)
			r.Get("/{id}/deliveries", webhookHandler.Deliveries)
		})

		r.Post("/events", eventHandler.Create)

		r.Get("/metrics", dashHandler.Metrics)
	})

	return r
}

// corsMiddleware adds CORS headers for dashboard development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
