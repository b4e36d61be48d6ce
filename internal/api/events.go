package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/forumhub/webhook-notifier/internal/queue"
)

// EventHandler is the producer boundary: the forum's notification
// service posts domain events here and returns immediately; delivery
// runs in the background off the queue.
type EventHandler struct {
	queue *queue.Queue
}

func NewEventHandler(q *queue.Queue) *EventHandler {
	return &EventHandler{queue: q}
}

type createEventRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type createEventResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Type == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}
	if len(req.Payload) == 0 || !json.Valid(req.Payload) {
		respondError(w, http.StatusBadRequest, "payload must be valid JSON")
		return
	}

	event, err := h.queue.Enqueue(r.Context(), req.Type, req.Payload)
	if err != nil {
		if errors.Is(err, queue.ErrUnknownEventType) {
			respondError(w, http.StatusBadRequest, "unknown event type")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to queue event")
		return
	}

	respondJSON(w, http.StatusAccepted, createEventResponse{
		ID:   event.ID,
		Type: event.Type,
	})
}
