package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/forumhub/webhook-notifier/internal/domain"
	"github.com/forumhub/webhook-notifier/internal/store"
	"github.com/go-chi/chi/v5"
)

type WebhookHandler struct {
	store *store.PostgresStore
}

func NewWebhookHandler(s *store.PostgresStore) *WebhookHandler {
	return &WebhookHandler{store: s}
}

func validateEvents(events []string) string {
	if len(events) == 0 {
		return "at least one event is required"
	}
	for _, e := range events {
		if !domain.KnownEventType(e) {
			return "unknown event type: " + e
		}
	}
	return ""
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TargetURL == "" {
		respondError(w, http.StatusBadRequest, "targetUrl is required")
		return
	}
	if msg := validateEvents(req.Events); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	hook, err := h.store.CreateWebhook(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create webhook")
		return
	}

	respondJSON(w, http.StatusCreated, hook)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.store.ListWebhooks(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list webhooks")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": webhooks})
}

func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.UpdateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.TargetURL != nil && *req.TargetURL == "" {
		respondError(w, http.StatusBadRequest, "targetUrl cannot be empty")
		return
	}
	if req.Events != nil {
		if msg := validateEvents(*req.Events); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
	}

	hook, err := h.store.UpdateWebhook(r.Context(), id, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update webhook")
		return
	}
	if hook == nil {
		respondError(w, http.StatusNotFound, "webhook not found")
		return
	}

	respondJSON(w, http.StatusOK, hook)
}

type toggleRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *WebhookHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hook, err := h.store.ToggleWebhook(r.Context(), id, req.IsActive)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to toggle webhook")
		return
	}
	if hook == nil {
		respondError(w, http.StatusNotFound, "webhook not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":       hook.ID,
		"isActive": hook.IsActive,
	})
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteWebhook(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete webhook")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *WebhookHandler) Deliveries(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	attempts, err := h.store.ListDeliveries(r.Context(), id, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list deliveries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"items": attempts})
}
