package handler

import (
	"fmt"
	"net/http"

	"github.com/gameflow/api/internal/middleware"
	"github.com/gameflow/api/internal/model"
	"github.com/gameflow/api/internal/service"
	"github.com/google/uuid"
)

// EventsHandler handles SSE event streaming
type EventsHandler struct {
	hub *service.LibraryHub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *service.LibraryHub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
	}
}

// Stream handles GET /v1/events/stream
// This endpoint streams library and profile change events for the
// authenticated user's account, one stream per open session.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	// Check if the client supports SSE
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	subscriberID := uuid.New().String()

	sub := h.hub.Subscribe(userID, subscriberID)
	defer h.hub.Unsubscribe(userID, subscriberID)

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"subscriber_id\":\"%s\"}\n\n", subscriberID)
	flusher.Flush()

	// Stream events
	for {
		select {
		case event, ok := <-sub.Events:
			if !ok {
				return
			}
			fmt.Fprint(w, event.Format())
			flusher.Flush()

		case <-sub.Done:
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}
