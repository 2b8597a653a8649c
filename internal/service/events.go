package service

import (
	"encoding/json"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	// Library events
	EventLibraryChanged EventType = "library.changed"

	// Profile events
	EventProfileUpdated EventType = "profile.updated"

	// System events
	EventHeartbeat EventType = "heartbeat"
)

// LibraryChangeKind names what happened to a library entry
type LibraryChangeKind string

const (
	LibraryAdded   LibraryChangeKind = "added"
	LibraryUpdated LibraryChangeKind = "updated"
	LibraryRemoved LibraryChangeKind = "removed"
)

// Event represents a server-sent event
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// Format returns the SSE formatted string
func (e *Event) Format() string {
	data, _ := json.Marshal(e.Data)
	return "event: " + string(e.Type) + "\ndata: " + string(data) + "\n\n"
}

// Subscriber represents a connected SSE client
type Subscriber struct {
	ID     string
	UserID string
	Events chan *Event
	Done   chan struct{}
}

// LibraryHub fans library and profile change events out to every open
// session a user holds. A change made in one browser tab reaches the
// user's other tabs through here.
type LibraryHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // userID -> subscriberID -> subscriber
	heartbeat   *time.Ticker
	done        chan struct{}
}

// NewLibraryHub creates a new hub
func NewLibraryHub() *LibraryHub {
	hub := &LibraryHub{
		subscribers: make(map[string]map[string]*Subscriber),
		done:        make(chan struct{}),
	}
	// Start heartbeat
	hub.heartbeat = time.NewTicker(30 * time.Second)
	go hub.sendHeartbeats()
	return hub
}

// Subscribe adds a new subscriber for a user
func (h *LibraryHub) Subscribe(userID, subscriberID string) *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscriber{
		ID:     subscriberID,
		UserID: userID,
		Events: make(chan *Event, 100), // Buffer to prevent blocking
		Done:   make(chan struct{}),
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]*Subscriber)
	}
	h.subscribers[userID][subscriberID] = sub

	return sub
}

// Unsubscribe removes a subscriber
func (h *LibraryHub) Unsubscribe(userID, subscriberID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userSubs, ok := h.subscribers[userID]; ok {
		if sub, ok := userSubs[subscriberID]; ok {
			close(sub.Done)
			close(sub.Events)
			delete(userSubs, subscriberID)
		}
		if len(userSubs) == 0 {
			delete(h.subscribers, userID)
		}
	}
}

// SendToUser sends an event to all of a user's subscribers
func (h *LibraryHub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userSubs, ok := h.subscribers[userID]
	if !ok {
		return
	}

	for _, sub := range userSubs {
		select {
		case sub.Events <- &event:
			// Event sent successfully
		default:
			// Buffer full, skip this subscriber
		}
	}
}

// sendHeartbeats sends periodic heartbeats to all subscribers
func (h *LibraryHub) sendHeartbeats() {
	for {
		select {
		case <-h.heartbeat.C:
			h.mu.RLock()
			event := &Event{
				Type: EventHeartbeat,
				Data: map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				},
			}
			for _, userSubs := range h.subscribers {
				for _, sub := range userSubs {
					select {
					case sub.Events <- event:
					default:
					}
				}
			}
			h.mu.RUnlock()
		case <-h.done:
			return
		}
	}
}

// Close stops the hub
func (h *LibraryHub) Close() {
	close(h.done)
	h.heartbeat.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, userSubs := range h.subscribers {
		for _, sub := range userSubs {
			close(sub.Done)
			close(sub.Events)
		}
		delete(h.subscribers, userID)
	}
}

// SubscriberCount returns the number of subscribers for a user
func (h *LibraryHub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if userSubs, ok := h.subscribers[userID]; ok {
		return len(userSubs)
	}
	return 0
}

// NewLibraryChangeEvent creates a library.changed event
func NewLibraryChangeEvent(kind LibraryChangeKind, entryID, gameID string) Event {
	return Event{
		Type: EventLibraryChanged,
		Data: map[string]string{
			"kind":     string(kind),
			"entry_id": entryID,
			"game_id":  gameID,
		},
	}
}
