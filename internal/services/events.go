package services

import (
	"sync"
	"time"
)

// BoardEvent is a real-time update pushed to subscribed clients when a task
// or notification changes.
type BoardEvent struct {
	Type       string    `json:"type"` // task_created, task_moved, task_updated, task_deleted, notification
	ProjectID  uint      `json:"project_id,omitempty"`
	TaskID     uint      `json:"task_id,omitempty"`
	TaskTitle  string    `json:"task_title,omitempty"`
	FromColumn string    `json:"from_column,omitempty"`
	ToColumn   string    `json:"to_column,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventHub manages SSE client connections and event broadcasting
type EventHub struct {
	clients map[string]chan BoardEvent
	mu      sync.RWMutex
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]chan BoardEvent),
	}
}

// Subscribe registers a new client and returns a channel for receiving events
func (h *EventHub) Subscribe(clientID string) <-chan BoardEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Buffered so a slow client cannot block publishers
	ch := make(chan BoardEvent, 100)
	h.clients[clientID] = ch
	return ch
}

// Unsubscribe removes a client from the hub
func (h *EventHub) Unsubscribe(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[clientID]; ok {
		close(ch)
		delete(h.clients, clientID)
	}
}

// Publish broadcasts an event to all connected clients
func (h *EventHub) Publish(event BoardEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients {
		// Non-blocking send; drop the event if the client buffer is full
		select {
		case ch <- event:
		default:
		}
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var (
	globalEventHub *EventHub
	eventHubOnce   sync.Once
)

// GetEventHub returns the global event hub singleton
func GetEventHub() *EventHub {
	eventHubOnce.Do(func() {
		globalEventHub = NewEventHub()
	})
	return globalEventHub
}
