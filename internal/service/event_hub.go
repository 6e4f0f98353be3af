package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/model"
)

// Subscriber is one admin dashboard WebSocket connection.
type Subscriber struct {
	Conn *websocket.Conn
	Send chan []byte
}

// EventHub broadcasts clip lifecycle events to admin dashboard subscribers.
// Delivery is best-effort: slow consumers drop events rather than block writers.
type EventHub struct {
	mu       sync.RWMutex
	subs     map[*Subscriber]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewEventHub creates an event hub.
func NewEventHub(log *zap.Logger) *EventHub {
	return &EventHub{
		subs: make(map[*Subscriber]struct{}),
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *EventHub) Upgrader() *websocket.Upgrader { return &h.upgrader }

// Subscribe adds a subscriber and returns a cleanup function.
func (h *EventHub) Subscribe(conn *websocket.Conn) (*Subscriber, func()) {
	s := &Subscriber{Conn: conn, Send: make(chan []byte, 64)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	h.log.Info("event subscriber registered")

	cleanup := func() {
		h.mu.Lock()
		if _, ok := h.subs[s]; ok {
			delete(h.subs, s)
			close(s.Send)
		}
		h.mu.Unlock()
		h.log.Info("event subscriber unregistered")
	}
	return s, cleanup
}

// PublishClipStatus broadcasts one clip status change.
func (h *EventHub) PublishClipStatus(clipID string, status model.ClipStatus) {
	evt := model.ClipEvent{Event: "clip_status_changed", ClipID: clipID, Status: status, At: time.Now()}
	raw, err := json.Marshal(evt)
	if err != nil {
		return
	}
	// Send channels are closed under the write lock (cleanup, Close), so the
	// read lock must be held across the sends. The sends never block.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		select {
		case s.Send <- raw:
		default:
			h.log.Warn("event subscriber buffer full, dropping event", zap.String("clip_id", clipID))
		}
	}
}

// Close drops all subscribers (on shutdown).
func (h *EventHub) Close() {
	h.mu.Lock()
	for s := range h.subs {
		delete(h.subs, s)
		close(s.Send)
		_ = s.Conn.Close()
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of connected subscribers (for debugging).
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
