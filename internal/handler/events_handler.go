package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/service"
)

const eventWriteTimeout = 10 * time.Second

// EventsHandler upgrades admin dashboard connections and streams clip
// lifecycle events from the hub.
type EventsHandler struct {
	hub *service.EventHub
	log *zap.Logger
}

// NewEventsHandler creates an events handler.
func NewEventsHandler(hub *service.EventHub, log *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// Stream godoc
// GET /ws/admin/events
func (h *EventsHandler) Stream(c *gin.Context) {
	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	sub, cleanup := h.hub.Subscribe(conn)
	defer cleanup()
	defer conn.Close()

	// Reader goroutine only watches for the client closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.Send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
