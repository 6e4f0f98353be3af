package service_test

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/clipops/clip-service/internal/model"
	"github.com/clipops/clip-service/internal/service"
)

func TestEventHubBroadcastsStatusChanges(t *testing.T) {
	hub := service.NewEventHub(zap.NewNop())
	sub, cleanup := hub.Subscribe(nil)
	defer cleanup()

	hub.PublishClipStatus("clip-1", model.ClipStatusPublishing)

	select {
	case raw := <-sub.Send:
		var evt model.ClipEvent
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if evt.ClipID != "clip-1" || evt.Status != model.ClipStatusPublishing {
			t.Fatalf("unexpected event: %+v", evt)
		}
		if evt.Event != "clip_status_changed" {
			t.Fatalf("unexpected event name: %s", evt.Event)
		}
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestEventHubDropsWhenSubscriberIsFull(t *testing.T) {
	hub := service.NewEventHub(zap.NewNop())
	sub, cleanup := hub.Subscribe(nil)
	defer cleanup()

	// Overrun the buffer; the hub must not block.
	for i := 0; i < 200; i++ {
		hub.PublishClipStatus("clip-1", model.ClipStatusPublished)
	}
	if n := len(sub.Send); n != cap(sub.Send) {
		t.Fatalf("expected a full buffer, got %d of %d", n, cap(sub.Send))
	}
}

func TestEventHubBroadcastRacesSubscriberChurn(t *testing.T) {
	hub := service.NewEventHub(zap.NewNop())

	// Subscribers connect and disconnect while broadcasts are in flight; a
	// disconnect must never close a channel out from under the publisher.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_, cleanup := hub.Subscribe(nil)
			cleanup()
		}
	}()
	for i := 0; i < 500; i++ {
		hub.PublishClipStatus("clip-1", model.ClipStatusPublishing)
	}
	<-done
	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}
}

func TestEventHubUnsubscribe(t *testing.T) {
	hub := service.NewEventHub(zap.NewNop())
	_, cleanup := hub.Subscribe(nil)
	if hub.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount())
	}
	cleanup()
	cleanup() // idempotent
	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected 0 subscribers, got %d", hub.SubscriberCount())
	}
}
