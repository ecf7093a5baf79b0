package services

import (
	"testing"
	"time"
)

func TestEventHub_New(t *testing.T) {
	hub := NewEventHub()
	if hub == nil {
		t.Fatal("NewEventHub should not return nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("new hub should have 0 clients, got %d", hub.ClientCount())
	}
}

func TestEventHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewEventHub()

	ch := hub.Subscribe("client1")
	if ch == nil {
		t.Error("Subscribe should return a channel")
	}
	hub.Subscribe("client2")
	if hub.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", hub.ClientCount())
	}

	hub.Unsubscribe("client1")
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client after unsubscribe, got %d", hub.ClientCount())
	}

	hub.Unsubscribe("nonexistent")
	if hub.ClientCount() != 1 {
		t.Errorf("unsubscribing nonexistent should not affect count, got %d", hub.ClientCount())
	}
}

func TestEventHub_Publish(t *testing.T) {
	hub := NewEventHub()
	ch := hub.Subscribe("client1")

	hub.Publish(BoardEvent{
		Type:       "task_moved",
		ProjectID:  1,
		TaskID:     7,
		FromColumn: "todo",
		ToColumn:   "done",
	})

	select {
	case received := <-ch:
		if received.Type != "task_moved" {
			t.Errorf("Type = %q, expected task_moved", received.Type)
		}
		if received.TaskID != 7 {
			t.Errorf("TaskID = %d, expected 7", received.TaskID)
		}
		if received.Timestamp.IsZero() {
			t.Error("Publish should stamp a missing timestamp")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timed out waiting for event")
	}
}

func TestEventHub_PublishMultipleClients(t *testing.T) {
	hub := NewEventHub()
	ch1 := hub.Subscribe("client1")
	ch2 := hub.Subscribe("client2")

	hub.Publish(BoardEvent{Type: "task_created", TaskID: 1})

	for i, ch := range []<-chan BoardEvent{ch1, ch2} {
		select {
		case received := <-ch:
			if received.TaskID != 1 {
				t.Errorf("client%d: TaskID = %d, expected 1", i+1, received.TaskID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client%d: timed out waiting for event", i+1)
		}
	}
}

func TestEventHub_NonBlockingPublish(t *testing.T) {
	hub := NewEventHub()
	hub.Subscribe("slow_client")

	// Well past the channel buffer; must not block.
	for i := 0; i < 200; i++ {
		hub.Publish(BoardEvent{Type: "task_updated", TaskID: uint(i)})
	}
}
