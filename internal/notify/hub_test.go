package notify

import (
	"encoding/json"
	"testing"
)

// mockSession creates a Session with a send channel but no real connection.
func mockSession(hub *Hub, userID string) *Session {
	return &Session{
		hub:    hub,
		conn:   nil,
		userID: userID,
		send:   make(chan []byte, hub.bufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(0)

	s1 := mockSession(hub, "user-1")
	s2 := mockSession(hub, "user-1")

	hub.Register(s1)
	hub.Register(s2)

	if got := hub.SessionCount(); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}

	hub.Unregister(s1)
	if got := hub.SessionCount(); got != 1 {
		t.Fatalf("expected 1 session after unregister, got %d", got)
	}

	hub.Unregister(s2)
	if got := hub.SessionCount(); got != 0 {
		t.Fatalf("expected 0 sessions, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(0)
	s := mockSession(hub, "user-1")
	hub.Register(s)
	hub.Unregister(s)
	// Must not panic or double-close the channel.
	hub.Unregister(s)

	if got := hub.SessionCount(); got != 0 {
		t.Fatalf("expected 0 sessions, got %d", got)
	}
}

func TestDispatchTargetsOwningUserOnly(t *testing.T) {
	hub := NewHub(0)

	owner := mockSession(hub, "user-1")
	other := mockSession(hub, "user-2")
	hub.Register(owner)
	hub.Register(other)

	event := NewCompletionEvent("user-1", "click-1", "offer-1", "Install Puzzle Game", "2.50", 3)
	hub.Dispatch(event)

	select {
	case data := <-owner.send:
		var got CompletionEvent
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.ClickID != "click-1" || got.Payout != "2.50" {
			t.Fatalf("unexpected event %+v", got)
		}
		if got.CompletedCount != 3 {
			t.Fatalf("expected completed count 3, got %d", got.CompletedCount)
		}
	default:
		t.Fatalf("expected owner to receive event")
	}

	select {
	case <-other.send:
		t.Fatalf("expected other user to receive nothing")
	default:
	}
}

func TestDispatchDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	s := mockSession(hub, "user-1")
	hub.Register(s)

	hub.Dispatch(NewCompletionEvent("user-1", "click-1", "", "A", "1.00", 1))
	hub.Dispatch(NewCompletionEvent("user-1", "click-2", "", "B", "1.00", 2))

	if got := len(s.send); got != 1 {
		t.Fatalf("expected 1 buffered event, got %d", got)
	}
}
