package notify

import (
	"encoding/json"
	"sync"

	"github.com/winappio/offerwall/internal/logger"
)

const defaultSessionBuffer = 16

// Hub tracks the live WebSocket sessions of this process, keyed by user.
// Delivery is best effort: a session whose buffer is full misses the event
// rather than blocking the dispatcher.
type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]map[*Session]struct{}
	bufferSize int
}

// NewHub creates a session hub.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultSessionBuffer
	}
	return &Hub{
		sessions:   make(map[string]map[*Session]struct{}),
		bufferSize: bufferSize,
	}
}

// Register adds a session for a user.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	set, ok := h.sessions[s.userID]
	if !ok {
		set = make(map[*Session]struct{})
		h.sessions[s.userID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a session and closes its send channel.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	if set, ok := h.sessions[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.send)
		}
		if len(set) == 0 {
			delete(h.sessions, s.userID)
		}
	}
	h.mu.Unlock()
}

// Dispatch delivers an event to every live session of its target user.
func (h *Hub) Dispatch(event CompletionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorw("notify_event_marshal_failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions[event.UserID] {
		select {
		case s.send <- data:
		default:
			// Buffer full, drop rather than block the dispatcher.
		}
	}
}

// SessionCount returns the number of live sessions across all users.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, set := range h.sessions {
		count += len(set)
	}
	return count
}
