package notify

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const pingInterval = 30 * time.Second

// Session is one authenticated WebSocket connection.
type Session struct {
	hub    *Hub
	conn   *ws.Conn
	userID string
	send   chan []byte
}

// NewSession ties a connection to the hub for a user.
func NewSession(hub *Hub, conn *ws.Conn, userID string) *Session {
	return &Session{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, hub.bufferSize),
	}
}

// Run registers the session and pumps events until the connection closes.
func (s *Session) Run(ctx context.Context) {
	s.hub.Register(s)
	defer s.hub.Unregister(s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writePump(ctx)
	s.readPump(ctx)
}

// readPump discards inbound frames; the stream is push-only. Returning on
// error triggers cleanup.
func (s *Session) readPump(ctx context.Context) {
	for {
		if _, _, err := s.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump drains the send channel and pings to detect stale connections.
func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			if err := s.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
