package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const defaultOutboxSize = 32

var (
	errSubscriberClosed   = errors.New("subscriber closed")
	errSubscriberBackedUp = errors.New("subscriber outbox full")
)

// ConnSubscriber adapts a websocket connection to Subscriber. Send only queues the
// payload; the connection's own goroutine performs the write, so a slow peer never
// stalls a broadcast. A peer whose outbox fills up is reported as failed and dropped.
type ConnSubscriber struct {
	id           string
	key          string
	conn         *websocket.Conn
	writeTimeout time.Duration
	outbox       chan []byte

	mu     sync.Mutex
	closed bool
}

// NewConnSubscriber wraps conn. outboxSize <= 0 uses the default.
func NewConnSubscriber(conn *websocket.Conn, key string, writeTimeout time.Duration, outboxSize int) *ConnSubscriber {
	if outboxSize <= 0 {
		outboxSize = defaultOutboxSize
	}
	return &ConnSubscriber{
		id:           uuid.NewString(),
		key:          key,
		conn:         conn,
		writeTimeout: writeTimeout,
		outbox:       make(chan []byte, outboxSize),
	}
}

func (s *ConnSubscriber) ID() string  { return s.id }
func (s *ConnSubscriber) Key() string { return s.key }

// Send queues payload for delivery as a single text frame. It never blocks.
func (s *ConnSubscriber) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSubscriberClosed
	}
	select {
	case s.outbox <- payload:
		return nil
	default:
		return errSubscriberBackedUp
	}
}

// Close stops the outbox and closes the connection once.
func (s *ConnSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.outbox)
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// writeLoop drains the outbox until it is closed. A failed write closes the
// connection, which ends the read loop in Serve.
func (s *ConnSubscriber) writeLoop() {
	for payload := range s.outbox {
		if s.writeTimeout > 0 {
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
				_ = s.conn.Close()
				return
			}
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = s.conn.Close()
			return
		}
	}
}

// Serve registers the subscriber, drains inbound frames until the peer disconnects,
// then unregisters it. It blocks for the lifetime of the connection and returns only
// after the writer goroutine has exited.
func Serve(hub *Hub, group Group, sub *ConnSubscriber) error {
	if err := hub.Register(group, sub); err != nil {
		_ = sub.Close()
		return err
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		sub.writeLoop()
	}()
	defer func() {
		hub.Unregister(group, sub)
		_ = sub.Close()
		<-written
	}()

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
