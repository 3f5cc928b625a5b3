package notifiers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/daniacca/qssa/internal/qssa"
	"github.com/gorilla/websocket"
)

// WebSocketNotifier pushes progress events to every connected WebSocket client.
// It is an http.Handler: mount it on a path and each upgraded connection is
// subscribed until the client goes away.
type WebSocketNotifier struct {
	id       string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}

	events chan qssa.ProgressEvent
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewWebSocketNotifier creates a stream and starts its broadcaster.
func NewWebSocketNotifier(id string) *WebSocketNotifier {
	s := &WebSocketNotifier{
		id:      id,
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan qssa.ProgressEvent, 256),
		done:    make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *WebSocketNotifier) ID() string   { return s.id }
func (s *WebSocketNotifier) Type() string { return "websocket" }

// Clients returns the number of connected clients.
func (s *WebSocketNotifier) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// ServeHTTP upgrades the request and keeps the client subscribed until it
// disconnects or the stream closes.
func (s *WebSocketNotifier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	select {
	case <-s.done:
		s.mu.Unlock()
		conn.Close()
		return
	default:
	}
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Clients only listen; reading detects the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	s.drop(conn)
}

// Notify queues the event for broadcast.
func (s *WebSocketNotifier) Notify(ctx context.Context, event qssa.ProgressEvent) error {
	select {
	case <-s.done:
		return fmt.Errorf("progress stream %s is closed", s.id)
	default:
	}
	select {
	case s.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
		return fmt.Errorf("notification queue full")
	}
}

func (s *WebSocketNotifier) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcast(event)
		}
	}
}

func (s *WebSocketNotifier) broadcast(event qssa.ProgressEvent) {
	data, err := event.JSON()
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(conn)
		}
	}
}

func (s *WebSocketNotifier) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, ok := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if ok {
		conn.Close()
	}
}

// Close stops the broadcaster and disconnects every client.
func (s *WebSocketNotifier) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.done)
		for conn := range s.clients {
			conn.Close()
			delete(s.clients, conn)
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
	return nil
}
