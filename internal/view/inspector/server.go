// Package inspector runs a small dev-only HTTP+WebSocket server that
// streams a build/condense run's AgentEvents to connected browser clients,
// for watching a View engine run live instead of tailing logs. It is not
// meant to be exposed outside a developer's machine.
//
// The wire protocol and session lifecycle are adapted from the teacher's
// gateway.wsControlPlane: a discriminated wsFrame envelope, one goroutine
// pair (read/write) per connection, and ping/pong keep-alives. Unlike the
// teacher's control plane there is no request/response method dispatch to
// speak of — the inspector only pushes events — so the frame is trimmed to
// what a one-directional stream needs.
package inspector

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/haasonsaas/viewengine/internal/observability"
	"github.com/haasonsaas/viewengine/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 45 * time.Second
	pingInterval   = 20 * time.Second
	sendBufferSize = 128
	maxMessageSize = 1 << 16
)

// wsFrame is the JSON envelope pushed to every connected client.
type wsFrame struct {
	Type  string             `json:"type"`
	Seq   int64              `json:"seq,omitempty"`
	Event *models.AgentEvent `json:"event,omitempty"`
	Hello *helloPayload      `json:"hello,omitempty"`
}

type helloPayload struct {
	RunID     string `json:"run_id"`
	StartedAt string `json:"started_at"`
}

// Server accepts WebSocket connections and fans out AgentEvents received
// from Emit to all of them. It implements observability.EventSink, so it
// can be plugged directly into an EventEmitter or a BackpressureSink's
// consumer loop.
type Server struct {
	runID    string
	logger   *slog.Logger
	upgrader websocket.Upgrader
	metrics  *observability.ViewMetrics

	mu       sync.Mutex
	sessions map[string]*wsSession

	startedAt time.Time
}

// NewServer creates an inspector server for the given run. Until WithMetrics
// attaches metrics, connection and drop counts are not recorded.
func NewServer(runID string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		runID:  runID,
		logger: logger.With("component", "view.inspector"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions:  make(map[string]*wsSession),
		startedAt: time.Now(),
	}
}

// WithMetrics attaches a ViewMetrics instance for connection and
// drop-counter reporting, returning s for chaining.
func (s *Server) WithMetrics(metrics *observability.ViewMetrics) *Server {
	s.metrics = metrics
	return s
}

// Handler returns an http.Handler for the WebSocket upgrade endpoint,
// mountable at any path (typically "/ws").
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.serveWS)
}

// HealthHandler returns a plain liveness endpoint for the dev server.
func (s *Server) HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"run_id":    s.runID,
			"clients":   s.clientCount(),
			"uptime_ms": time.Since(s.startedAt).Milliseconds(),
		})
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	session := &wsSession{
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		ctx:    ctx,
		cancel: cancel,
		id:     uuid.NewString(),
	}
	s.addSession(session)
	session.run()
}

func (s *Server) addSession(session *wsSession) {
	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.InspectorClientConnected()
	}
}

func (s *Server) removeSession(session *wsSession) {
	s.mu.Lock()
	delete(s.sessions, session.id)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.InspectorClientDisconnected()
	}
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Emit implements observability.EventSink, broadcasting e to every
// connected client. Slow or disconnected clients are dropped rather than
// allowed to block the emitting run.
func (s *Server) Emit(_ context.Context, e models.AgentEvent) {
	frame := wsFrame{Type: "event", Seq: int64(e.Sequence), Event: &e}
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Warn("failed to marshal event frame", "err", err)
		return
	}

	s.mu.Lock()
	sessions := make([]*wsSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.Unlock()

	for _, session := range sessions {
		if !session.enqueue(data) && s.metrics != nil {
			s.metrics.InspectorEventDropped()
		}
	}
}

var _ observability.EventSink = (*Server)(nil)

type wsSession struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	id     string
	closed atomic.Bool
}

func (s *wsSession) run() {
	defer s.close()

	hello := wsFrame{
		Type: "hello",
		Hello: &helloPayload{
			RunID:     s.server.runID,
			StartedAt: s.server.startedAt.UTC().Format(time.RFC3339),
		},
	}
	if data, err := json.Marshal(hello); err == nil {
		s.enqueue(data)
	}

	go s.writeLoop()
	s.readLoop()
}

func (s *wsSession) close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.server.removeSession(s)
	s.cancel()
	close(s.send)
	_ = s.conn.Close()
}

// readLoop only exists to detect disconnects and keep the pong deadline
// fresh; the inspector protocol has nothing for a client to request.
func (s *wsSession) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *wsSession) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *wsSession) enqueue(data []byte) bool {
	if s.closed.Load() {
		return false
	}
	select {
	case s.send <- data:
		return true
	default:
		// buffer full: this client is falling behind, drop the event
		// rather than block the broadcast loop for everyone else.
		return false
	}
}
