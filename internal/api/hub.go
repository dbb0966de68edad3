package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neonsnake/internal/core"
	"github.com/vovakirdan/neonsnake/internal/metrics"
	"github.com/vovakirdan/neonsnake/internal/snake"
)

const (
	// MaxSpectators caps concurrent websocket connections.
	MaxSpectators = 200

	broadcastBuffer = 64
	writeTimeout    = 2 * time.Second
)

// PointJSON is a grid cell on the wire.
type PointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// LiveState is the spectator view of a snapshot.
type LiveState struct {
	Session   string      `json:"session,omitempty"`
	Tick      uint64      `json:"tick"`
	Status    string      `json:"status"`
	Score     int         `json:"score"`
	Level     int         `json:"level"`
	SpeedMS   int64       `json:"speedMs"`
	ElapsedMS int64       `json:"elapsedMs"`
	Direction string      `json:"direction"`
	Snake     []PointJSON `json:"snake"`
	Food      PointJSON   `json:"food"`
}

func point(p core.Position) PointJSON {
	return PointJSON{X: p.X, Y: p.Y}
}

// NewLiveState converts a snapshot into its wire form.
func NewLiveState(s snake.Snapshot) LiveState {
	body := make([]PointJSON, 0, len(s.Snake))
	for _, p := range s.Snake {
		body = append(body, point(p))
	}
	return LiveState{
		Tick:      s.Tick,
		Status:    s.Status.String(),
		Score:     s.Score,
		Level:     s.Level,
		SpeedMS:   s.Speed.Milliseconds(),
		ElapsedMS: s.Elapsed.Milliseconds(),
		Direction: s.Direction.String(),
		Snake:     body,
		Food:      point(s.Food),
	}
}

// Hub fans published snapshots out to websocket spectators. Publishing
// never blocks: when the broadcast buffer is full the message is dropped.
type Hub struct {
	clients    map[*websocket.Conn]struct{}
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.RWMutex

	latest    LiveState
	hasLatest bool

	upgrader websocket.Upgrader
	logger   *log.Logger
	metrics  *metrics.Metrics
}

// NewHub creates a hub. Run must be started before connections are served.
func NewHub(logger *log.Logger, m *metrics.Metrics, allowedOrigins []string) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger.WithPrefix("hub"),
		metrics:    m,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if originAllowed(origin, allowedOrigins) {
				return true
			}
			h.logger.Warn("websocket origin rejected", "origin", origin)
			return false
		},
	}
	return h
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" || strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// Run owns the client set until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			h.metrics.SetSpectators(0)
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("spectator connected", "remote", conn.RemoteAddr().String(), "total", count)
			h.metrics.SetSpectators(count)

		case conn := <-h.unregister:
			h.remove(conn)

		case msg := <-h.broadcast:
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()

			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					h.remove(conn)
				}
			}
			h.metrics.IncSpectatorMessages()
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		conn.Close()
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("spectator disconnected", "total", count)
		h.metrics.SetSpectators(count)
	}
}

// Publish records s as the latest state and queues it for broadcast.
func (h *Hub) Publish(s snake.Snapshot) {
	h.publish("", s)
}

// SessionPublisher tags every snapshot with a session id.
type SessionPublisher struct {
	hub *Hub
	id  string
}

// ForSession returns a publisher whose snapshots carry id.
func (h *Hub) ForSession(id string) *SessionPublisher {
	return &SessionPublisher{hub: h, id: id}
}

// Publish forwards s to the hub.
func (p *SessionPublisher) Publish(s snake.Snapshot) {
	p.hub.publish(p.id, s)
}

func (h *Hub) publish(session string, s snake.Snapshot) {
	state := NewLiveState(s)
	state.Session = session

	h.mu.Lock()
	h.latest = state
	h.hasLatest = true
	h.mu.Unlock()

	msg, err := json.Marshal(map[string]any{"event": "game:state", "data": state})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		// backpressure: drop
	}
}

// Latest returns the most recently published state.
func (h *Hub) Latest() (LiveState, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades a spectator connection. Spectators are
// read-only; incoming messages are discarded.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.ClientCount() >= MaxSpectators {
		writeError(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	if state, ok := h.Latest(); ok {
		if msg, err := json.Marshal(map[string]any{"event": "game:state", "data": state}); err == nil {
			select {
			case h.broadcast <- msg:
			default:
			}
		}
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
