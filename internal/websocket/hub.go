package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// writeWait bounds each write so a stalled operator cannot block the feed.
const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenVerifier resolves an operator token to its subject.
type TokenVerifier interface {
	ParseOperator(token string) (string, error)
}

// Hub fans relay diagnostics events out to connected operator sockets.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]string
	auth        TokenVerifier
	logger      *zap.Logger
	writeWait   time.Duration
}

func NewHub(auth TokenVerifier, logger *zap.Logger) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]string),
		auth:        auth,
		logger:      logger,
		writeWait:   writeWait,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	operator, err := h.auth.ParseOperator(tokenStr)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.registerConnection(operator, conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregisterConnection(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Listen subscribes to channel and forwards every payload until ctx is done.
func (h *Hub) Listen(ctx context.Context, client *redis.Client, channel string) {
	pubsub := client.Subscribe(ctx, channel)
	defer pubsub.Close()

	h.logger.Info("Diagnostics feed subscribed", zap.String("channel", channel))
	h.pump(ctx, pubsub.Channel())
}

func (h *Hub) pump(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

// Close disconnects every operator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		delete(h.connections, conn)
	}
}

// ConnectionCount returns the number of connected operators.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) registerConnection(operator string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn] = operator
	h.logger.Info("Operator connected",
		zap.String("operator", operator),
		zap.Int("total", len(h.connections)),
	)
}

func (h *Hub) unregisterConnection(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()

	operator, ok := h.connections[conn]
	if !ok {
		return
	}
	delete(h.connections, conn)
	h.logger.Info("Operator disconnected", zap.String("operator", operator))
}

// broadcast holds the write lock: gorilla connections allow one writer at a time.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, operator := range h.connections {
		conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("Dropping operator connection", zap.String("operator", operator), zap.Error(err))
			conn.Close()
			delete(h.connections, conn)
		}
	}
}
