package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"courierhub/internal/core/domain/model/kernel"
)

// FrameHandler consumes inbound frames and connection teardown events.
type FrameHandler interface {
	HandleFrame(ctx context.Context, conn kernel.ConnID, frame Frame)
	OnDisconnect(conn kernel.ConnID)
}

type client struct {
	socket  *websocket.Conn
	writeMu sync.Mutex
	once    sync.Once
}

// Hub owns the websocket connections. It upgrades incoming requests, runs a
// read loop per connection and serializes concurrent writers through a
// per-connection mutex.
type Hub struct {
	upgrader websocket.Upgrader
	handler  FrameHandler
	logger   *slog.Logger

	mu    sync.RWMutex
	conns map[kernel.ConnID]*client
}

func NewHub(handler FrameHandler, logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handler: handler,
		logger:  logger.With("component", "ws_hub"),
		conns:   make(map[kernel.ConnID]*client),
	}
}

// Handle upgrades an HTTP request and drives the connection's read loop
// until the peer goes away.
func (h *Hub) Handle(c echo.Context) error {
	socket, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	connID := kernel.NewConnID()
	cl := &client{socket: socket}

	h.mu.Lock()
	h.conns[connID] = cl
	h.mu.Unlock()

	h.logger.Info("connection opened", "conn", connID)
	h.readLoop(c.Request().Context(), connID, cl)
	return nil
}

func (h *Hub) readLoop(ctx context.Context, connID kernel.ConnID, cl *client) {
	defer h.teardown(connID, cl)

	for {
		_, raw, err := cl.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("connection read failed", "conn", connID, "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(connID, "", "malformed frame")
			continue
		}
		h.handler.HandleFrame(ctx, connID, frame)
	}
}

// teardown runs exactly once per connection regardless of how the read loop
// exits.
func (h *Hub) teardown(connID kernel.ConnID, cl *client) {
	cl.once.Do(func() {
		h.mu.Lock()
		delete(h.conns, connID)
		h.mu.Unlock()

		h.handler.OnDisconnect(connID)
		_ = cl.socket.Close()
		h.logger.Info("connection closed", "conn", connID)
	})
}

// SendToConn marshals an outbound frame and writes it to one connection.
// It satisfies the dispatcher's sender port.
func (h *Hub) SendToConn(conn kernel.ConnID, event string, payload any) error {
	h.mu.RLock()
	cl, ok := h.conns[conn]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("connection %s is gone", conn)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event, err)
	}
	raw, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", event, err)
	}

	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	if err := cl.socket.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write %s to %s: %w", event, conn, err)
	}
	return nil
}

func (h *Hub) sendError(conn kernel.ConnID, event, message string) {
	payload := map[string]any{"message": message}
	if event != "" {
		payload["event"] = event
	}
	if err := h.SendToConn(conn, EventOrderError, payload); err != nil {
		h.logger.Warn("error frame undeliverable", "conn", conn, "error", err)
	}
}
