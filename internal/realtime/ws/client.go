package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/duckrace/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Dispatcher consumes inbound frames and connection closes
type Dispatcher interface {
	Handle(ctx context.Context, connID model.PlayerID, raw []byte)
	Disconnect(ctx context.Context, connID model.PlayerID)
}

// Client is one websocket connection
type Client struct {
	id          model.PlayerID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
}

// NewClient wraps an upgraded connection with a fresh id
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:          model.PlayerID(uuid.NewString()),
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the connection id, which doubles as the player id
func (c *Client) ID() model.PlayerID {
	return c.id
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Any origin may connect, matching the open CORS policy of the game
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and runs the connection until it closes
func ServeWS(hub *Hub, dispatcher Dispatcher, logger *slog.Logger) http.HandlerFunc {
	logger = logger.With(slog.String("component", "ws"))
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an HTTP error
			logger.Warn("ws upgrade failed", slog.Any("error", err))
			return
		}

		client := NewClient(conn)
		hub.Register(client)

		go client.writePump()
		client.readPump(context.WithoutCancel(r.Context()), hub, dispatcher, logger)
	}
}

// readPump feeds inbound frames to the dispatcher in arrival order. When
// the connection ends the client leaves its room and is unregistered.
func (c *Client) readPump(ctx context.Context, hub *Hub, dispatcher Dispatcher, logger *slog.Logger) {
	defer func() {
		dispatcher.Disconnect(ctx, c.id)
		hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error",
					slog.String("conn", string(c.id)),
					slog.Any("error", err))
			}
			return
		}
		dispatcher.Handle(ctx, c.id, message)
	}
}

// writePump drains the send queue to the socket and keeps the peer alive
// with pings. A closed queue sends a close frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
