package game

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/typing-hub-backend/internal"
	"github.com/scythe504/typing-hub-backend/internal/utils"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one transport connection. Only the hub writes to send and
// only the hub closes it.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter

	// set by the hub when send overflowed
	dropped bool
}

func NewClient(conn *websocket.Conn, limiter *rate.Limiter) *Client {
	return &Client{
		id:      utils.GenerateID(0),
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		limiter: limiter,
	}
}

func (c *Client) ID() string {
	return c.id
}

type WebSocketConfig struct {
	AllowedOrigin string
	RateLimit     rate.Limit
	RateBurst     int
}

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// HandleWebSocket upgrades the request and binds the connection to the hub.
func HandleWebSocket(h *Hub, cfg WebSocketConfig) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.AllowedOrigin == "" || cfg.AllowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == cfg.AllowedOrigin
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("[HandleWebSocket] upgrade failed")
			return
		}

		var limiter *rate.Limiter
		if cfg.RateLimit > 0 {
			limiter = rate.NewLimiter(cfg.RateLimit, cfg.RateBurst)
		}
		client := NewClient(conn, limiter)
		log.Debug().Str("conn_id", client.id).Str("remote", r.RemoteAddr).Msg("[HandleWebSocket] connection opened")

		if !h.Register(client) {
			log.Warn().Str("conn_id", client.id).Msg("[HandleWebSocket] hub stopped, refusing connection")
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}
		go client.writePump()
		go client.readPump(h)
	}
}

// readPump forwards inbound messages to the hub. A read error is a disconnect.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("conn_id", c.id).Msg("[readPump] unexpected close")
			}
			return
		}

		if c.limiter != nil && !c.limiter.Allow() {
			log.Warn().Str("conn_id", c.id).Msg("[readPump] rate limit exceeded, dropping message")
			continue
		}

		var baseMsg internal.Message[json.RawMessage]
		if err := json.Unmarshal(rawMessage, &baseMsg); err != nil {
			log.Warn().Err(err).Str("conn_id", c.id).Msg("[readPump] failed to parse message")
			continue
		}
		h.Submit(c, baseMsg)
	}
}

// writePump drains send until the hub closes it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Str("conn_id", c.id).Msg("[writePump] write failed")
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
