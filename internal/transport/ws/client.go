package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/relay/internal/config"
	"github.com/cory-johannsen/relay/internal/relay/engine"
	"github.com/cory-johannsen/relay/internal/relay/event"
	"github.com/cory-johannsen/relay/internal/relay/session"
)

// client pairs one WebSocket connection with its session. The read
// loop feeds decoded events to the engine; the write loop drains the
// session outbox.
type client struct {
	conn   *websocket.Conn
	sess   *session.Session
	cfg    config.WebSocketConfig
	logger *zap.Logger
}

// readLoop decodes inbound frames and dispatches them to the engine.
// Malformed frames are dropped here and never reach the engine. On
// read failure the session is cleaned up from every store.
func (c *client) readLoop(eng *engine.Engine) {
	defer func() {
		eng.Disconnect(c.sess.ID)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(c.readDeadline())
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(c.readDeadline())
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("read failed", zap.Error(err))
			}
			return
		}

		ev, err := event.Decode(data)
		if err != nil {
			c.logger.Debug("dropping malformed frame", zap.Error(err))
			continue
		}
		eng.Dispatch(c.sess.ID, ev)
	}
}

// writeLoop serializes outbox payloads to the connection and sends
// keepalive pings. It exits when the outbox is closed (session
// removed) or a write fails.
func (c *client) writeLoop() {
	pingInterval := c.cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.sess.Outbox.Payloads():
			_ = c.conn.SetWriteDeadline(c.writeDeadline())
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(payload); err != nil {
				c.logger.Debug("write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(c.writeDeadline())
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readDeadline returns the next read deadline. A zero pong timeout
// disables the deadline rather than expiring it immediately.
func (c *client) readDeadline() time.Time {
	if c.cfg.PongTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.cfg.PongTimeout)
}

// writeDeadline returns the next write deadline. A zero write timeout
// disables the deadline rather than expiring it immediately.
func (c *client) writeDeadline() time.Time {
	if c.cfg.WriteTimeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.cfg.WriteTimeout)
}
