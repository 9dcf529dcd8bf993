/*
Package chat contains the real-time notification layer.

This file defines the Client struct, one active WebSocket subscription. The
channel is push-only from the server's point of view: the read pump exists
for heartbeats and close detection, the write pump delivers change signals
and pings.
*/
package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"glyphchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	// Subscribers have nothing to say; anything larger than a control frame
	// is a misbehaving client.
	maxMessageSize = 512
)

// Client represents one connected real-time subscriber.
type Client struct {
	// hub is the broadcast domain this client belongs to.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// connID tags this connection's log lines. Never sent to the client.
	connID string

	// send queues outbound signals waiting to be written.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, connID string) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Subscriber").
		Str("conn_id", connID).
		Logger()

	client := &Client{
		hub:    hub,
		conn:   wsConn,
		connID: connID,
		send:   make(chan []byte, 16),
		logger: clientLogger,
	}

	return client
}

// closeSend closes the send channel exactly once, which terminates the write
// pump with a close frame.
func (c *Client) closeSend() {
	select {
	case <-c.send:
	default:
		close(c.send)
	}
}

// ReadPump consumes the connection until it closes. Subscribers never send
// application data, so every readable frame is discarded; the pump's job is
// keeping the Pong deadline fresh and noticing disconnects.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}
	}
}

// cleanupOnDisconnect unregisters the client and closes the connection when
// the read pump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Debug().Msg("Subscriber connection cleanup starting.")

	c.hub.UnregisterClient(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Subscriber connection close error")
	}
}

// WritePump writes queued signals and periodic pings to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Subscriber connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one signal pulled from the send channel. Returns
// false when the write pump should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends the periodic heartbeat Ping. Returns false when the
// write pump should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
