package notify

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientCommand is the client→server wire frame.
type clientCommand struct {
	Action string          `json:"action"`
	Room   string          `json:"room,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Client is one authenticated websocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	role   string
	logger *slog.Logger
}

// readPump consumes client commands until the connection closes.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Unexpected websocket close", slog.Any("error", err))
			}
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.logger.Debug("Ignoring malformed websocket frame", slog.String("user_id", c.userID))
			continue
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd clientCommand) {
	switch cmd.Action {
	case "join_room":
		if cmd.Room != "" {
			c.hub.join <- membership{client: c, room: cmd.Room}
		}
	case "leave_room":
		if cmd.Room != "" {
			c.hub.leave <- membership{client: c, room: cmd.Room}
		}
	case "send_message":
		if cmd.Room == "" {
			return
		}
		c.hub.ToRoom(cmd.Room, EventNewMessage, map[string]any{
			"room":       cmd.Room,
			"senderId":   c.userID,
			"senderRole": c.role,
			"data":       cmd.Data,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
		})
	default:
		c.logger.Debug("Unknown websocket action", slog.String("action", cmd.Action))
	}
}

// writePump flushes queued events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
