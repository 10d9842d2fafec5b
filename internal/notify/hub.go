// Package notify implements the realtime notification channel: an
// authenticated websocket per client, with named rooms and server-side event
// fan-out. Delivery is at-most-once and best-effort: room membership lives in
// process memory, nothing is persisted or replayed, and a client that is
// disconnected when an event fires simply misses it.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event names pushed to clients.
const (
	EventNewMessage         = "new_message"
	EventApplicationUpdated = "application_updated"
	EventInterviewScheduled = "interview_scheduled"
	EventStatusChanged      = "status_changed"
	EventNotification       = "notification"
)

// Broadcaster is the emit surface handed to entity services.
type Broadcaster interface {
	ToRoom(room, event string, data any)
	ToAll(event string, data any)
}

// envelope is the server→client wire frame.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type roomMessage struct {
	room    string // empty means broadcast to all
	payload []byte
}

// Hub owns the client set and room membership. All mutation happens on the
// Run goroutine; channels are the only cross-goroutine surface.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	join       chan membership
	leave      chan membership
	emit       chan roomMessage

	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	logger *slog.Logger
}

type membership struct {
	client *Client
	room   string
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan membership),
		leave:      make(chan membership),
		emit:       make(chan roomMessage, 256),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		logger:     logger,
	}
}

// Run processes hub events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("Client connected", slog.String("user_id", c.userID))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.dropClient(c)
				h.logger.Info("Client disconnected", slog.String("user_id", c.userID))
			}

		case m := <-h.join:
			if _, ok := h.clients[m.client]; !ok {
				continue
			}
			if h.rooms[m.room] == nil {
				h.rooms[m.room] = make(map[*Client]struct{})
			}
			h.rooms[m.room][m.client] = struct{}{}

		case m := <-h.leave:
			h.removeFromRoom(m.client, m.room)

		case msg := <-h.emit:
			for _, c := range h.targets(msg.room) {
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer; drop it rather than block the hub.
					h.dropClient(c)
				}
			}
		}
	}
}

func (h *Hub) targets(room string) []*Client {
	if room == "" {
		out := make([]*Client, 0, len(h.clients))
		for c := range h.clients {
			out = append(out, c)
		}
		return out
	}
	out := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) dropClient(c *Client) {
	delete(h.clients, c)
	for room := range h.rooms {
		h.removeFromRoom(c, room)
	}
	close(c.send)
}

func (h *Hub) removeFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// ToRoom emits one event to every client currently in the room.
func (h *Hub) ToRoom(room, event string, data any) {
	h.push(room, event, data)
}

// ToAll broadcasts one event to every connected client.
func (h *Hub) ToAll(event string, data any) {
	h.push("", event, data)
}

func (h *Hub) push(room, event string, data any) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("Failed to encode event", slog.String("event", event), slog.Any("error", err))
		return
	}
	select {
	case h.emit <- roomMessage{room: room, payload: payload}:
	default:
		// Emit queue full; best-effort delivery drops the event.
		h.logger.Warn("Notification queue full, event dropped", slog.String("event", event))
	}
}

// NopBroadcaster discards all events; used where no hub is wired (tests).
type NopBroadcaster struct{}

func (NopBroadcaster) ToRoom(room, event string, data any) {}
func (NopBroadcaster) ToAll(event string, data any)        {}
