package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func newHubClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: userID,
		logger: hub.logger,
	}
}

func recv(t *testing.T, c *Client) envelope {
	t.Helper()
	select {
	case payload := <-c.send:
		var env envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("expected an event, got none")
		return envelope{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("expected no event, got %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RoomDelivery(t *testing.T) {
	hub := newRunningHub(t)

	inRoom := newHubClient(hub, "user_1")
	outside := newHubClient(hub, "user_2")
	hub.register <- inRoom
	hub.register <- outside
	hub.join <- membership{client: inRoom, room: "job:job_1"}

	hub.ToRoom("job:job_1", EventApplicationUpdated, map[string]string{"applicationId": "app_1"})

	env := recv(t, inRoom)
	assert.Equal(t, EventApplicationUpdated, env.Event)
	assertSilent(t, outside)
}

func TestHub_LeaveRoomStopsDelivery(t *testing.T) {
	hub := newRunningHub(t)

	c := newHubClient(hub, "user_1")
	hub.register <- c
	hub.join <- membership{client: c, room: "job:job_1"}
	hub.leave <- membership{client: c, room: "job:job_1"}

	hub.ToRoom("job:job_1", EventStatusChanged, nil)
	assertSilent(t, c)
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := newRunningHub(t)

	a := newHubClient(hub, "user_1")
	b := newHubClient(hub, "user_2")
	hub.register <- a
	hub.register <- b

	hub.ToAll(EventNotification, map[string]string{"type": "announcement"})

	assert.Equal(t, EventNotification, recv(t, a).Event)
	assert.Equal(t, EventNotification, recv(t, b).Event)
}

func TestHub_DisconnectedClientMissesEvents(t *testing.T) {
	hub := newRunningHub(t)

	c := newHubClient(hub, "user_1")
	hub.register <- c
	hub.join <- membership{client: c, room: "job:job_1"}
	hub.unregister <- c

	// Delivery is at-most-once with no replay; events fired while the
	// client is gone are simply lost.
	hub.ToRoom("job:job_1", EventApplicationUpdated, nil)

	select {
	case _, open := <-c.send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
