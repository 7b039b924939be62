package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubNotifyTargetsOneClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNop())
	go hub.Run(ctx)

	a := &Client{Hub: hub, ClientID: "client-a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, ClientID: "client-b", Send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b

	require.Eventually(t, func() bool {
		return hub.Connections("client-a") == 1 && hub.Connections("client-b") == 1
	}, time.Second, 5*time.Millisecond)

	hub.Notify("client-a", "transcript.updated", map[string]int{"n": 2})

	select {
	case raw := <-a.Send:
		var evt dto.LiveEvent
		require.NoError(t, json.Unmarshal(raw, &evt))
		assert.Equal(t, "transcript.updated", evt.Type)
	case <-time.After(time.Second):
		t.Fatal("client-a got no event")
	}
	assert.Len(t, b.Send, 0)

	hub.unregister <- a
	assert.Eventually(t, func() bool { return hub.Connections("client-a") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNop())
	go hub.Run(ctx)

	c := &Client{Hub: hub, ClientID: "slow", Send: make(chan []byte, 1)}
	hub.register <- c
	require.Eventually(t, func() bool { return hub.Connections("slow") == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify("slow", "analysis.updated", nil)
	hub.Notify("slow", "analysis.updated", nil)

	assert.Len(t, c.Send, 1)
	assert.Equal(t, 1, hub.Connections("slow"))
}

func TestHubStopReleasesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(nil, logger.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{Hub: hub, ClientID: "tab", Send: make(chan []byte, 1)}
	require.True(t, hub.join(c))
	require.Eventually(t, func() bool { return hub.Connections("tab") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	_, open := <-c.Send
	assert.False(t, open, "writer should be released")
	assert.Equal(t, 0, hub.Connections("tab"))

	// A tab arriving or leaving after shutdown must not hang.
	late := &Client{Hub: hub, ClientID: "late", Send: make(chan []byte, 1)}
	joined := make(chan bool, 1)
	go func() {
		joined <- hub.join(late)
		hub.leave(late)
		hub.leave(c)
	}()
	select {
	case ok := <-joined:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("join blocked after shutdown")
	}
	hub.Notify("late", "auth.updated", nil)
	assert.Len(t, late.Send, 0)
}
