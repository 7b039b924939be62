package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"medichat-web/internal/dto"
	"medichat-web/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

type clusterMessage struct {
	Origin         string          `json:"origin"`
	TargetClientID string          `json:"target_client_id"`
	Message        json.RawMessage `json:"message"`
}

// Hub fans UI state updates out to the open tabs of each browser client.
type Hub struct {
	// Browser client id -> open connections (one per tab)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed once Run has returned
	done chan struct{}

	mu sync.RWMutex

	// Optional, relays updates to other instances
	rdb    *redis.Client
	origin string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ClientID] = append(h.clients[client.ClientID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.ClientID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ClientID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ClientID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ClientID]) == 0 {
					delete(h.clients, client.ClientID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"client_id": client.ClientID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// shutdown releases every writer and unblocks later join/leave calls.
func (h *Hub) shutdown() {
	h.mu.Lock()
	for id, clients := range h.clients {
		for _, c := range clients {
			close(c.Send)
		}
		delete(h.clients, id)
	}
	h.mu.Unlock()
	close(h.done)
	h.logger.Info("Hub", "Stopped", nil)
}

// join registers c, or reports false when the hub no longer runs.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func EncodeEvent(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(dto.LiveEvent{Type: eventType, Data: data})
}

// Connections reports how many tabs of clientID are connected here.
func (h *Hub) Connections(clientID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[clientID])
}

// Notify pushes one typed event to every tab of clientID, here and on the
// other instances.
func (h *Hub) Notify(clientID, eventType string, data interface{}) {
	payload, err := EncodeEvent(eventType, data)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode live event", map[string]interface{}{"type": eventType, "error": err})
		return
	}

	h.deliver(clientID, payload)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{
			Origin:         h.origin,
			TargetClientID: clientID,
			Message:        payload,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay live event", map[string]interface{}{"error": err})
		}
	}
}

func (h *Hub) deliver(clientID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients[clientID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"client_id": clientID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis msg parse error", map[string]interface{}{"error": err})
			continue
		}
		if payload.Origin == h.origin {
			continue
		}
		h.deliver(payload.TargetClientID, payload.Message)
	}
}
