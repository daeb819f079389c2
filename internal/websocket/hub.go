package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"reflective-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks signed-in editor connections per user (multi-device) and fans
// user frames out to them, across instances when Redis is configured.
type Hub struct {
	instanceID string

	mu      sync.RWMutex
	clients map[string][]*Client

	rdb    *redis.Client // optional
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		instanceID: uuid.NewString(),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// Run relays frames published by other instances until ctx ends.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn("Hub", "Dropping malformed cluster message", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceID {
				continue
			}
			h.deliver(payload.TargetUserID, payload.Message)
		}
	}
}

// Register adds a signed-in client. Anonymous clients are not tracked.
func (h *Hub) Register(c *Client) {
	if c.UserID == "" {
		return
	}
	h.mu.Lock()
	h.clients[c.UserID] = append(h.clients[c.UserID], c)
	h.mu.Unlock()
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": c.UserID, "session_key": c.SessionKey})
}

func (h *Hub) Unregister(c *Client) {
	if c.UserID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.clients[c.UserID]
	for i, existing := range clients {
		if existing == c {
			h.clients[c.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[c.UserID]) == 0 {
		delete(h.clients, c.UserID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": c.UserID})
	}
}

// SendToUser delivers payload to every device of userID on this instance and
// publishes it for the others.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.deliver(userID, payload)

	if h.rdb == nil {
		return
	}
	data, err := json.Marshal(clusterMessage{Origin: h.instanceID, TargetUserID: userID, Message: payload})
	if err != nil {
		h.logger.Warn("Hub", "Payload is not JSON, not relayed", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := h.rdb.Publish(context.Background(), clusterChannel, data).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish cluster message", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) deliver(userID string, payload []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.Send(payload) {
			h.logger.Warn("Hub", "Client send buffer full, dropping client", map[string]interface{}{"user_id": userID})
			h.Unregister(c)
		}
	}
}

// Connected returns how many devices of userID are attached here.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
