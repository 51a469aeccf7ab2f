package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"bolt-sync-be/internal/pkg/logger"
	"bolt-sync-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "sync_events"

type Hub struct {
	// Registered clients map: ProjectID -> connected editors
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ProjectID] = append(h.clients[client.ProjectID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"project_id": client.ProjectID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.ProjectID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.ProjectID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.ProjectID]) == 0 {
					delete(h.clients, client.ProjectID)
					h.logger.Info("Hub", "Last client for project unregistered", map[string]interface{}{"project_id": client.ProjectID})
				}
			}
			h.mu.Unlock()
		}
	}
}

func marshalEvent(event events.Event) []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"type":      event.EventType(),
		"data":      event.Payload(),
		"timestamp": event.Timestamp(),
	})
	return data
}

// deliver fans data out to clients and returns the ones whose Send buffer
// is full. Callers hand those to evict; only the unregister case in Run
// closes Send, so a slow client is never closed twice.
func (h *Hub) deliver(clients []*Client, data []byte) []*Client {
	var slow []*Client
	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

// evict must be called without holding h.mu; the unregister handler needs
// the write lock.
func (h *Hub) evict(slow []*Client) {
	for _, client := range slow {
		h.logger.Warn("Hub", "Client Send buffer full, evicting", map[string]interface{}{"project_id": client.ProjectID})
		h.unregister <- client
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event events.Event) {
	data := marshalEvent(event)

	var slow []*Client
	h.mu.RLock()
	for _, clients := range h.clients {
		slow = append(slow, h.deliver(clients, data)...)
	}
	h.mu.RUnlock()
	h.evict(slow)

	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_project_id": "*",
			"message":           data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

// Send delivers an event to the clients watching one project.
func (h *Hub) Send(projectID uuid.UUID, event events.Event) {
	data := marshalEvent(event)

	h.mu.RLock()
	clients, localFound := h.clients[projectID]
	h.mu.RUnlock()

	if localFound {
		h.evict(h.deliver(clients, data))
	}

	// Other instances may hold connections for the same project.
	if h.rdb != nil {
		payload := map[string]interface{}{
			"target_project_id": projectID.String(),
			"message":           data,
		}
		jsonPayload, _ := json.Marshal(payload)
		h.rdb.Publish(context.Background(), redisChannel, jsonPayload)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetProjectID string          `json:"target_project_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		if payload.TargetProjectID == "*" {
			var slow []*Client
			h.mu.RLock()
			for _, clients := range h.clients {
				slow = append(slow, h.deliver(clients, payload.Message)...)
			}
			h.mu.RUnlock()
			h.evict(slow)
			continue
		}

		pid, err := uuid.Parse(payload.TargetProjectID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[pid]
		h.mu.RUnlock()

		if ok {
			h.evict(h.deliver(clients, payload.Message))
		}
	}
}
