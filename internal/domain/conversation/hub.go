package conversation

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventNewMessage EventType = "new_message"
	EventRead       EventType = "read"
	EventOnline     EventType = "online"
	EventOffline    EventType = "offline"
)

// Redis key prefixes
const (
	threadChannelPrefix = "conversation:thread:"
	presenceKey         = "conversation:presence:online"
	presenceChannel     = "conversation:presence"
	userEventsChannel   = "ws:user_events"
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

type userEventMessage struct {
	EventType        string          `json:"event_type"`
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// WSEvent represents a WebSocket event
type WSEvent struct {
	Type      EventType   `json:"type"`
	ThreadID  uuid.UUID   `json:"thread_id,omitempty"`
	SenderID  uuid.UUID   `json:"sender_id,omitempty"`
	MessageID uuid.UUID   `json:"message_id,omitempty"`
	Message   *Message    `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub manages WebSocket connections with Redis Pub/Sub so events reach
// participants connected to other server instances.
type Hub struct {
	// Local connections (this server instance only)
	connections map[uuid.UUID]map[*Connection]bool

	// Local thread subscriptions: threadID -> set of userIDs on this server
	localThreads map[uuid.UUID]map[uuid.UUID]bool

	redis  *redis.Client
	pubsub *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID         string
	publishUserEventFn func(ctx context.Context, channel string, payload []byte) error
}

// NewHub creates a new WebSocket hub with Redis Pub/Sub
func NewHub(redisClient *redis.Client) *Hub {
	return NewHubWithInstanceID(redisClient, uuid.NewString())
}

// NewHubWithInstanceID creates a new WebSocket hub with explicit instance identifier.
func NewHubWithInstanceID(redisClient *redis.Client, instanceID string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections:  make(map[uuid.UUID]map[*Connection]bool),
		localThreads: make(map[uuid.UUID]map[uuid.UUID]bool),
		redis:        redisClient,
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		ctx:          ctx,
		cancel:       cancel,
		instanceID:   instanceID,
	}

	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, threadChannelPrefix+"*", presenceChannel, userEventsChannel)
		h.publishUserEventFn = func(ctx context.Context, channel string, payload []byte) error {
			return redisClient.Publish(ctx, channel, payload).Err()
		}
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)

			h.publishPresence(conn.UserID, true)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to WebSocket")

		case conn := <-h.unregister:
			shouldPublishOffline := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					shouldPublishOffline = true
				}

				for threadID, users := range h.localThreads {
					delete(users, conn.UserID)
					if len(users) == 0 {
						delete(h.localThreads, threadID)
					}
				}
			}
			h.mu.Unlock()

			if shouldPublishOffline {
				h.publishPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from WebSocket")
		}
	}
}

// runRedisSubscriber listens for messages from Redis Pub/Sub
func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}

			switch {
			case strings.HasPrefix(msg.Channel, threadChannelPrefix):
				threadID, err := uuid.Parse(msg.Channel[len(threadChannelPrefix):])
				if err != nil {
					continue
				}

				var event WSEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}

				// Broadcast to local clients only
				h.broadcastLocal(threadID, &event)

			case msg.Channel == presenceChannel:
				log.Debug().Str("presence", msg.Payload).Msg("Presence update received")

			case msg.Channel == userEventsChannel:
				h.handleUserEventPayload(msg.Payload)
			}
		}
	}
}

func (h *Hub) handleUserEventPayload(payload string) {
	var event userEventMessage
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return
	}
	if event.SenderInstanceID == h.instanceID {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}
	h.sendLocalToUser(userID, []byte(event.Payload))
}

// broadcastLocal sends event to clients connected to THIS server
func (h *Hub) broadcastLocal(threadID uuid.UUID, event *WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users, ok := h.localThreads[threadID]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	for userID := range users {
		for conn := range h.connections[userID] {
			select {
			case conn.Send <- data:
				wsEventsSentTotal.Add(1)
			default:
				// Buffer full, skip this message
				wsEventsDroppedTotal.Add(1)
				log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
			}
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// SubscribeToThread adds user to thread fan-out on this server.
func (h *Hub) SubscribeToThread(threadID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localThreads[threadID] == nil {
		h.localThreads[threadID] = make(map[uuid.UUID]bool)
	}
	h.localThreads[threadID][userID] = true
}

// UnsubscribeFromThread removes user from thread fan-out.
func (h *Hub) UnsubscribeFromThread(threadID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.localThreads[threadID] != nil {
		delete(h.localThreads[threadID], userID)
		if len(h.localThreads[threadID]) == 0 {
			delete(h.localThreads, threadID)
		}
	}
}

// BroadcastToThread sends event to all thread participants across ALL
// server instances via Redis.
func (h *Hub) BroadcastToThread(threadID uuid.UUID, event *WSEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal WebSocket event")
		return
	}

	if h.redis != nil {
		channel := threadChannelPrefix + threadID.String()
		if err := h.redis.Publish(h.ctx, channel, data).Err(); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("Redis publish failed")
			// Fallback to local broadcast
			h.broadcastLocal(threadID, event)
		}
		return
	}

	// No Redis, broadcast locally only
	h.broadcastLocal(threadID, event)
}

// SendToUserJSON sends JSON payload to all active connections for user,
// on any instance.
func (h *Hub) SendToUserJSON(userID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.sendLocalToUser(userID, data)
	return h.publishUserEvent(userID, data)
}

func (h *Hub) sendLocalToUser(userID uuid.UUID, data []byte) {
	// Lock held across the fan-out: unregister deletes from this map and
	// closes Send under the write lock.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			wsEventsDroppedTotal.Add(1)
		}
	}
}

func (h *Hub) publishUserEvent(userID uuid.UUID, data []byte) error {
	if h.publishUserEventFn == nil {
		return nil
	}

	event := userEventMessage{
		EventType:        "notification:new",
		UserID:           userID.String(),
		Payload:          data,
		SenderInstanceID: h.instanceID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return h.publishUserEventFn(h.ctx, userEventsChannel, payload)
}

// publishPresence publishes user online/offline status to Redis
func (h *Hub) publishPresence(userID uuid.UUID, online bool) {
	if h.redis == nil {
		return
	}

	ctx := context.Background()

	if online {
		h.redis.SAdd(ctx, presenceKey, userID.String())
		// Expiry for auto-cleanup of stale entries
		h.redis.Expire(ctx, presenceKey, 5*time.Minute)
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:online", userID))
	} else {
		h.redis.SRem(ctx, presenceKey, userID.String())
		h.redis.Publish(ctx, presenceChannel, fmt.Sprintf("%s:offline", userID))
	}
}

// IsOnline checks if user is online (across all servers)
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	if h.redis == nil {
		h.mu.RLock()
		conns, ok := h.connections[userID]
		h.mu.RUnlock()
		return ok && len(conns) > 0
	}

	return h.redis.SIsMember(context.Background(), presenceKey, userID.String()).Val()
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// IsUserSubscribedToThread reports whether user is subscribed locally to thread.
func (h *Hub) IsUserSubscribedToThread(threadID, userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := h.localThreads[threadID]
	if users == nil {
		return false
	}
	return users[userID]
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
