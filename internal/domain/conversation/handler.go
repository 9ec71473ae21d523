package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/nickfinder/nickfinder-api/internal/domain/character"
	"github.com/nickfinder/nickfinder-api/internal/middleware"
	"github.com/nickfinder/nickfinder-api/internal/pkg/response"
	"github.com/nickfinder/nickfinder-api/internal/pkg/validator"
)

// WebSocket constants
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64KB
)

// Handler handles conversation HTTP requests
type Handler struct {
	service     *Service
	hub         *Hub
	rateLimiter *RateLimiter
	upgrader    websocket.Upgrader
}

// RateLimiter throttles message sends per user.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  30,          // 30 messages
		window: time.Minute, // per minute
	}
}

// Allow checks if user can send another message
func (rl *RateLimiter) Allow(userID uuid.UUID) bool {
	if rl.redis == nil {
		return true // No Redis, allow all
	}

	key := fmt.Sprintf("ratelimit:message:%s", userID)
	ctx := context.Background()

	count, err := rl.redis.Incr(ctx, key).Result()
	if err != nil {
		return true // Fail open
	}

	if count == 1 {
		rl.redis.Expire(ctx, key, rl.window)
	}

	return count <= int64(rl.limit)
}

// NewHandler creates conversation handler
func NewHandler(service *Service, hub *Hub, redisClient *redis.Client, allowedOrigins []string) *Handler {
	return &Handler{
		service:     service,
		hub:         hub,
		rateLimiter: NewRateLimiter(redisClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// ListThreads handles GET /conversations/threads
// @Summary List conversation threads with unread counts
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]ThreadResponse}
// @Router /conversations/threads [get]
func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	views, err := h.service.ListThreads(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list threads")
		response.InternalError(w)
		return
	}

	out := make([]ThreadResponse, 0, len(views))
	for _, v := range views {
		out = append(out, NewThreadResponse(v))
	}
	response.OK(w, out)
}

// ListMessages handles GET /conversations/messages?thread_id=
// @Summary List messages of a thread
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param thread_id query string true "Thread ID"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Response{data=[]MessageResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /conversations/messages [get]
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	threadID, err := uuid.Parse(r.URL.Query().Get("thread_id"))
	if err != nil {
		response.BadRequest(w, "Invalid thread_id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	messages, err := h.service.GetMessages(r.Context(), userID, threadID, limit, offset)
	if err != nil {
		h.writeError(w, err, "failed to list messages")
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewMessageResponse(m))
	}
	response.OK(w, out)
}

// Send handles POST /conversations/messages
// @Summary Send a message
// @Tags Conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message data"
// @Success 201 {object} response.Response{data=MessageResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /conversations/messages [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if !h.rateLimiter.Allow(userID) {
		response.TooManyRequests(w, "Too many messages, slow down", nil)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	msg, err := h.service.Send(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err, "failed to send message")
		return
	}

	response.Created(w, NewMessageResponse(msg))
}

// MarkRead handles POST /conversations/threads/{id}/read
// @Summary Mark a thread as read
// @Tags Conversations
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /conversations/threads/{id}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	threadID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid thread ID")
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, threadID); err != nil {
		h.writeError(w, err, "failed to mark thread as read")
		return
	}

	response.OK(w, map[string]string{"status": "ok"})
}

// UnreadCount handles GET /conversations/unread
// @Summary Total unread message count
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /conversations/unread [get]
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	count, _ := h.service.UnreadCount(r.Context(), userID)
	response.OK(w, map[string]int{"unread_count": count})
}

// WebSocket handles WS /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	// Subscribe to the user's threads
	views, _ := h.service.ListThreads(r.Context(), userID)
	for _, v := range views {
		h.hub.SubscribeToThread(v.ID, userID)
	}

	go h.wsReader(client)
	go h.wsWriter(client)
}

func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID.String()).Msg("WebSocket read error")
			}
			break
		}

		var event struct {
			Type     string    `json:"type"`
			ThreadID uuid.UUID `json:"thread_id"`
		}
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}

		switch event.Type {
		case "read":
			_ = h.service.MarkRead(context.Background(), client.UserID, event.ThreadID)
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Heartbeat
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case ErrThreadNotFound:
		response.NotFound(w, "Thread not found")
	case character.ErrCharacterNotFound:
		response.NotFound(w, "Character not found")
	case character.ErrNotOwner:
		response.Forbidden(w, "Character belongs to another user")
	case ErrNotParticipant:
		response.Forbidden(w, "You are not part of this conversation")
	case ErrSelfMessage:
		response.Forbidden(w, "Cannot message your own character")
	case ErrBlocked:
		response.Forbidden(w, "Interaction is blocked")
	case ErrMessagingLocked:
		response.Forbidden(w, "Messaging unlocks after an exchanged poke")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}
