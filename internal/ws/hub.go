package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPubSubChannel = "echoroom:events"

// Channel name prefixes. Every connection is implicitly subscribed to its
// user channel; conversation and room channels are joined on client request.
const (
	userChannelPrefix         = "user:"
	conversationChannelPrefix = "conversation:"
	roomChannelPrefix         = "room:"
)

// UserChannel returns the personal notification channel for a user
func UserChannel(userID string) string { return userChannelPrefix + userID }

// ConversationChannel returns the scoped channel for a conversation
func ConversationChannel(id string) string { return conversationChannelPrefix + id }

// RoomChannel returns the scoped channel for a chat room
func RoomChannel(id string) string { return roomChannelPrefix + id }

// Event is a named real-time event pushed to subscribers
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type targetedEvent struct {
	Channel string
	Event   *Event
	// exclude suppresses delivery to one connection (typing indicators
	// are never echoed to the sender)
	exclude *Client
}

type subscription struct {
	client  *Client
	channel string
}

// Hub routes events to WebSocket clients by named channel. It is not a source
// of truth: services call it after their database write commits, and delivery
// is best-effort.
type Hub struct {
	// channel name -> connections subscribed to it
	channels map[string]map[*Client]bool
	// reverse index for cleanup on disconnect
	memberships map[*Client]map[string]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *subscription
	unsubscribe chan *subscription
	broadcast   chan *targetedEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	log         *zerolog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub. redisClient may be nil for single-instance mode.
func NewHub(redisClient *redis.Client, log *zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		channels:    make(map[string]map[*Client]bool),
		memberships: make(map[*Client]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *subscription, 64),
		unsubscribe: make(chan *subscription, 64),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.memberships[client] = make(map[string]bool)
			h.addSubscription(client, UserChannel(client.userID))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if channels, ok := h.memberships[client]; ok {
				for channel := range channels {
					h.dropSubscription(client, channel)
				}
				delete(h.memberships, client)
				close(client.send)
			}
			h.mu.Unlock()

		case sub := <-h.subscribe:
			h.mu.Lock()
			if _, ok := h.memberships[sub.client]; ok {
				h.addSubscription(sub.client, sub.channel)
			}
			h.mu.Unlock()

		case sub := <-h.unsubscribe:
			h.mu.Lock()
			h.dropSubscription(sub.client, sub.channel)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.ctx.Done():
			return
		}
	}
}

// addSubscription and dropSubscription require h.mu held
func (h *Hub) addSubscription(client *Client, channel string) {
	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true
	if h.memberships[client] != nil {
		h.memberships[client][channel] = true
	}
}

func (h *Hub) dropSubscription(client *Client, channel string) {
	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}
	if channels, ok := h.memberships[client]; ok {
		delete(channels, channel)
	}
}

func (h *Hub) deliver(msg *targetedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.channels[msg.Channel]
	if !ok {
		return
	}
	data, err := json.Marshal(msg.Event)
	if err != nil {
		h.log.Error().Err(err).Str("event", msg.Event.Event).Msg("marshal ws event")
		return
	}
	for client := range clients {
		if client == msg.exclude {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the connection rather than block the hub
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

// Emit sends an event to everyone subscribed to a channel (local + Redis)
func (h *Hub) Emit(channel, event string, payload interface{}) {
	ev := &Event{Event: event, Payload: payload}
	h.broadcast <- &targetedEvent{Channel: channel, Event: ev}

	if h.redisClient != nil {
		msg := &redisMessage{Channel: channel, Event: ev}
		data, err := json.Marshal(msg)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// EmitToUser sends an event to every connection of one user
func (h *Hub) EmitToUser(userID, event string, payload interface{}) {
	h.Emit(UserChannel(userID), event, payload)
}

// emitExcept is the local-only variant used for typing indicators
func (h *Hub) emitExcept(channel, event string, payload interface{}, exclude *Client) {
	h.broadcast <- &targetedEvent{
		Channel: channel,
		Event:   &Event{Event: event, Payload: payload},
		exclude: exclude,
	}
}

type redisMessage struct {
	Channel string `json:"channel"`
	Event   *Event `json:"event"`
}

// subscribeRedis relays events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err == nil {
				// Local broadcast only (don't re-publish to Redis)
				h.broadcast <- &targetedEvent{Channel: rm.Channel, Event: rm.Event}
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
