package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client events accepted from the browser. Everything else the server pushes.
const (
	evJoinConversation  = "join_conversation"
	evLeaveConversation = "leave_conversation"
	evJoinRoom          = "join_room"
	evLeaveRoom         = "leave_room"
	evTypingStart       = "typing:start"
	evTypingStop        = "typing:stop"
)

// clientFrame is a control message from the browser
type clientFrame struct {
	Event string `json:"event"`
	ID    string `json:"id"`
}

// typingPayload is broadcast to the scoped channel, never persisted
type typingPayload struct {
	UserID         string `json:"user_id"`
	ConversationID string `json:"conversation_id,omitempty"`
	RoomID         string `json:"room_id,omitempty"`
}

// Client represents a single WebSocket connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
	}
}

// ReadPump reads control frames from the WebSocket (handles pong/close)
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.ID == "" {
			continue
		}
		c.handleFrame(&frame)
	}
}

func (c *Client) handleFrame(frame *clientFrame) {
	switch frame.Event {
	case evJoinConversation:
		c.hub.subscribe <- &subscription{client: c, channel: ConversationChannel(frame.ID)}
	case evLeaveConversation:
		c.hub.unsubscribe <- &subscription{client: c, channel: ConversationChannel(frame.ID)}
	case evJoinRoom:
		c.hub.subscribe <- &subscription{client: c, channel: RoomChannel(frame.ID)}
	case evLeaveRoom:
		c.hub.unsubscribe <- &subscription{client: c, channel: RoomChannel(frame.ID)}
	case evTypingStart, evTypingStop:
		// Transient: forwarded to the scoped channel, not echoed back
		c.hub.emitExcept(ConversationChannel(frame.ID), frame.Event, &typingPayload{
			UserID:         c.userID,
			ConversationID: frame.ID,
		}, c)
	}
}

// WritePump sends queued events to the WebSocket
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
