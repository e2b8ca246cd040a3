package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message types
const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
)

// Conversation is a 1:1 direct-message channel. The user pair is normalized
// so User1ID < User2ID, which makes the unique index cover the unordered pair.
type Conversation struct {
	ID            string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	User1ID       string     `gorm:"column:user1_id;type:char(36);uniqueIndex:idx_conversation_pair" json:"user1_id"`
	User2ID       string     `gorm:"column:user2_id;type:char(36);uniqueIndex:idx_conversation_pair" json:"user2_id"`
	ChatTheme        string     `gorm:"column:chat_theme;type:varchar(20);default:'default'" json:"chat_theme"`
	LastMessageAt    *time.Time `gorm:"column:last_message_at" json:"last_message_at,omitempty"`
	LastActivityType string     `gorm:"column:last_activity_type;type:varchar(20)" json:"last_activity_type"`
	LastActivityText string     `gorm:"column:last_activity_text;type:varchar(120)" json:"last_activity_text"`
	LastActivityBy   string     `gorm:"column:last_activity_by;type:char(36)" json:"last_activity_by"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User1 *User `gorm:"foreignKey:User1ID" json:"-"`
	User2 *User `gorm:"foreignKey:User2ID" json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// BeforeCreate assigns a UUID primary key
func (c *Conversation) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// OtherUserID returns the participant that is not me
func (c *Conversation) OtherUserID(me string) string {
	if c.User1ID == me {
		return c.User2ID
	}
	return c.User1ID
}

// HasParticipant reports whether the user belongs to this conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// NormalizePair orders two user ids so the smaller one comes first
func NormalizePair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}

// ConversationState is one user's private view state over a conversation.
// State rows never interact across users.
type ConversationState struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         string     `gorm:"column:user_id;type:char(36);uniqueIndex:idx_conv_state" json:"user_id"`
	ConversationID string     `gorm:"column:conversation_id;type:char(36);uniqueIndex:idx_conv_state" json:"conversation_id"`
	IsArchived     bool       `gorm:"column:is_archived;default:false" json:"is_archived"`
	ClearedAt      *time.Time `gorm:"column:cleared_at" json:"cleared_at,omitempty"`
	DeletedAt      *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ConversationState) TableName() string { return "conversation_states" }

// DirectMessage is immutable except for its reaction list
type DirectMessage struct {
	ID             string       `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ConversationID string       `gorm:"column:conversation_id;type:char(36);index" json:"conversation_id"`
	SenderID       string       `gorm:"column:sender_id;type:char(36);index" json:"sender_id"`
	Content        string       `gorm:"column:content;type:text" json:"content"`
	Type           string       `gorm:"column:type;type:varchar(10);default:'text'" json:"type"`
	Reactions      ReactionList `gorm:"column:reactions;type:json" json:"reactions"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Sender       *User         `gorm:"foreignKey:SenderID" json:"-"`
	Conversation *Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DirectMessage) TableName() string { return "direct_messages" }

// BeforeCreate assigns a UUID primary key
func (m *DirectMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// DirectMessageVisibility marks a message readable by a user.
// Deleting the row is the "delete for me" primitive.
type DirectMessageVisibility struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID         string `gorm:"column:user_id;type:char(36);uniqueIndex:idx_dm_visibility" json:"user_id"`
	MessageID      string `gorm:"column:message_id;type:char(36);uniqueIndex:idx_dm_visibility" json:"message_id"`
	ConversationID string `gorm:"column:conversation_id;type:char(36);index" json:"conversation_id"`

	Message *DirectMessage `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (DirectMessageVisibility) TableName() string { return "direct_message_visibilities" }

// MessageResponse is a chat message in API responses and socket events
type MessageResponse struct {
	ID           string       `json:"id"`
	SenderID     string       `json:"sender_id"`
	SenderName   string       `json:"sender_name"`
	SenderAvatar string       `json:"sender_avatar"`
	Content      string       `json:"content"`
	Type         string       `json:"type"`
	Reactions    ReactionList `json:"reactions"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ToResponse converts a DirectMessage with its preloaded sender
func (m *DirectMessage) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Type:      m.Type,
		Reactions: m.Reactions,
		CreatedAt: m.CreatedAt,
	}
	if resp.Reactions == nil {
		resp.Reactions = ReactionList{}
	}
	if m.Sender != nil {
		pub := m.Sender.ToPublic()
		resp.SenderName = pub.Username
		resp.SenderAvatar = pub.Avatar
	}
	return resp
}

// ConversationSummary is one entry in the inbox listing
type ConversationSummary struct {
	ID            string           `json:"id"`
	OtherUser     *PublicUser      `json:"other_user"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
	ChatTheme     string           `json:"chat_theme"`
	IsArchived    bool             `json:"is_archived"`
}

// SendMessageRequest is the message send payload
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	Type    string `json:"type"`
}

// ReactRequest is the reaction payload
type ReactRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// SetArchivedRequest is the archive toggle payload
type SetArchivedRequest struct {
	IsArchived bool `json:"is_archived"`
}

// SetThemeRequest is the theme change payload
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}
