package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Last-activity types on a chat room
const (
	ActivityMessage  = "message"
	ActivityReaction = "reaction"
	ActivitySystem   = "system"
)

// ChatRoom is a multi-user room
type ChatRoom struct {
	ID               string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Title            string     `gorm:"column:title;type:varchar(100)" json:"title"`
	Category         string     `gorm:"column:category;type:varchar(50);index" json:"category"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	Icon             string     `gorm:"column:icon;type:varchar(16)" json:"icon"`
	Tags             string     `gorm:"column:tags;type:varchar(500)" json:"tags"` // comma-separated
	MemberCount      int        `gorm:"column:member_count;default:0" json:"member_count"`
	ChatTheme        string     `gorm:"column:chat_theme;type:varchar(20);default:'default'" json:"chat_theme"`
	LastActivityType string     `gorm:"column:last_activity_type;type:varchar(20)" json:"last_activity_type"`
	LastActivityText string     `gorm:"column:last_activity_text;type:varchar(120)" json:"last_activity_text"`
	LastActivityBy   string     `gorm:"column:last_activity_by;type:char(36)" json:"last_activity_by"`
	LastActivityAt   *time.Time `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ChatRoom) TableName() string { return "chat_rooms" }

// BeforeCreate assigns a UUID primary key
func (r *ChatRoom) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// RoomMember is a (room, user) membership row.
// Invariant: a non-empty room has exactly one member with IsCreator=true.
type RoomMember struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RoomID    string    `gorm:"column:room_id;type:char(36);uniqueIndex:idx_room_member" json:"room_id"`
	UserID    string    `gorm:"column:user_id;type:char(36);uniqueIndex:idx_room_member" json:"user_id"`
	IsCreator bool      `gorm:"column:is_creator;default:false" json:"is_creator"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`

	Room *ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	User *User     `gorm:"foreignKey:UserID" json:"-"`
}

func (RoomMember) TableName() string { return "room_members" }

// RoomMemberState mirrors ConversationState for rooms. Leaving a room removes
// the membership outright, so there is no DeletedAt here.
type RoomMemberState struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string     `gorm:"column:user_id;type:char(36);uniqueIndex:idx_room_state" json:"user_id"`
	RoomID     string     `gorm:"column:room_id;type:char(36);uniqueIndex:idx_room_state" json:"room_id"`
	IsArchived bool       `gorm:"column:is_archived;default:false" json:"is_archived"`
	ClearedAt  *time.Time `gorm:"column:cleared_at" json:"cleared_at,omitempty"`

	Room *ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RoomMemberState) TableName() string { return "room_member_states" }

// RoomMessage is a message in a chat room
type RoomMessage struct {
	ID        string       `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	RoomID    string       `gorm:"column:room_id;type:char(36);index" json:"room_id"`
	SenderID  string       `gorm:"column:sender_id;type:char(36);index" json:"sender_id"`
	Content   string       `gorm:"column:content;type:text" json:"content"`
	Type      string       `gorm:"column:type;type:varchar(10);default:'text'" json:"type"`
	Reactions ReactionList `gorm:"column:reactions;type:json" json:"reactions"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Sender *User     `gorm:"foreignKey:SenderID" json:"-"`
	Room   *ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RoomMessage) TableName() string { return "room_messages" }

// BeforeCreate assigns a UUID primary key
func (m *RoomMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// ToResponse converts a RoomMessage with its preloaded sender
func (m *RoomMessage) ToResponse() *MessageResponse {
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

// RoomMessageVisibility marks a room message readable by a user. Created for
// every current member at send time; a joiner gains no rows for older messages.
type RoomMessageVisibility struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"column:user_id;type:char(36);uniqueIndex:idx_room_visibility" json:"user_id"`
	MessageID string `gorm:"column:message_id;type:char(36);uniqueIndex:idx_room_visibility" json:"message_id"`
	RoomID    string `gorm:"column:room_id;type:char(36);index" json:"room_id"`

	Message *RoomMessage `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RoomMessageVisibility) TableName() string { return "room_message_visibilities" }

// RoomSummary is one entry in the public room listing
type RoomSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	Tags         []string  `json:"tags"`
	MemberCount  int       `json:"member_count"`
	MessageCount int64     `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// MyRoomSummary is one entry in the caller's room inbox
type MyRoomSummary struct {
	RoomSummary
	ChatTheme        string     `json:"chat_theme"`
	IsCreator        bool       `json:"is_creator"`
	IsArchived       bool       `json:"is_archived"`
	LastActivityType string     `json:"last_activity_type"`
	LastActivityText string     `json:"last_activity_text"`
	LastActivityAt   *time.Time `json:"last_activity_at,omitempty"`
}

// RoomDetail is the full room payload including members
type RoomDetail struct {
	RoomSummary
	ChatTheme   string        `json:"chat_theme"`
	MembersList []*RoomPerson `json:"members_list"`
}

// RoomPerson is a member entry in RoomDetail
type RoomPerson struct {
	PublicUser
	IsCreator bool      `json:"is_creator"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ToSummary converts a ChatRoom and its message count
func (r *ChatRoom) ToSummary(messageCount int64) RoomSummary {
	return RoomSummary{
		ID:           r.ID,
		Title:        r.Title,
		Category:     r.Category,
		Description:  r.Description,
		Icon:         r.Icon,
		Tags:         SplitCSV(r.Tags),
		MemberCount:  r.MemberCount,
		MessageCount: messageCount,
		CreatedAt:    r.CreatedAt,
	}
}

// CreateRoomRequest is the room creation payload
type CreateRoomRequest struct {
	Title       string   `json:"title" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Tags        []string `json:"tags"`
}

// UpdateRoomRequest is the room edit payload (creator only)
type UpdateRoomRequest struct {
	Title       *string  `json:"title"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Icon        *string  `json:"icon"`
	Tags        []string `json:"tags"`
}
