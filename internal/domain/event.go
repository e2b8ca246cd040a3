package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event types
const (
	EventTypeInPerson = "in-person"
	EventTypeVirtual  = "virtual"
)

// Event is a hosted meetup
type Event struct {
	ID              string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	OrganizerID     string    `gorm:"column:organizer_id;type:char(36);index" json:"organizer_id"`
	Title           string    `gorm:"column:title;type:varchar(150)" json:"title"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	LongDescription string    `gorm:"column:long_description;type:text" json:"long_description"`
	Category        string    `gorm:"column:category;type:varchar(50);index" json:"category"`
	Type            string    `gorm:"column:type;type:varchar(20);default:'in-person'" json:"type"`
	Location        string    `gorm:"column:location;type:varchar(200)" json:"location"`
	Address         string    `gorm:"column:address;type:varchar(300)" json:"address"`
	Date            string    `gorm:"column:date;type:varchar(10)" json:"date"` // YYYY-MM-DD
	Time            string    `gorm:"column:time;type:varchar(5)" json:"time"`  // HH:MM
	Duration        int       `gorm:"column:duration;default:60" json:"duration"`
	MaxParticipants int       `gorm:"column:max_participants;default:20" json:"max_participants"`
	Price           float64   `gorm:"column:price;default:0" json:"price"`
	Currency        string    `gorm:"column:currency;type:varchar(3);default:'USD'" json:"currency"`
	Tags            string    `gorm:"column:tags;type:varchar(500)" json:"tags"` // comma-separated
	IsPrivate       bool      `gorm:"column:is_private;default:false" json:"is_private"`
	IsFeatured      bool      `gorm:"column:is_featured;default:false" json:"is_featured"`
	Image           string    `gorm:"column:image;type:varchar(500)" json:"image"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Organizer *User `gorm:"foreignKey:OrganizerID" json:"-"`
}

func (Event) TableName() string { return "events" }

// BeforeCreate assigns a UUID primary key
func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// EventParticipant is a (event, user) join row
type EventParticipant struct {
	ID       uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID  string    `gorm:"column:event_id;type:char(36);uniqueIndex:idx_event_participant" json:"event_id"`
	UserID   string    `gorm:"column:user_id;type:char(36);uniqueIndex:idx_event_participant" json:"user_id"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID" json:"-"`
}

func (EventParticipant) TableName() string { return "event_participants" }

// EventReaction is a per-user interest mark on an event (toggle)
type EventReaction struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   string    `gorm:"column:event_id;type:char(36);uniqueIndex:idx_event_reaction" json:"event_id"`
	UserID    string    `gorm:"column:user_id;type:char(36);uniqueIndex:idx_event_reaction" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Event *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (EventReaction) TableName() string { return "event_reactions" }

// EventMessage is a plain event discussion message (no per-user visibility)
type EventMessage struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	EventID   string    `gorm:"column:event_id;type:char(36);index" json:"event_id"`
	SenderID  string    `gorm:"column:sender_id;type:char(36);index" json:"sender_id"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Sender *User  `gorm:"foreignKey:SenderID" json:"-"`
	Event  *Event `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`
}

func (EventMessage) TableName() string { return "event_messages" }

// BeforeCreate assigns a UUID primary key
func (m *EventMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// ToResponse converts an EventMessage with its preloaded sender
func (m *EventMessage) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:        m.ID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Type:      MessageTypeText,
		Reactions: ReactionList{},
		CreatedAt: m.CreatedAt,
	}
	if m.Sender != nil {
		pub := m.Sender.ToPublic()
		resp.SenderName = pub.Username
		resp.SenderAvatar = pub.Avatar
	}
	return resp
}

// EventSummary is one entry in the event listing
type EventSummary struct {
	ID                  string      `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Category            string      `json:"category"`
	Type                string      `json:"type"`
	Location            string      `json:"location"`
	Date                string      `json:"date"`
	Time                string      `json:"time"`
	Duration            int         `json:"duration"`
	MaxParticipants     int         `json:"max_participants"`
	CurrentParticipants int64       `json:"current_participants"`
	Price               float64     `json:"price"`
	Currency            string      `json:"currency"`
	Organizer           *PublicUser `json:"organizer"`
	Tags                []string    `json:"tags"`
	IsPrivate           bool        `json:"is_private"`
	IsFeatured          bool        `json:"is_featured"`
	Image               string      `json:"image"`
	IsJoined            bool        `json:"is_joined"`
	Reactions           int64       `json:"reactions"`
	CreatedAt           time.Time   `json:"created_at"`
}

// CreateEventRequest is the event creation payload
type CreateEventRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	LongDescription string   `json:"long_description"`
	Category        string   `json:"category" binding:"required"`
	Type            string   `json:"type"`
	Location        string   `json:"location"`
	Address         string   `json:"address"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Duration        *int     `json:"duration"`
	MaxParticipants *int     `json:"max_participants"`
	Price           *float64 `json:"price"`
	Currency        string   `json:"currency"`
	Tags            []string `json:"tags"`
	IsPrivate       bool     `json:"is_private"`
	Image           string   `json:"image"`
}

// UpdateEventRequest is the event edit payload (organizer only)
type UpdateEventRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	LongDescription *string  `json:"long_description"`
	Category        *string  `json:"category"`
	Type            *string  `json:"type"`
	Location        *string  `json:"location"`
	Address         *string  `json:"address"`
	Date            *string  `json:"date"`
	Time            *string  `json:"time"`
	Duration        *int     `json:"duration"`
	MaxParticipants *int     `json:"max_participants"`
	Price           *float64 `json:"price"`
	Tags            []string `json:"tags"`
	IsPrivate       *bool    `json:"is_private"`
	Image           *string  `json:"image"`
}
