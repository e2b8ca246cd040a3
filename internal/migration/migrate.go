package migration

import (
	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates or updates every table
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.ConversationState{},
		&domain.DirectMessage{},
		&domain.DirectMessageVisibility{},
		&domain.ChatRoom{},
		&domain.RoomMember{},
		&domain.RoomMemberState{},
		&domain.RoomMessage{},
		&domain.RoomMessageVisibility{},
		&domain.ForumPost{},
		&domain.ForumComment{},
		&domain.ForumReaction{},
		&domain.Event{},
		&domain.EventParticipant{},
		&domain.EventReaction{},
		&domain.EventMessage{},
	)
}
