package repository

import (
	"time"

	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationRepository data access for direct conversations.
// Multi-row effects (message + visibility rows + state revival) run in one
// transaction so a partial failure never leaves a message without visibility.
type ConversationRepository interface {
	FindByID(id string) (*domain.Conversation, error)
	FindByPair(user1ID, user2ID string) (*domain.Conversation, error)
	CreateWithStates(conv *domain.Conversation) error
	ListStates(userID string, archived bool) ([]*domain.ConversationState, error)
	FindState(userID, conversationID string) (*domain.ConversationState, error)
	EnsureState(userID, conversationID string) error
	SetArchived(userID, conversationID string, archived bool) error
	SetTheme(conversationID, theme string) error

	VisibleMessages(conversationID, userID string, limit, offset int) ([]*domain.DirectMessage, error)
	LastVisibleMessage(conversationID, userID string) (*domain.DirectMessage, error)
	FindMessage(id string) (*domain.DirectMessage, error)
	CreateMessage(msg *domain.DirectMessage, recipientIDs []string, reviveUserID string) error
	UpdateReactions(messageID string, reactions domain.ReactionList, activity *ActivityUpdate, reviveUserID string) error

	ClearForUser(userID, conversationID string) error
	DeleteForUser(userID, conversationID string) error
}

// ActivityUpdate is a denormalized last-activity bump on the parent channel
type ActivityUpdate struct {
	Type string
	Text string
	By   string
	At   time.Time
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindByID(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Preload("User1").Preload("User2").
		Where("id = ?", id).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByPair(user1ID, user2ID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Preload("User1").Preload("User2").
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateWithStates creates the conversation plus a state row per participant,
// so both inboxes can list it immediately.
func (r *conversationRepository) CreateWithStates(conv *domain.Conversation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		states := []domain.ConversationState{
			{UserID: conv.User1ID, ConversationID: conv.ID},
			{UserID: conv.User2ID, ConversationID: conv.ID},
		}
		return tx.Create(&states).Error
	})
}

func (r *conversationRepository) ListStates(userID string, archived bool) ([]*domain.ConversationState, error) {
	var states []*domain.ConversationState
	err := r.db.Preload("Conversation").Preload("Conversation.User1").Preload("Conversation.User2").
		Where("user_id = ? AND deleted_at IS NULL AND is_archived = ?", userID, archived).
		Find(&states).Error
	return states, err
}

func (r *conversationRepository) FindState(userID, conversationID string) (*domain.ConversationState, error) {
	var state domain.ConversationState
	err := r.db.Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// EnsureState lazily creates the caller's state row and clears a previous
// delete so an explicitly re-opened conversation shows up again.
func (r *conversationRepository) EnsureState(userID, conversationID string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": nil}),
	}).Create(&domain.ConversationState{
		UserID:         userID,
		ConversationID: conversationID,
	}).Error
}

func (r *conversationRepository) SetArchived(userID, conversationID string, archived bool) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_archived": archived}),
	}).Create(&domain.ConversationState{
		UserID:         userID,
		ConversationID: conversationID,
		IsArchived:     archived,
	}).Error
}

func (r *conversationRepository) SetTheme(conversationID, theme string) error {
	return r.db.Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("chat_theme", theme).Error
}

// VisibleMessages filters strictly by visibility-row presence, oldest first.
// No timestamp filter: delete-for-me and clear both remove the rows themselves.
func (r *conversationRepository) VisibleMessages(conversationID, userID string, limit, offset int) ([]*domain.DirectMessage, error) {
	var messages []*domain.DirectMessage
	err := r.db.Preload("Sender").
		Joins("JOIN direct_message_visibilities v ON v.message_id = direct_messages.id AND v.user_id = ?", userID).
		Where("direct_messages.conversation_id = ?", conversationID).
		Order("direct_messages.created_at ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *conversationRepository) LastVisibleMessage(conversationID, userID string) (*domain.DirectMessage, error) {
	var msg domain.DirectMessage
	err := r.db.Preload("Sender").
		Joins("JOIN direct_message_visibilities v ON v.message_id = direct_messages.id AND v.user_id = ?", userID).
		Where("direct_messages.conversation_id = ?", conversationID).
		Order("direct_messages.created_at DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *conversationRepository) FindMessage(id string) (*domain.DirectMessage, error) {
	var msg domain.DirectMessage
	err := r.db.Preload("Sender").Preload("Conversation").
		Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage persists the message, grants visibility to every recipient,
// bumps the conversation's last-activity fields and revives the other
// participant's state (deleted, cleared and archived flags all reset).
func (r *conversationRepository) CreateMessage(msg *domain.DirectMessage, recipientIDs []string, reviveUserID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		rows := make([]domain.DirectMessageVisibility, 0, len(recipientIDs))
		for _, uid := range recipientIDs {
			rows = append(rows, domain.DirectMessageVisibility{
				UserID:         uid,
				MessageID:      msg.ID,
				ConversationID: msg.ConversationID,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}

		now := msg.CreatedAt
		if now.IsZero() {
			now = time.Now()
		}
		err := tx.Model(&domain.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message_at":    now,
				"last_activity_type": domain.ActivityMessage,
				"last_activity_text": domain.Summarize(msg.Content, 80),
				"last_activity_by":   msg.SenderID,
			}).Error
		if err != nil {
			return err
		}

		if reviveUserID != "" {
			if err := reviveState(tx, reviveUserID, msg.ConversationID); err != nil {
				return err
			}
		}
		return nil
	})
}

// reviveState resets deleted/cleared/archived so new activity resurfaces the
// conversation for the recipient.
func reviveState(tx *gorm.DB, userID, conversationID string) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"deleted_at":  nil,
			"cleared_at":  nil,
			"is_archived": false,
		}),
	}).Create(&domain.ConversationState{
		UserID:         userID,
		ConversationID: conversationID,
	}).Error
}

// UpdateReactions replaces the reaction list and optionally bumps activity
// and revives the other participant.
func (r *conversationRepository) UpdateReactions(messageID string, reactions domain.ReactionList, activity *ActivityUpdate, reviveUserID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var msg domain.DirectMessage
		if err := tx.Where("id = ?", messageID).First(&msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&msg).Update("reactions", reactions).Error; err != nil {
			return err
		}
		if activity != nil {
			err := tx.Model(&domain.Conversation{}).
				Where("id = ?", msg.ConversationID).
				Updates(map[string]interface{}{
					"last_activity_type": activity.Type,
					"last_activity_text": activity.Text,
					"last_activity_by":   activity.By,
				}).Error
			if err != nil {
				return err
			}
		}
		if reviveUserID != "" {
			if err := reviveState(tx, reviveUserID, msg.ConversationID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearForUser hides all current messages for one user by removing their
// visibility rows; clearedAt is stamped for bookkeeping.
func (r *conversationRepository) ClearForUser(userID, conversationID string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"cleared_at": now}),
		}).Create(&domain.ConversationState{
			UserID:         userID,
			ConversationID: conversationID,
			ClearedAt:      &now,
		}).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND conversation_id = ?", userID, conversationID).
			Delete(&domain.DirectMessageVisibility{}).Error
	})
}

// DeleteForUser hides the conversation from the user's list and purges their
// visibility rows. The other participant is unaffected.
func (r *conversationRepository) DeleteForUser(userID, conversationID string) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"deleted_at": now,
				"cleared_at": now,
			}),
		}).Create(&domain.ConversationState{
			UserID:         userID,
			ConversationID: conversationID,
			DeletedAt:      &now,
			ClearedAt:      &now,
		}).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND conversation_id = ?", userID, conversationID).
			Delete(&domain.DirectMessageVisibility{}).Error
	})
}
