package repository

import (
	"time"

	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JoinedRoom is a room together with the caller's membership and view state
type JoinedRoom struct {
	Room       *domain.ChatRoom
	IsCreator  bool
	IsArchived bool
	ClearedAt  *time.Time
	JoinedAt   time.Time
}

// ChatRoomRepository data access for chat rooms, membership and room messages.
// Join/leave bundle membership, state and member-count changes in one
// transaction so the count can never drift from the membership set.
type ChatRoomRepository interface {
	List(category string, limit, offset int) ([]*domain.ChatRoom, int64, error)
	ListJoined(userID string, archived bool) ([]*JoinedRoom, error)
	CountMessages(roomID string) (int64, error)
	FindByID(id string) (*domain.ChatRoom, error)
	Create(room *domain.ChatRoom) error
	Update(room *domain.ChatRoom) error
	SetTheme(roomID, theme string) error
	Delete(roomID string) error

	Members(roomID string) ([]*domain.RoomMember, error)
	FindMember(roomID, userID string) (*domain.RoomMember, error)
	Join(roomID, userID string) (isCreator bool, err error)
	RemoveMember(roomID, userID, promoteUserID string) error

	FindState(userID, roomID string) (*domain.RoomMemberState, error)
	SetArchived(userID, roomID string, archived bool) error
	ClearForUser(userID, roomID string) error

	VisibleMessages(roomID, userID string, clearedAt *time.Time, limit, offset int) ([]*domain.RoomMessage, error)
	FindMessage(id string) (*domain.RoomMessage, error)
	CreateMessage(msg *domain.RoomMessage, recipientIDs []string, activity *ActivityUpdate, unarchiveAll bool) error
	UpdateReactions(messageID string, reactions domain.ReactionList, activity *ActivityUpdate) error
	DeleteMessageForUser(userID, messageID string) error
}

type chatRoomRepository struct {
	db *gorm.DB
}

// NewChatRoomRepository creates a new ChatRoomRepository
func NewChatRoomRepository(db *gorm.DB) ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

func (r *chatRoomRepository) List(category string, limit, offset int) ([]*domain.ChatRoom, int64, error) {
	query := r.db.Model(&domain.ChatRoom{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []*domain.ChatRoom
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rooms).Error
	return rooms, total, err
}

func (r *chatRoomRepository) ListJoined(userID string, archived bool) ([]*JoinedRoom, error) {
	var members []*domain.RoomMember
	err := r.db.Preload("Room").
		Where("user_id = ?", userID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	var states []*domain.RoomMemberState
	if err := r.db.Where("user_id = ?", userID).Find(&states).Error; err != nil {
		return nil, err
	}
	stateByRoom := make(map[string]*domain.RoomMemberState, len(states))
	for _, s := range states {
		stateByRoom[s.RoomID] = s
	}

	out := make([]*JoinedRoom, 0, len(members))
	for _, m := range members {
		if m.Room == nil {
			continue
		}
		jr := &JoinedRoom{
			Room:      m.Room,
			IsCreator: m.IsCreator,
			JoinedAt:  m.JoinedAt,
		}
		if s, ok := stateByRoom[m.RoomID]; ok {
			jr.IsArchived = s.IsArchived
			jr.ClearedAt = s.ClearedAt
		}
		if jr.IsArchived != archived {
			continue
		}
		out = append(out, jr)
	}
	return out, nil
}

func (r *chatRoomRepository) CountMessages(roomID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.RoomMessage{}).Where("room_id = ?", roomID).Count(&n).Error
	return n, err
}

func (r *chatRoomRepository) FindByID(id string) (*domain.ChatRoom, error) {
	var room domain.ChatRoom
	if err := r.db.Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) Create(room *domain.ChatRoom) error {
	return r.db.Create(room).Error
}

func (r *chatRoomRepository) Update(room *domain.ChatRoom) error {
	return r.db.Save(room).Error
}

func (r *chatRoomRepository) SetTheme(roomID, theme string) error {
	return r.db.Model(&domain.ChatRoom{}).
		Where("id = ?", roomID).
		Update("chat_theme", theme).Error
}

// Delete removes the room and every dependent row
func (r *chatRoomRepository) Delete(roomID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMessageVisibility{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMemberState{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.RoomMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", roomID).Delete(&domain.ChatRoom{}).Error
	})
}

func (r *chatRoomRepository) Members(roomID string) ([]*domain.RoomMember, error) {
	var members []*domain.RoomMember
	err := r.db.Preload("User").
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *chatRoomRepository) FindMember(roomID, userID string) (*domain.RoomMember, error) {
	var member domain.RoomMember
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Join adds the member, resets their state row and bumps the member count.
// The first member of an empty room becomes the creator.
func (r *chatRoomRepository) Join(roomID, userID string) (bool, error) {
	var isCreator bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&domain.RoomMember{}).Where("room_id = ?", roomID).Count(&existing).Error; err != nil {
			return err
		}
		isCreator = existing == 0

		member := &domain.RoomMember{
			RoomID:    roomID,
			UserID:    userID,
			IsCreator: isCreator,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		now := time.Now()
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"cleared_at":  now,
				"is_archived": false,
			}),
		}).Create(&domain.RoomMemberState{
			UserID:    userID,
			RoomID:    roomID,
			ClearedAt: &now,
		}).Error
		if err != nil {
			return err
		}

		return tx.Model(&domain.ChatRoom{}).
			Where("id = ?", roomID).
			UpdateColumn("member_count", gorm.Expr("member_count + 1")).Error
	})
	return isCreator, err
}

// RemoveMember drops the membership, state and visibility rows of one user
// and decrements the count. If promoteUserID is set, that remaining member
// takes over as creator in the same transaction.
func (r *chatRoomRepository) RemoveMember(roomID, userID, promoteUserID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&domain.RoomMember{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&domain.RoomMemberState{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			Delete(&domain.RoomMessageVisibility{}).Error; err != nil {
			return err
		}

		if promoteUserID != "" {
			err := tx.Model(&domain.RoomMember{}).
				Where("room_id = ? AND user_id = ?", roomID, promoteUserID).
				Update("is_creator", true).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&domain.ChatRoom{}).
			Where("id = ?", roomID).
			UpdateColumn("member_count", gorm.Expr("member_count - 1")).Error
	})
}

func (r *chatRoomRepository) FindState(userID, roomID string) (*domain.RoomMemberState, error) {
	var state domain.RoomMemberState
	err := r.db.Where("user_id = ? AND room_id = ?", userID, roomID).
		First(&state).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *chatRoomRepository) SetArchived(userID, roomID string, archived bool) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_archived": archived}),
	}).Create(&domain.RoomMemberState{
		UserID:     userID,
		RoomID:     roomID,
		IsArchived: archived,
	}).Error
}

// ClearForUser stamps the clear watermark. Room reads filter on it, so the
// visibility rows stay in place (unlike conversations).
func (r *chatRoomRepository) ClearForUser(userID, roomID string) error {
	now := time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "room_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"cleared_at": now}),
	}).Create(&domain.RoomMemberState{
		UserID:    userID,
		RoomID:    roomID,
		ClearedAt: &now,
	}).Error
}

// VisibleMessages returns messages after the clear watermark that carry a
// visibility row for the user, oldest first.
func (r *chatRoomRepository) VisibleMessages(roomID, userID string, clearedAt *time.Time, limit, offset int) ([]*domain.RoomMessage, error) {
	query := r.db.Preload("Sender").
		Joins("JOIN room_message_visibilities v ON v.message_id = room_messages.id AND v.user_id = ?", userID).
		Where("room_messages.room_id = ?", roomID)
	if clearedAt != nil {
		query = query.Where("room_messages.created_at > ?", *clearedAt)
	}

	var messages []*domain.RoomMessage
	err := query.Order("room_messages.created_at ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *chatRoomRepository) FindMessage(id string) (*domain.RoomMessage, error) {
	var msg domain.RoomMessage
	err := r.db.Preload("Sender").
		Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CreateMessage persists the message with one visibility row per current
// member, bumps the room's last-activity fields and, for user messages,
// un-archives the room for everyone.
func (r *chatRoomRepository) CreateMessage(msg *domain.RoomMessage, recipientIDs []string, activity *ActivityUpdate, unarchiveAll bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if len(recipientIDs) > 0 {
			rows := make([]domain.RoomMessageVisibility, 0, len(recipientIDs))
			for _, uid := range recipientIDs {
				rows = append(rows, domain.RoomMessageVisibility{
					UserID:    uid,
					MessageID: msg.ID,
					RoomID:    msg.RoomID,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		if activity != nil {
			err := tx.Model(&domain.ChatRoom{}).
				Where("id = ?", msg.RoomID).
				Updates(map[string]interface{}{
					"last_activity_type": activity.Type,
					"last_activity_text": activity.Text,
					"last_activity_by":   activity.By,
					"last_activity_at":   activity.At,
				}).Error
			if err != nil {
				return err
			}
		}

		if unarchiveAll {
			err := tx.Model(&domain.RoomMemberState{}).
				Where("room_id = ?", msg.RoomID).
				Update("is_archived", false).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *chatRoomRepository) UpdateReactions(messageID string, reactions domain.ReactionList, activity *ActivityUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var msg domain.RoomMessage
		if err := tx.Where("id = ?", messageID).First(&msg).Error; err != nil {
			return err
		}
		if err := tx.Model(&msg).Update("reactions", reactions).Error; err != nil {
			return err
		}
		if activity != nil {
			err := tx.Model(&domain.ChatRoom{}).
				Where("id = ?", msg.RoomID).
				Updates(map[string]interface{}{
					"last_activity_type": activity.Type,
					"last_activity_text": activity.Text,
					"last_activity_by":   activity.By,
					"last_activity_at":   activity.At,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMessageForUser removes only the caller's visibility row
func (r *chatRoomRepository) DeleteMessageForUser(userID, messageID string) error {
	result := r.db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&domain.RoomMessageVisibility{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
