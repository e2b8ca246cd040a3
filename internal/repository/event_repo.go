package repository

import (
	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
)

// EventRepository event data access interface
type EventRepository interface {
	List(category string, includePrivate bool, limit, offset int) ([]*domain.Event, int64, error)
	ListJoined(userID string) ([]*domain.Event, error)
	FindByID(id string) (*domain.Event, error)
	Create(event *domain.Event) error
	Update(event *domain.Event) error
	Delete(id string) error

	Participants(eventID string) ([]*domain.EventParticipant, error)
	CountParticipants(eventID string) (int64, error)
	IsParticipant(eventID, userID string) (bool, error)
	AddParticipant(eventID, userID string) error
	RemoveParticipant(eventID, userID string) error

	CountReactions(eventID string) (int64, error)
	ToggleReaction(eventID, userID string) (added bool, err error)

	Messages(eventID string, limit, offset int) ([]*domain.EventMessage, error)
	CreateMessage(msg *domain.EventMessage) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(category string, includePrivate bool, limit, offset int) ([]*domain.Event, int64, error) {
	query := r.db.Model(&domain.Event{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if !includePrivate {
		query = query.Where("is_private = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*domain.Event
	err := query.Preload("Organizer").
		Order("is_featured DESC, date ASC, time ASC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, total, err
}

func (r *eventRepository) ListJoined(userID string) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.Preload("Organizer").
		Joins("JOIN event_participants p ON p.event_id = events.id AND p.user_id = ?", userID).
		Order("events.date ASC, events.time ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) FindByID(id string) (*domain.Event, error) {
	var event domain.Event
	if err := r.db.Preload("Organizer").Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(event *domain.Event) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		// Organizer participates in their own event
		return tx.Create(&domain.EventParticipant{
			EventID: event.ID,
			UserID:  event.OrganizerID,
		}).Error
	})
}

func (r *eventRepository) Update(event *domain.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Event{}).Error
	})
}

func (r *eventRepository) Participants(eventID string) ([]*domain.EventParticipant, error) {
	var participants []*domain.EventParticipant
	err := r.db.Preload("User").
		Where("event_id = ?", eventID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *eventRepository) CountParticipants(eventID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.EventParticipant{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *eventRepository) IsParticipant(eventID, userID string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *eventRepository) AddParticipant(eventID, userID string) error {
	return r.db.Create(&domain.EventParticipant{EventID: eventID, UserID: userID}).Error
}

func (r *eventRepository) RemoveParticipant(eventID, userID string) error {
	result := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&domain.EventParticipant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) CountReactions(eventID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.EventReaction{}).Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *eventRepository) ToggleReaction(eventID, userID string) (bool, error) {
	var added bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&domain.EventReaction{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			added = false
			return nil
		}
		added = true
		return tx.Create(&domain.EventReaction{EventID: eventID, UserID: userID}).Error
	})
	return added, err
}

func (r *eventRepository) Messages(eventID string, limit, offset int) ([]*domain.EventMessage, error) {
	var messages []*domain.EventMessage
	err := r.db.Preload("Sender").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *eventRepository) CreateMessage(msg *domain.EventMessage) error {
	return r.db.Create(msg).Error
}
