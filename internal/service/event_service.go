package service

import (
	"errors"
	"strings"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"gorm.io/gorm"
)

// ErrEventFull the event reached its participant cap
var ErrEventFull = errors.New("event is full")

// EventService meetup business logic
type EventService interface {
	List(callerID, category string, limit, offset int) ([]*domain.EventSummary, int64, error)
	ListJoined(callerID string) ([]*domain.EventSummary, error)
	Get(callerID, eventID string) (*domain.EventSummary, error)
	Create(userID string, req *domain.CreateEventRequest) (*domain.EventSummary, error)
	Update(userID, eventID string, req *domain.UpdateEventRequest) (*domain.EventSummary, error)
	Delete(userID, eventID string) error

	Join(userID, eventID string) error
	Leave(userID, eventID string) error
	Participants(eventID string) ([]*domain.PublicUser, error)
	RemoveParticipant(hostID, eventID, targetID string) error
	ToggleReaction(userID, eventID string) (added bool, count int64, err error)

	Messages(userID, eventID string, limit, offset int) ([]*domain.MessageResponse, error)
	SendMessage(userID, eventID, content string) (*domain.MessageResponse, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository) EventService {
	return &eventService{eventRepo: eventRepo, userRepo: userRepo}
}

func (s *eventService) List(callerID, category string, limit, offset int) ([]*domain.EventSummary, int64, error) {
	limit, offset = clampPage(limit, offset)
	events, total, err := s.eventRepo.List(category, false, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.EventSummary, 0, len(events))
	for _, event := range events {
		summary, err := s.summarize(callerID, event)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, summary)
	}
	return out, total, nil
}

func (s *eventService) ListJoined(callerID string) ([]*domain.EventSummary, error) {
	events, err := s.eventRepo.ListJoined(callerID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EventSummary, 0, len(events))
	for _, event := range events {
		summary, err := s.summarize(callerID, event)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *eventService) summarize(callerID string, event *domain.Event) (*domain.EventSummary, error) {
	participants, err := s.eventRepo.CountParticipants(event.ID)
	if err != nil {
		return nil, err
	}
	reactions, err := s.eventRepo.CountReactions(event.ID)
	if err != nil {
		return nil, err
	}
	joined := false
	if callerID != "" {
		if joined, err = s.eventRepo.IsParticipant(event.ID, callerID); err != nil {
			return nil, err
		}
	}

	summary := &domain.EventSummary{
		ID:                  event.ID,
		Title:               event.Title,
		Description:         event.Description,
		Category:            event.Category,
		Type:                event.Type,
		Location:            event.Location,
		Date:                event.Date,
		Time:                event.Time,
		Duration:            event.Duration,
		MaxParticipants:     event.MaxParticipants,
		CurrentParticipants: participants,
		Price:               event.Price,
		Currency:            event.Currency,
		Tags:                domain.SplitCSV(event.Tags),
		IsPrivate:           event.IsPrivate,
		IsFeatured:          event.IsFeatured,
		Image:               event.Image,
		IsJoined:            joined,
		Reactions:           reactions,
		CreatedAt:           event.CreatedAt,
	}
	if event.Organizer != nil {
		summary.Organizer = event.Organizer.ToPublic()
	}
	return summary, nil
}

func (s *eventService) find(eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Get(callerID, eventID string) (*domain.EventSummary, error) {
	event, err := s.find(eventID)
	if err != nil {
		return nil, err
	}
	return s.summarize(callerID, event)
}

func (s *eventService) Create(userID string, req *domain.CreateEventRequest) (*domain.EventSummary, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.ErrInvalidInput
	}
	eventType := req.Type
	if eventType == "" {
		eventType = domain.EventTypeInPerson
	}
	if eventType != domain.EventTypeInPerson && eventType != domain.EventTypeVirtual {
		return nil, common.ErrInvalidInput
	}

	event := &domain.Event{
		OrganizerID:     userID,
		Title:           title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Category:        req.Category,
		Type:            eventType,
		Location:        req.Location,
		Address:         req.Address,
		Date:            req.Date,
		Time:            req.Time,
		Currency:        req.Currency,
		Tags:            domain.JoinCSV(req.Tags),
		IsPrivate:       req.IsPrivate,
		Image:           req.Image,
	}
	if req.Duration != nil {
		event.Duration = *req.Duration
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Price != nil {
		event.Price = *req.Price
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, err
	}
	return s.Get(userID, event.ID)
}

func (s *eventService) Update(userID, eventID string, req *domain.UpdateEventRequest) (*domain.EventSummary, error) {
	event, err := s.find(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != userID {
		return nil, common.ErrForbidden
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrInvalidInput
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.LongDescription != nil {
		event.LongDescription = *req.LongDescription
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Type != nil {
		event.Type = *req.Type
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Address != nil {
		event.Address = *req.Address
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Duration != nil {
		event.Duration = *req.Duration
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = *req.MaxParticipants
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.Tags != nil {
		event.Tags = domain.JoinCSV(req.Tags)
	}
	if req.IsPrivate != nil {
		event.IsPrivate = *req.IsPrivate
	}
	if req.Image != nil {
		event.Image = *req.Image
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, err
	}
	return s.summarize(userID, event)
}

func (s *eventService) Delete(userID, eventID string) error {
	event, err := s.find(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != userID {
		return common.ErrForbidden
	}
	return s.eventRepo.Delete(eventID)
}

func (s *eventService) Join(userID, eventID string) error {
	event, err := s.find(eventID)
	if err != nil {
		return err
	}

	joined, err := s.eventRepo.IsParticipant(eventID, userID)
	if err != nil {
		return err
	}
	if joined {
		return common.ErrAlreadyMember
	}

	if event.MaxParticipants > 0 {
		count, err := s.eventRepo.CountParticipants(eventID)
		if err != nil {
			return err
		}
		if count >= int64(event.MaxParticipants) {
			return ErrEventFull
		}
	}
	return s.eventRepo.AddParticipant(eventID, userID)
}

func (s *eventService) Leave(userID, eventID string) error {
	event, err := s.find(eventID)
	if err != nil {
		return err
	}
	// The organizer deletes the event instead of leaving it
	if event.OrganizerID == userID {
		return common.ErrForbidden
	}
	if err := s.eventRepo.RemoveParticipant(eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotMember
		}
		return err
	}
	return nil
}

func (s *eventService) Participants(eventID string) ([]*domain.PublicUser, error) {
	if _, err := s.find(eventID); err != nil {
		return nil, err
	}
	participants, err := s.eventRepo.Participants(eventID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PublicUser, 0, len(participants))
	for _, p := range participants {
		if p.User != nil {
			out = append(out, p.User.ToPublic())
		}
	}
	return out, nil
}

func (s *eventService) RemoveParticipant(hostID, eventID, targetID string) error {
	event, err := s.find(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != hostID {
		return common.ErrForbidden
	}
	if targetID == hostID {
		return common.ErrInvalidInput
	}
	if err := s.eventRepo.RemoveParticipant(eventID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotMember
		}
		return err
	}
	return nil
}

func (s *eventService) ToggleReaction(userID, eventID string) (bool, int64, error) {
	if _, err := s.find(eventID); err != nil {
		return false, 0, err
	}
	added, err := s.eventRepo.ToggleReaction(eventID, userID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.eventRepo.CountReactions(eventID)
	if err != nil {
		return false, 0, err
	}
	return added, count, nil
}

func (s *eventService) Messages(userID, eventID string, limit, offset int) ([]*domain.MessageResponse, error) {
	if _, err := s.find(eventID); err != nil {
		return nil, err
	}
	joined, err := s.eventRepo.IsParticipant(eventID, userID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, common.ErrNotMember
	}

	limit, offset = clampPage(limit, offset)
	messages, err := s.eventRepo.Messages(eventID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ToResponse())
	}
	return out, nil
}

func (s *eventService) SendMessage(userID, eventID, content string) (*domain.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	if _, err := s.find(eventID); err != nil {
		return nil, err
	}
	joined, err := s.eventRepo.IsParticipant(eventID, userID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, common.ErrNotMember
	}

	sender, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	msg := &domain.EventMessage{
		EventID:  eventID,
		SenderID: userID,
		Content:  content,
	}
	if err := s.eventRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	msg.Sender = sender
	return msg.ToResponse(), nil
}
