package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/internal/ws"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100
	activitySummaryMax  = 80
)

// ConversationService direct-message business logic
type ConversationService interface {
	List(userID string, archived bool) ([]*domain.ConversationSummary, error)
	GetOrCreate(userID, otherUserID string) (*domain.ConversationSummary, error)
	GetMessages(userID, conversationID string, limit, offset int) ([]*domain.MessageResponse, error)
	SendMessage(userID, conversationID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	React(userID, messageID, emoji string) (*domain.MessageResponse, error)
	SetArchived(userID, conversationID string, archived bool) error
	SetTheme(userID, conversationID, theme string) error
	Clear(userID, conversationID string) error
	Delete(userID, conversationID string) error
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

// clampPage applies list defaults and caps
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *conversationService) List(userID string, archived bool) ([]*domain.ConversationSummary, error) {
	states, err := s.convRepo.ListStates(userID, archived)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ConversationSummary, 0, len(states))
	for _, state := range states {
		conv := state.Conversation
		if conv == nil {
			continue
		}

		summary := &domain.ConversationSummary{
			ID:            conv.ID,
			ChatTheme:     conv.ChatTheme,
			IsArchived:    state.IsArchived,
			LastMessageAt: conv.LastMessageAt,
		}
		if conv.User1ID == userID && conv.User2 != nil {
			summary.OtherUser = conv.User2.ToPublic()
		} else if conv.User1 != nil {
			summary.OtherUser = conv.User1.ToPublic()
		}

		// Preview honors the caller's own visibility, not the raw last message
		last, err := s.convRepo.LastVisibleMessage(conv.ID, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if last != nil {
			summary.LastMessage = last.ToResponse()
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i].LastMessageAt, summaries[j].LastMessageAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return summaries, nil
}

func (s *conversationService) GetOrCreate(userID, otherUserID string) (*domain.ConversationSummary, error) {
	if otherUserID == "" || otherUserID == userID {
		return nil, common.ErrInvalidInput
	}
	other, err := s.userRepo.FindByID(otherUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	u1, u2 := domain.NormalizePair(userID, otherUserID)
	conv, err := s.convRepo.FindByPair(u1, u2)
	switch {
	case err == nil:
		// Re-opening an existing conversation undoes a previous delete-for-me
		if err := s.convRepo.EnsureState(userID, conv.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		conv = &domain.Conversation{User1ID: u1, User2ID: u2}
		if err := s.convRepo.CreateWithStates(conv); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	summary := &domain.ConversationSummary{
		ID:            conv.ID,
		OtherUser:     other.ToPublic(),
		ChatTheme:     conv.ChatTheme,
		LastMessageAt: conv.LastMessageAt,
	}
	if state, err := s.convRepo.FindState(userID, conv.ID); err == nil {
		summary.IsArchived = state.IsArchived
	}
	return summary, nil
}

// participant loads the conversation and rejects outsiders
func (s *conversationService) participant(userID, conversationID string) (*domain.Conversation, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, common.ErrForbidden
	}
	return conv, nil
}

func (s *conversationService) GetMessages(userID, conversationID string, limit, offset int) ([]*domain.MessageResponse, error) {
	if _, err := s.participant(userID, conversationID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	messages, err := s.convRepo.VisibleMessages(conversationID, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ToResponse())
	}
	return out, nil
}

func (s *conversationService) SendMessage(userID, conversationID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	msgType := req.Type
	if msgType == "" {
		msgType = domain.MessageTypeText
	}
	if msgType != domain.MessageTypeText {
		return nil, common.ErrInvalidInput
	}

	conv, err := s.participant(userID, conversationID)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	otherID := conv.OtherUserID(userID)
	msg := &domain.DirectMessage{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		Type:           msgType,
		Reactions:      domain.ReactionList{},
	}
	// Both participants get visibility; new activity revives the other side
	if err := s.convRepo.CreateMessage(msg, []string{conv.User1ID, conv.User2ID}, otherID); err != nil {
		return nil, err
	}

	msg.Sender = sender
	resp := msg.ToResponse()

	s.broadcaster.Emit(ws.ConversationChannel(conversationID), EventNewMessage, resp)
	s.broadcaster.EmitToUser(otherID, EventConvUpdated, map[string]string{"conversation_id": conversationID})
	return resp, nil
}

func (s *conversationService) React(userID, messageID, emoji string) (*domain.MessageResponse, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, common.ErrInvalidInput
	}

	msg, err := s.convRepo.FindMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	conv := msg.Conversation
	if conv == nil || !conv.HasParticipant(userID) {
		return nil, common.ErrForbidden
	}

	// Same emoji toggles off, a different one replaces it
	reactions := msg.Reactions.Toggle(userID, emoji)
	activity := &repository.ActivityUpdate{
		Type: domain.ActivityReaction,
		Text: fmt.Sprintf("Reacted with %s", emoji),
		By:   userID,
	}
	otherID := conv.OtherUserID(userID)
	if err := s.convRepo.UpdateReactions(messageID, reactions, activity, otherID); err != nil {
		return nil, err
	}

	msg.Reactions = reactions
	resp := msg.ToResponse()

	s.broadcaster.Emit(ws.ConversationChannel(conv.ID), EventReaction, map[string]interface{}{
		"conversation_id": conv.ID,
		"message":         resp,
	})
	s.broadcaster.EmitToUser(otherID, EventConvUpdated, map[string]string{"conversation_id": conv.ID})
	return resp, nil
}

func (s *conversationService) SetArchived(userID, conversationID string, archived bool) error {
	if _, err := s.participant(userID, conversationID); err != nil {
		return err
	}
	return s.convRepo.SetArchived(userID, conversationID, archived)
}

func (s *conversationService) SetTheme(userID, conversationID, theme string) error {
	if !domain.IsValidTheme(theme) {
		return common.ErrInvalidTheme
	}
	conv, err := s.participant(userID, conversationID)
	if err != nil {
		return err
	}
	if err := s.convRepo.SetTheme(conversationID, theme); err != nil {
		return err
	}

	// Theme is shared, notify both sides
	s.broadcaster.Emit(ws.ConversationChannel(conversationID), EventThemeChanged, map[string]string{
		"conversation_id": conversationID,
		"theme":           theme,
	})
	s.broadcaster.EmitToUser(conv.OtherUserID(userID), EventConvUpdated, map[string]string{"conversation_id": conversationID})
	return nil
}

func (s *conversationService) Clear(userID, conversationID string) error {
	if _, err := s.participant(userID, conversationID); err != nil {
		return err
	}
	if err := s.convRepo.ClearForUser(userID, conversationID); err != nil {
		return err
	}
	log := logger.GetLogger()
	log.Info().Str("user_id", userID).Str("conversation_id", conversationID).Msg("conversation cleared")
	return nil
}

func (s *conversationService) Delete(userID, conversationID string) error {
	if _, err := s.participant(userID, conversationID); err != nil {
		return err
	}
	return s.convRepo.DeleteForUser(userID, conversationID)
}
