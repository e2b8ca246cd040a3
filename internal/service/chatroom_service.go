package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/internal/ws"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	"gorm.io/gorm"
)

// ChatRoomService room business logic: listing, membership, messaging and
// per-member view state.
type ChatRoomService interface {
	ListRooms(category string, limit, offset int) ([]domain.RoomSummary, int64, error)
	ListMyRooms(userID string, archived bool) ([]*domain.MyRoomSummary, error)
	CreateRoom(userID string, req *domain.CreateRoomRequest) (*domain.RoomDetail, error)
	GetRoom(roomID string) (*domain.RoomDetail, error)
	UpdateRoom(userID, roomID string, req *domain.UpdateRoomRequest) (*domain.RoomDetail, error)
	DeleteRoom(userID, roomID string) error

	Join(userID, roomID string) error
	Leave(userID, roomID string) error
	Kick(actorID, roomID, targetID string) error

	GetMessages(userID, roomID string, limit, offset int) ([]*domain.MessageResponse, error)
	SendMessage(userID, roomID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	React(userID, messageID, emoji string) (*domain.MessageResponse, error)
	DeleteMessageForMe(userID, messageID string) error

	SetArchived(userID, roomID string, archived bool) error
	SetTheme(userID, roomID, theme string) error
	Clear(userID, roomID string) error
}

type chatRoomService struct {
	roomRepo    repository.ChatRoomRepository
	userRepo    repository.UserRepository
	broadcaster Broadcaster
	// pick chooses the successor index when the creator leaves; injected so
	// tests can make the promotion deterministic
	pick func(n int) int
}

// NewChatRoomService creates a new ChatRoomService
func NewChatRoomService(
	roomRepo repository.ChatRoomRepository,
	userRepo repository.UserRepository,
	broadcaster Broadcaster,
	pick func(n int) int,
) ChatRoomService {
	if pick == nil {
		pick = rand.Intn
	}
	return &chatRoomService{
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		pick:        pick,
	}
}

func (s *chatRoomService) ListRooms(category string, limit, offset int) ([]domain.RoomSummary, int64, error) {
	limit, offset = clampPage(limit, offset)
	rooms, total, err := s.roomRepo.List(category, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		count, err := s.roomRepo.CountMessages(room.ID)
		if err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, room.ToSummary(count))
	}
	return summaries, total, nil
}

func (s *chatRoomService) ListMyRooms(userID string, archived bool) ([]*domain.MyRoomSummary, error) {
	joined, err := s.roomRepo.ListJoined(userID, archived)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.MyRoomSummary, 0, len(joined))
	for _, jr := range joined {
		count, err := s.roomRepo.CountMessages(jr.Room.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.MyRoomSummary{
			RoomSummary:      jr.Room.ToSummary(count),
			ChatTheme:        jr.Room.ChatTheme,
			IsCreator:        jr.IsCreator,
			IsArchived:       jr.IsArchived,
			LastActivityType: jr.Room.LastActivityType,
			LastActivityText: jr.Room.LastActivityText,
			LastActivityAt:   jr.Room.LastActivityAt,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].LastActivityAt, out[j].LastActivityAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
	return out, nil
}

func (s *chatRoomService) CreateRoom(userID string, req *domain.CreateRoomRequest) (*domain.RoomDetail, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.ErrInvalidInput
	}

	room := &domain.ChatRoom{
		Title:       title,
		Category:    req.Category,
		Description: req.Description,
		Icon:        req.Icon,
		Tags:        domain.JoinCSV(req.Tags),
	}
	if err := s.roomRepo.Create(room); err != nil {
		return nil, err
	}

	// The creator joins their own room immediately
	if err := s.join(userID, room); err != nil {
		return nil, err
	}
	return s.GetRoom(room.ID)
}

func (s *chatRoomService) GetRoom(roomID string) (*domain.RoomDetail, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRoomNotFound
		}
		return nil, err
	}

	count, err := s.roomRepo.CountMessages(roomID)
	if err != nil {
		return nil, err
	}
	members, err := s.roomRepo.Members(roomID)
	if err != nil {
		return nil, err
	}

	detail := &domain.RoomDetail{
		RoomSummary: room.ToSummary(count),
		ChatTheme:   room.ChatTheme,
		MembersList: make([]*domain.RoomPerson, 0, len(members)),
	}
	for _, m := range members {
		if m.User == nil {
			continue
		}
		detail.MembersList = append(detail.MembersList, &domain.RoomPerson{
			PublicUser: *m.User.ToPublic(),
			IsCreator:  m.IsCreator,
			JoinedAt:   m.JoinedAt,
		})
	}
	return detail, nil
}

func (s *chatRoomService) UpdateRoom(userID, roomID string, req *domain.UpdateRoomRequest) (*domain.RoomDetail, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrRoomNotFound
		}
		return nil, err
	}
	if err := s.requireCreator(roomID, userID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrInvalidInput
		}
		room.Title = title
	}
	if req.Category != nil {
		room.Category = *req.Category
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.Icon != nil {
		room.Icon = *req.Icon
	}
	if req.Tags != nil {
		room.Tags = domain.JoinCSV(req.Tags)
	}
	if err := s.roomRepo.Update(room); err != nil {
		return nil, err
	}

	s.broadcaster.Emit(ws.RoomChannel(roomID), EventRoomUpdated, map[string]string{"room_id": roomID})
	return s.GetRoom(roomID)
}

func (s *chatRoomService) DeleteRoom(userID, roomID string) error {
	if _, err := s.roomRepo.FindByID(roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrRoomNotFound
		}
		return err
	}
	if err := s.requireCreator(roomID, userID); err != nil {
		return err
	}

	members, err := s.roomRepo.Members(roomID)
	if err != nil {
		return err
	}
	if err := s.roomRepo.Delete(roomID); err != nil {
		return err
	}

	payload := map[string]string{"room_id": roomID}
	s.broadcaster.Emit(ws.RoomChannel(roomID), EventRoomDeleted, payload)
	for _, m := range members {
		s.broadcaster.EmitToUser(m.UserID, EventRoomDeleted, payload)
	}
	return nil
}

// requireCreator rejects non-members with ErrNotMember and members without
// the creator flag with ErrNotCreator
func (s *chatRoomService) requireCreator(roomID, userID string) error {
	member, err := s.roomRepo.FindMember(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotMember
		}
		return err
	}
	if !member.IsCreator {
		return common.ErrNotCreator
	}
	return nil
}

// member loads the caller's membership or ErrNotMember
func (s *chatRoomService) member(roomID, userID string) (*domain.RoomMember, error) {
	member, err := s.roomRepo.FindMember(roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

func (s *chatRoomService) Join(userID, roomID string) error {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrRoomNotFound
		}
		return err
	}
	if _, err := s.roomRepo.FindMember(roomID, userID); err == nil {
		return common.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.join(userID, room)
}

// join performs the membership write and announces the arrival. The joiner's
// clear watermark is stamped first, so the announcement is the first message
// they see.
func (s *chatRoomService) join(userID string, room *domain.ChatRoom) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if _, err := s.roomRepo.Join(room.ID, userID); err != nil {
		return err
	}

	if err := s.announce(room.ID, userID, fmt.Sprintf("%s joined the room", user.Username)); err != nil {
		return err
	}

	s.notifyRoom(room.ID, EventRoomUpdated, map[string]interface{}{
		"room_id": room.ID,
		"user_id": userID,
	})
	return nil
}

func (s *chatRoomService) Leave(userID, roomID string) error {
	member, err := s.member(roomID, userID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	successor, err := s.removeMember(roomID, member)
	if err != nil {
		return err
	}

	if err := s.announce(roomID, userID, fmt.Sprintf("%s left the room", user.Username)); err != nil {
		return err
	}
	payload := map[string]string{"room_id": roomID, "user_id": userID}
	s.notifyRoom(roomID, EventMemberLeft, payload)
	s.broadcaster.EmitToUser(userID, EventMemberLeft, payload)

	if successor != nil {
		if err := s.announceSuccessor(roomID, successor); err != nil {
			return err
		}
	}
	return nil
}

func (s *chatRoomService) Kick(actorID, roomID, targetID string) error {
	if err := s.requireCreator(roomID, actorID); err != nil {
		return err
	}
	if targetID == actorID {
		return common.ErrInvalidInput
	}
	target, err := s.member(roomID, targetID)
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return err
	}

	// The actor is the creator, so the target never is; no promotion here
	if _, err := s.removeMember(roomID, target); err != nil {
		return err
	}

	if err := s.announce(roomID, actorID, fmt.Sprintf("%s was removed from the room", user.Username)); err != nil {
		return err
	}
	s.notifyRoom(roomID, EventMemberKicked, map[string]string{"room_id": roomID, "user_id": targetID})
	s.broadcaster.EmitToUser(targetID, EventMemberKicked, map[string]string{"room_id": roomID, "user_id": targetID})
	return nil
}

// removeMember deletes the membership and, when the departing member was the
// creator, promotes a randomly chosen survivor in the same transaction.
// Returns the promoted member, if any.
func (s *chatRoomService) removeMember(roomID string, departing *domain.RoomMember) (*domain.RoomMember, error) {
	var successor *domain.RoomMember
	if departing.IsCreator {
		members, err := s.roomRepo.Members(roomID)
		if err != nil {
			return nil, err
		}
		remaining := make([]*domain.RoomMember, 0, len(members))
		for _, m := range members {
			if m.UserID != departing.UserID {
				remaining = append(remaining, m)
			}
		}
		if len(remaining) > 0 {
			successor = remaining[s.pick(len(remaining))]
		}
	}

	promoteID := ""
	if successor != nil {
		promoteID = successor.UserID
	}
	if err := s.roomRepo.RemoveMember(roomID, departing.UserID, promoteID); err != nil {
		return nil, err
	}
	return successor, nil
}

func (s *chatRoomService) announceSuccessor(roomID string, successor *domain.RoomMember) error {
	user, err := s.userRepo.FindByID(successor.UserID)
	if err != nil {
		return err
	}
	if err := s.announce(roomID, successor.UserID, fmt.Sprintf("%s is now the admin", user.Username)); err != nil {
		return err
	}
	s.notifyRoom(roomID, EventAdminChanged, map[string]string{
		"room_id": roomID,
		"user_id": successor.UserID,
	})
	return nil
}

// announce writes a system message visible to all current members
func (s *chatRoomService) announce(roomID, byUserID, text string) error {
	members, err := s.roomRepo.Members(roomID)
	if err != nil {
		return err
	}
	recipientIDs := make([]string, 0, len(members))
	for _, m := range members {
		recipientIDs = append(recipientIDs, m.UserID)
	}

	now := time.Now()
	msg := &domain.RoomMessage{
		RoomID:    roomID,
		SenderID:  byUserID,
		Content:   text,
		Type:      domain.MessageTypeSystem,
		Reactions: domain.ReactionList{},
	}
	activity := &repository.ActivityUpdate{
		Type: domain.ActivitySystem,
		Text: domain.Summarize(text, activitySummaryMax),
		By:   byUserID,
		At:   now,
	}
	if err := s.roomRepo.CreateMessage(msg, recipientIDs, activity, false); err != nil {
		return err
	}

	s.broadcaster.Emit(ws.RoomChannel(roomID), EventNewMessage, msg.ToResponse())
	return nil
}

// notifyRoom fans an event out to the room channel and to each member's
// personal channel so inbox views refresh without an open room
func (s *chatRoomService) notifyRoom(roomID, event string, payload interface{}) {
	s.broadcaster.Emit(ws.RoomChannel(roomID), event, payload)

	members, err := s.roomRepo.Members(roomID)
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("room_id", roomID).Msg("skip member fan-out")
		return
	}
	for _, m := range members {
		s.broadcaster.EmitToUser(m.UserID, event, payload)
	}
}

func (s *chatRoomService) GetMessages(userID, roomID string, limit, offset int) ([]*domain.MessageResponse, error) {
	if _, err := s.member(roomID, userID); err != nil {
		return nil, err
	}

	var clearedAt *time.Time
	if state, err := s.roomRepo.FindState(userID, roomID); err == nil {
		clearedAt = state.ClearedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	messages, err := s.roomRepo.VisibleMessages(roomID, userID, clearedAt, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ToResponse())
	}
	return out, nil
}

func (s *chatRoomService) SendMessage(userID, roomID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
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

	if _, err := s.member(roomID, userID); err != nil {
		return nil, err
	}
	sender, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	members, err := s.roomRepo.Members(roomID)
	if err != nil {
		return nil, err
	}
	recipientIDs := make([]string, 0, len(members))
	for _, m := range members {
		recipientIDs = append(recipientIDs, m.UserID)
	}

	now := time.Now()
	msg := &domain.RoomMessage{
		RoomID:    roomID,
		SenderID:  userID,
		Content:   content,
		Type:      msgType,
		Reactions: domain.ReactionList{},
	}
	activity := &repository.ActivityUpdate{
		Type: domain.ActivityMessage,
		Text: domain.Summarize(content, activitySummaryMax),
		By:   userID,
		At:   now,
	}
	// A user message pulls the room out of everyone's archive
	if err := s.roomRepo.CreateMessage(msg, recipientIDs, activity, true); err != nil {
		return nil, err
	}

	msg.Sender = sender
	resp := msg.ToResponse()

	s.broadcaster.Emit(ws.RoomChannel(roomID), EventNewMessage, resp)
	for _, uid := range recipientIDs {
		s.broadcaster.EmitToUser(uid, EventMyRoomsUpdated, map[string]string{"room_id": roomID})
	}
	return resp, nil
}

func (s *chatRoomService) React(userID, messageID, emoji string) (*domain.MessageResponse, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, common.ErrInvalidInput
	}

	msg, err := s.roomRepo.FindMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	if _, err := s.member(msg.RoomID, userID); err != nil {
		return nil, err
	}

	// Room reactions replace the previous emoji but never toggle off
	reactions := msg.Reactions.Replace(userID, emoji)
	activity := &repository.ActivityUpdate{
		Type: domain.ActivityReaction,
		Text: fmt.Sprintf("Reacted with %s", emoji),
		By:   userID,
		At:   time.Now(),
	}
	if err := s.roomRepo.UpdateReactions(messageID, reactions, activity); err != nil {
		return nil, err
	}

	msg.Reactions = reactions
	resp := msg.ToResponse()

	s.broadcaster.Emit(ws.RoomChannel(msg.RoomID), EventReaction, map[string]interface{}{
		"room_id": msg.RoomID,
		"message": resp,
	})
	return resp, nil
}

func (s *chatRoomService) DeleteMessageForMe(userID, messageID string) error {
	msg, err := s.roomRepo.FindMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrMessageNotFound
		}
		return err
	}
	if _, err := s.member(msg.RoomID, userID); err != nil {
		return err
	}
	if err := s.roomRepo.DeleteMessageForUser(userID, messageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrMessageNotFound
		}
		return err
	}
	return nil
}

func (s *chatRoomService) SetArchived(userID, roomID string, archived bool) error {
	if _, err := s.member(roomID, userID); err != nil {
		return err
	}
	return s.roomRepo.SetArchived(userID, roomID, archived)
}

func (s *chatRoomService) SetTheme(userID, roomID, theme string) error {
	if !domain.IsValidTheme(theme) {
		return common.ErrInvalidTheme
	}
	if _, err := s.member(roomID, userID); err != nil {
		return err
	}
	if err := s.roomRepo.SetTheme(roomID, theme); err != nil {
		return err
	}

	s.broadcaster.Emit(ws.RoomChannel(roomID), EventThemeChanged, map[string]string{
		"room_id": roomID,
		"theme":   theme,
	})
	return nil
}

func (s *chatRoomService) Clear(userID, roomID string) error {
	if _, err := s.member(roomID, userID); err != nil {
		return err
	}
	return s.roomRepo.ClearForUser(userID, roomID)
}
