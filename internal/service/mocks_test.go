package service

import (
	"os"
	"testing"
	"time"

	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(user *domain.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUserRepo) Search(q *domain.SearchUsersQuery, excludeID string) ([]*domain.User, int64, error) {
	args := m.Called(q, excludeID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

type mockConvRepo struct {
	mock.Mock
}

func (m *mockConvRepo) FindByID(id string) (*domain.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindByPair(user1ID, user2ID string) (*domain.Conversation, error) {
	args := m.Called(user1ID, user2ID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) CreateWithStates(conv *domain.Conversation) error {
	return m.Called(conv).Error(0)
}

func (m *mockConvRepo) ListStates(userID string, archived bool) ([]*domain.ConversationState, error) {
	args := m.Called(userID, archived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConversationState), args.Error(1)
}

func (m *mockConvRepo) FindState(userID, conversationID string) (*domain.ConversationState, error) {
	args := m.Called(userID, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversationState), args.Error(1)
}

func (m *mockConvRepo) EnsureState(userID, conversationID string) error {
	return m.Called(userID, conversationID).Error(0)
}

func (m *mockConvRepo) SetArchived(userID, conversationID string, archived bool) error {
	return m.Called(userID, conversationID, archived).Error(0)
}

func (m *mockConvRepo) SetTheme(conversationID, theme string) error {
	return m.Called(conversationID, theme).Error(0)
}

func (m *mockConvRepo) VisibleMessages(conversationID, userID string, limit, offset int) ([]*domain.DirectMessage, error) {
	args := m.Called(conversationID, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DirectMessage), args.Error(1)
}

func (m *mockConvRepo) LastVisibleMessage(conversationID, userID string) (*domain.DirectMessage, error) {
	args := m.Called(conversationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectMessage), args.Error(1)
}

func (m *mockConvRepo) FindMessage(id string) (*domain.DirectMessage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DirectMessage), args.Error(1)
}

func (m *mockConvRepo) CreateMessage(msg *domain.DirectMessage, recipientIDs []string, reviveUserID string) error {
	return m.Called(msg, recipientIDs, reviveUserID).Error(0)
}

func (m *mockConvRepo) UpdateReactions(messageID string, reactions domain.ReactionList, activity *repository.ActivityUpdate, reviveUserID string) error {
	return m.Called(messageID, reactions, activity, reviveUserID).Error(0)
}

func (m *mockConvRepo) ClearForUser(userID, conversationID string) error {
	return m.Called(userID, conversationID).Error(0)
}

func (m *mockConvRepo) DeleteForUser(userID, conversationID string) error {
	return m.Called(userID, conversationID).Error(0)
}

type mockRoomRepo struct {
	mock.Mock
}

func (m *mockRoomRepo) List(category string, limit, offset int) ([]*domain.ChatRoom, int64, error) {
	args := m.Called(category, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ChatRoom), args.Get(1).(int64), args.Error(2)
}

func (m *mockRoomRepo) ListJoined(userID string, archived bool) ([]*repository.JoinedRoom, error) {
	args := m.Called(userID, archived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*repository.JoinedRoom), args.Error(1)
}

func (m *mockRoomRepo) CountMessages(roomID string) (int64, error) {
	args := m.Called(roomID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRoomRepo) FindByID(id string) (*domain.ChatRoom, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatRoom), args.Error(1)
}

func (m *mockRoomRepo) Create(room *domain.ChatRoom) error {
	return m.Called(room).Error(0)
}

func (m *mockRoomRepo) Update(room *domain.ChatRoom) error {
	return m.Called(room).Error(0)
}

func (m *mockRoomRepo) SetTheme(roomID, theme string) error {
	return m.Called(roomID, theme).Error(0)
}

func (m *mockRoomRepo) Delete(roomID string) error {
	return m.Called(roomID).Error(0)
}

func (m *mockRoomRepo) Members(roomID string) ([]*domain.RoomMember, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RoomMember), args.Error(1)
}

func (m *mockRoomRepo) FindMember(roomID, userID string) (*domain.RoomMember, error) {
	args := m.Called(roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomMember), args.Error(1)
}

func (m *mockRoomRepo) Join(roomID, userID string) (bool, error) {
	args := m.Called(roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoomRepo) RemoveMember(roomID, userID, promoteUserID string) error {
	return m.Called(roomID, userID, promoteUserID).Error(0)
}

func (m *mockRoomRepo) FindState(userID, roomID string) (*domain.RoomMemberState, error) {
	args := m.Called(userID, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomMemberState), args.Error(1)
}

func (m *mockRoomRepo) SetArchived(userID, roomID string, archived bool) error {
	return m.Called(userID, roomID, archived).Error(0)
}

func (m *mockRoomRepo) ClearForUser(userID, roomID string) error {
	return m.Called(userID, roomID).Error(0)
}

func (m *mockRoomRepo) VisibleMessages(roomID, userID string, clearedAt *time.Time, limit, offset int) ([]*domain.RoomMessage, error) {
	args := m.Called(roomID, userID, clearedAt, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RoomMessage), args.Error(1)
}

func (m *mockRoomRepo) FindMessage(id string) (*domain.RoomMessage, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomMessage), args.Error(1)
}

func (m *mockRoomRepo) CreateMessage(msg *domain.RoomMessage, recipientIDs []string, activity *repository.ActivityUpdate, unarchiveAll bool) error {
	return m.Called(msg, recipientIDs, activity, unarchiveAll).Error(0)
}

func (m *mockRoomRepo) UpdateReactions(messageID string, reactions domain.ReactionList, activity *repository.ActivityUpdate) error {
	return m.Called(messageID, reactions, activity).Error(0)
}

func (m *mockRoomRepo) DeleteMessageForUser(userID, messageID string) error {
	return m.Called(userID, messageID).Error(0)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Emit(channel, event string, payload interface{}) {
	m.Called(channel, event, payload)
}

func (m *mockBroadcaster) EmitToUser(userID, event string, payload interface{}) {
	m.Called(userID, event, payload)
}
