package service

import (
	"testing"
	"time"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newRoomFixture(pick func(int) int) (*mockRoomRepo, *mockUserRepo, *mockBroadcaster, ChatRoomService) {
	roomRepo := new(mockRoomRepo)
	userRepo := new(mockUserRepo)
	bc := new(mockBroadcaster)
	svc := NewChatRoomService(roomRepo, userRepo, bc, pick)
	return roomRepo, userRepo, bc, svc
}

func testRoom() *domain.ChatRoom {
	return &domain.ChatRoom{ID: "room-1", Title: "Night Owls", Category: "wellness"}
}

func roomMembers() []*domain.RoomMember {
	return []*domain.RoomMember{
		{RoomID: "room-1", UserID: "user-a", IsCreator: true, User: &domain.User{ID: "user-a", Username: "alice"}},
		{RoomID: "room-1", UserID: "user-b", User: &domain.User{ID: "user-b", Username: "bob"}},
		{RoomID: "room-1", UserID: "user-c", User: &domain.User{ID: "user-c", Username: "carol"}},
	}
}

func TestRoomJoin_AlreadyMember(t *testing.T) {
	roomRepo, _, _, svc := newRoomFixture(nil)
	roomRepo.On("FindByID", "room-1").Return(testRoom(), nil)
	roomRepo.On("FindMember", "room-1", "user-a").Return(roomMembers()[0], nil)

	err := svc.Join("user-a", "room-1")
	assert.ErrorIs(t, err, common.ErrAlreadyMember)
}

func TestRoomJoin_AnnouncesArrival(t *testing.T) {
	roomRepo, userRepo, bc, svc := newRoomFixture(nil)
	roomRepo.On("FindByID", "room-1").Return(testRoom(), nil)
	roomRepo.On("FindMember", "room-1", "user-d").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByID", "user-d").Return(&domain.User{ID: "user-d", Username: "dave"}, nil)
	roomRepo.On("Join", "room-1", "user-d").Return(false, nil)
	roomRepo.On("Members", "room-1").Return(roomMembers(), nil)
	roomRepo.On("CreateMessage", mock.MatchedBy(func(m *domain.RoomMessage) bool {
		return m.Type == domain.MessageTypeSystem && m.Content == "dave joined the room"
	}), mock.Anything, mock.Anything, false).Return(nil)
	bc.On("Emit", ws.RoomChannel("room-1"), EventNewMessage, mock.Anything).Return()
	bc.On("Emit", ws.RoomChannel("room-1"), EventRoomUpdated, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, EventRoomUpdated, mock.Anything).Return()

	assert.NoError(t, svc.Join("user-d", "room-1"))
	roomRepo.AssertExpectations(t)
}

func TestRoomLeave_PromotesSuccessor(t *testing.T) {
	members := roomMembers()
	// Deterministic promotion: always the first remaining member
	roomRepo, userRepo, bc, svc := newRoomFixture(func(n int) int { return 0 })

	roomRepo.On("FindMember", "room-1", "user-a").Return(members[0], nil)
	userRepo.On("FindByID", "user-a").Return(members[0].User, nil)
	userRepo.On("FindByID", "user-b").Return(members[1].User, nil)
	roomRepo.On("Members", "room-1").Return(members, nil)
	roomRepo.On("RemoveMember", "room-1", "user-a", "user-b").Return(nil)
	roomRepo.On("CreateMessage", mock.MatchedBy(func(m *domain.RoomMessage) bool {
		return m.Content == "alice left the room" || m.Content == "bob is now the admin"
	}), mock.Anything, mock.Anything, false).Return(nil)
	bc.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, mock.Anything, mock.Anything).Return()

	assert.NoError(t, svc.Leave("user-a", "room-1"))

	roomRepo.AssertCalled(t, "RemoveMember", "room-1", "user-a", "user-b")
	bc.AssertCalled(t, "Emit", ws.RoomChannel("room-1"), EventAdminChanged, mock.Anything)
}

func TestRoomLeave_NonCreatorNoPromotion(t *testing.T) {
	members := roomMembers()
	roomRepo, userRepo, bc, svc := newRoomFixture(func(n int) int {
		t.Fatal("pick should not run for a non-creator")
		return 0
	})

	roomRepo.On("FindMember", "room-1", "user-b").Return(members[1], nil)
	userRepo.On("FindByID", "user-b").Return(members[1].User, nil)
	roomRepo.On("Members", "room-1").Return(members, nil)
	roomRepo.On("RemoveMember", "room-1", "user-b", "").Return(nil)
	roomRepo.On("CreateMessage", mock.MatchedBy(func(m *domain.RoomMessage) bool {
		return m.Content == "bob left the room"
	}), mock.Anything, mock.Anything, false).Return(nil)
	bc.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, mock.Anything, mock.Anything).Return()

	assert.NoError(t, svc.Leave("user-b", "room-1"))
	bc.AssertNotCalled(t, "Emit", ws.RoomChannel("room-1"), EventAdminChanged, mock.Anything)
}

func TestRoomKick_RequiresCreator(t *testing.T) {
	roomRepo, _, _, svc := newRoomFixture(nil)
	roomRepo.On("FindMember", "room-1", "user-b").Return(roomMembers()[1], nil)

	err := svc.Kick("user-b", "room-1", "user-c")
	assert.ErrorIs(t, err, common.ErrNotCreator)
}

func TestRoomKick(t *testing.T) {
	members := roomMembers()
	roomRepo, userRepo, bc, svc := newRoomFixture(nil)

	roomRepo.On("FindMember", "room-1", "user-a").Return(members[0], nil)
	roomRepo.On("FindMember", "room-1", "user-c").Return(members[2], nil)
	userRepo.On("FindByID", "user-c").Return(members[2].User, nil)
	roomRepo.On("Members", "room-1").Return(members, nil)
	roomRepo.On("RemoveMember", "room-1", "user-c", "").Return(nil)
	roomRepo.On("CreateMessage", mock.MatchedBy(func(m *domain.RoomMessage) bool {
		return m.Content == "carol was removed from the room" && m.Type == domain.MessageTypeSystem
	}), mock.Anything, mock.Anything, false).Return(nil)
	bc.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, mock.Anything, mock.Anything).Return()

	assert.NoError(t, svc.Kick("user-a", "room-1", "user-c"))
	bc.AssertCalled(t, "EmitToUser", "user-c", EventMemberKicked, mock.Anything)
}

func TestRoomSendMessage_UnarchivesEveryone(t *testing.T) {
	members := roomMembers()
	roomRepo, userRepo, bc, svc := newRoomFixture(nil)

	roomRepo.On("FindMember", "room-1", "user-b").Return(members[1], nil)
	userRepo.On("FindByID", "user-b").Return(members[1].User, nil)
	roomRepo.On("Members", "room-1").Return(members, nil)
	roomRepo.On("CreateMessage", mock.AnythingOfType("*domain.RoomMessage"),
		[]string{"user-a", "user-b", "user-c"}, mock.Anything, true).Return(nil)
	bc.On("Emit", ws.RoomChannel("room-1"), EventNewMessage, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, EventMyRoomsUpdated, mock.Anything).Return()

	resp, err := svc.SendMessage("user-b", "room-1", &domain.SendMessageRequest{Content: "good evening"})
	assert.NoError(t, err)
	assert.Equal(t, "bob", resp.SenderName)
	roomRepo.AssertExpectations(t)
}

func TestRoomSendMessage_NotMember(t *testing.T) {
	roomRepo, _, _, svc := newRoomFixture(nil)
	roomRepo.On("FindMember", "room-1", "stranger").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SendMessage("stranger", "room-1", &domain.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, common.ErrNotMember)
}

func TestRoomReact_ReplaceNeverRemoves(t *testing.T) {
	members := roomMembers()
	roomRepo, _, bc, svc := newRoomFixture(nil)
	msg := &domain.RoomMessage{
		ID:        "msg-1",
		RoomID:    "room-1",
		SenderID:  "user-a",
		Reactions: domain.ReactionList{{UserID: "user-b", Emoji: "❤️"}},
		Sender:    members[0].User,
	}

	roomRepo.On("FindMessage", "msg-1").Return(msg, nil)
	roomRepo.On("FindMember", "room-1", "user-b").Return(members[1], nil)
	// Same emoji again keeps the reaction in rooms
	roomRepo.On("UpdateReactions", "msg-1",
		domain.ReactionList{{UserID: "user-b", Emoji: "❤️"}}, mock.Anything).Return(nil)
	bc.On("Emit", ws.RoomChannel("room-1"), EventReaction, mock.Anything).Return()

	resp, err := svc.React("user-b", "msg-1", "❤️")
	assert.NoError(t, err)
	assert.Len(t, resp.Reactions, 1)
	roomRepo.AssertExpectations(t)
}

func TestRoomGetMessages_UsesClearWatermark(t *testing.T) {
	members := roomMembers()
	roomRepo, _, _, svc := newRoomFixture(nil)
	cleared := time.Now().Add(-time.Hour)

	roomRepo.On("FindMember", "room-1", "user-b").Return(members[1], nil)
	roomRepo.On("FindState", "user-b", "room-1").
		Return(&domain.RoomMemberState{UserID: "user-b", RoomID: "room-1", ClearedAt: &cleared}, nil)
	roomRepo.On("VisibleMessages", "room-1", "user-b", &cleared, 50, 0).
		Return([]*domain.RoomMessage{}, nil)

	_, err := svc.GetMessages("user-b", "room-1", 0, 0)
	assert.NoError(t, err)
	roomRepo.AssertExpectations(t)
}

func TestRoomCreate_CreatorJoins(t *testing.T) {
	roomRepo, userRepo, bc, svc := newRoomFixture(nil)
	creator := &domain.User{ID: "user-a", Username: "alice"}

	roomRepo.On("Create", mock.MatchedBy(func(r *domain.ChatRoom) bool {
		return r.Title == "Night Owls" && r.Tags == "calm,night"
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*domain.ChatRoom).ID = "room-1"
	})
	userRepo.On("FindByID", "user-a").Return(creator, nil)
	roomRepo.On("Join", "room-1", "user-a").Return(true, nil)
	roomRepo.On("Members", "room-1").Return([]*domain.RoomMember{
		{RoomID: "room-1", UserID: "user-a", IsCreator: true, User: creator},
	}, nil)
	roomRepo.On("CreateMessage", mock.Anything, mock.Anything, mock.Anything, false).Return(nil)
	roomRepo.On("FindByID", "room-1").Return(testRoom(), nil)
	roomRepo.On("CountMessages", "room-1").Return(int64(1), nil)
	bc.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return()
	bc.On("EmitToUser", mock.Anything, mock.Anything, mock.Anything).Return()

	detail, err := svc.CreateRoom("user-a", &domain.CreateRoomRequest{
		Title:    "Night Owls",
		Category: "wellness",
		Tags:     []string{"calm", "night"},
	})
	assert.NoError(t, err)
	assert.Len(t, detail.MembersList, 1)
	assert.True(t, detail.MembersList[0].IsCreator)
}

func TestRoomDelete_RequiresCreator(t *testing.T) {
	roomRepo, _, _, svc := newRoomFixture(nil)
	roomRepo.On("FindByID", "room-1").Return(testRoom(), nil)
	roomRepo.On("FindMember", "room-1", "user-b").Return(roomMembers()[1], nil)

	err := svc.DeleteRoom("user-b", "room-1")
	assert.ErrorIs(t, err, common.ErrNotCreator)
}

func TestRoomClearAndArchive(t *testing.T) {
	members := roomMembers()
	roomRepo, _, _, svc := newRoomFixture(nil)
	roomRepo.On("FindMember", "room-1", "user-b").Return(members[1], nil)
	roomRepo.On("ClearForUser", "user-b", "room-1").Return(nil)
	roomRepo.On("SetArchived", "user-b", "room-1", true).Return(nil)

	assert.NoError(t, svc.Clear("user-b", "room-1"))
	assert.NoError(t, svc.SetArchived("user-b", "room-1", true))
	roomRepo.AssertExpectations(t)
}

func TestRoomListMyRooms(t *testing.T) {
	roomRepo, _, _, svc := newRoomFixture(nil)
	room := testRoom()
	roomRepo.On("ListJoined", "user-a", false).Return([]*repository.JoinedRoom{
		{Room: room, IsCreator: true},
	}, nil)
	roomRepo.On("CountMessages", "room-1").Return(int64(7), nil)

	rooms, err := svc.ListMyRooms("user-a", false)
	assert.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.True(t, rooms[0].IsCreator)
	assert.Equal(t, int64(7), rooms[0].MessageCount)
}
