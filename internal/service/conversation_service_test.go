package service

import (
	"testing"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newConversationFixture() (*mockConvRepo, *mockUserRepo, *mockBroadcaster, ConversationService) {
	convRepo := new(mockConvRepo)
	userRepo := new(mockUserRepo)
	bc := new(mockBroadcaster)
	svc := NewConversationService(convRepo, userRepo, bc)
	return convRepo, userRepo, bc, svc
}

func testConversation() *domain.Conversation {
	return &domain.Conversation{
		ID:      "conv-1",
		User1ID: "user-a",
		User2ID: "user-b",
		User1:   &domain.User{ID: "user-a", Username: "alice"},
		User2:   &domain.User{ID: "user-b", Username: "bob"},
	}
}

func TestConversationSendMessage(t *testing.T) {
	convRepo, userRepo, bc, svc := newConversationFixture()
	conv := testConversation()

	convRepo.On("FindByID", "conv-1").Return(conv, nil)
	userRepo.On("FindByID", "user-b").Return(conv.User2, nil)
	// Both participants get visibility and the recipient is revived
	convRepo.On("CreateMessage", mock.AnythingOfType("*domain.DirectMessage"),
		[]string{"user-a", "user-b"}, "user-a").Return(nil)
	bc.On("Emit", ws.ConversationChannel("conv-1"), EventNewMessage, mock.Anything).Return()
	bc.On("EmitToUser", "user-a", EventConvUpdated, mock.Anything).Return()

	resp, err := svc.SendMessage("user-b", "conv-1", &domain.SendMessageRequest{Content: "  hey  "})
	assert.NoError(t, err)
	assert.Equal(t, "hey", resp.Content)
	assert.Equal(t, "user-b", resp.SenderID)
	assert.Equal(t, "bob", resp.SenderName)

	convRepo.AssertExpectations(t)
	bc.AssertExpectations(t)
}

func TestConversationSendMessage_EmptyContent(t *testing.T) {
	_, _, _, svc := newConversationFixture()

	_, err := svc.SendMessage("user-a", "conv-1", &domain.SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, common.ErrEmptyContent)
}

func TestConversationSendMessage_NotParticipant(t *testing.T) {
	convRepo, _, _, svc := newConversationFixture()
	convRepo.On("FindByID", "conv-1").Return(testConversation(), nil)

	_, err := svc.SendMessage("stranger", "conv-1", &domain.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestConversationReact_ToggleOff(t *testing.T) {
	convRepo, _, bc, svc := newConversationFixture()
	conv := testConversation()
	msg := &domain.DirectMessage{
		ID:             "msg-1",
		ConversationID: "conv-1",
		SenderID:       "user-a",
		Reactions:      domain.ReactionList{{UserID: "user-b", Emoji: "❤️"}},
		Conversation:   conv,
		Sender:         conv.User1,
	}

	convRepo.On("FindMessage", "msg-1").Return(msg, nil)
	// Submitting the same emoji removes the reaction
	convRepo.On("UpdateReactions", "msg-1", domain.ReactionList{}, mock.Anything, "user-a").Return(nil)
	bc.On("Emit", ws.ConversationChannel("conv-1"), EventReaction, mock.Anything).Return()
	bc.On("EmitToUser", "user-a", EventConvUpdated, mock.Anything).Return()

	resp, err := svc.React("user-b", "msg-1", "❤️")
	assert.NoError(t, err)
	assert.Empty(t, resp.Reactions)
	convRepo.AssertExpectations(t)
}

func TestConversationReact_ReplacesEmoji(t *testing.T) {
	convRepo, _, bc, svc := newConversationFixture()
	conv := testConversation()
	msg := &domain.DirectMessage{
		ID:             "msg-1",
		ConversationID: "conv-1",
		SenderID:       "user-a",
		Reactions:      domain.ReactionList{{UserID: "user-b", Emoji: "❤️"}},
		Conversation:   conv,
		Sender:         conv.User1,
	}

	convRepo.On("FindMessage", "msg-1").Return(msg, nil)
	convRepo.On("UpdateReactions", "msg-1",
		domain.ReactionList{{UserID: "user-b", Emoji: "🔥"}}, mock.Anything, "user-a").Return(nil)
	bc.On("Emit", mock.Anything, EventReaction, mock.Anything).Return()
	bc.On("EmitToUser", "user-a", EventConvUpdated, mock.Anything).Return()

	resp, err := svc.React("user-b", "msg-1", "🔥")
	assert.NoError(t, err)
	assert.Len(t, resp.Reactions, 1)
	assert.Equal(t, "🔥", resp.Reactions[0].Emoji)
}

func TestConversationGetMessages_ClampsLimit(t *testing.T) {
	convRepo, _, _, svc := newConversationFixture()
	conv := testConversation()
	convRepo.On("FindByID", "conv-1").Return(conv, nil)

	// Zero limit falls back to the default
	convRepo.On("VisibleMessages", "conv-1", "user-a", 50, 0).
		Return([]*domain.DirectMessage{}, nil).Once()
	_, err := svc.GetMessages("user-a", "conv-1", 0, 0)
	assert.NoError(t, err)

	// Oversized limit is capped
	convRepo.On("VisibleMessages", "conv-1", "user-a", 100, 10).
		Return([]*domain.DirectMessage{}, nil).Once()
	_, err = svc.GetMessages("user-a", "conv-1", 500, 10)
	assert.NoError(t, err)

	convRepo.AssertExpectations(t)
}

func TestConversationGetOrCreate_New(t *testing.T) {
	convRepo, userRepo, _, svc := newConversationFixture()
	other := &domain.User{ID: "user-b", Username: "bob"}

	userRepo.On("FindByID", "user-b").Return(other, nil)
	convRepo.On("FindByPair", "user-a", "user-b").Return(nil, gorm.ErrRecordNotFound)
	convRepo.On("CreateWithStates", mock.MatchedBy(func(c *domain.Conversation) bool {
		return c.User1ID == "user-a" && c.User2ID == "user-b"
	})).Return(nil)
	convRepo.On("FindState", "user-a", mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	summary, err := svc.GetOrCreate("user-a", "user-b")
	assert.NoError(t, err)
	assert.Equal(t, "bob", summary.OtherUser.Username)
	convRepo.AssertExpectations(t)
}

func TestConversationGetOrCreate_ExistingRevives(t *testing.T) {
	convRepo, userRepo, _, svc := newConversationFixture()
	conv := testConversation()

	userRepo.On("FindByID", "user-b").Return(conv.User2, nil)
	convRepo.On("FindByPair", "user-a", "user-b").Return(conv, nil)
	// Re-opening undoes a previous delete-for-me
	convRepo.On("EnsureState", "user-a", "conv-1").Return(nil)
	convRepo.On("FindState", "user-a", "conv-1").
		Return(&domain.ConversationState{IsArchived: true}, nil)

	summary, err := svc.GetOrCreate("user-a", "user-b")
	assert.NoError(t, err)
	assert.Equal(t, "conv-1", summary.ID)
	assert.True(t, summary.IsArchived)
	convRepo.AssertExpectations(t)
}

func TestConversationGetOrCreate_Self(t *testing.T) {
	_, _, _, svc := newConversationFixture()

	_, err := svc.GetOrCreate("user-a", "user-a")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestConversationSetTheme(t *testing.T) {
	convRepo, _, bc, svc := newConversationFixture()
	convRepo.On("FindByID", "conv-1").Return(testConversation(), nil)
	convRepo.On("SetTheme", "conv-1", "ocean").Return(nil)
	bc.On("Emit", ws.ConversationChannel("conv-1"), EventThemeChanged, mock.Anything).Return()
	bc.On("EmitToUser", "user-b", EventConvUpdated, mock.Anything).Return()

	assert.NoError(t, svc.SetTheme("user-a", "conv-1", "ocean"))
	bc.AssertExpectations(t)
}

func TestConversationSetTheme_Invalid(t *testing.T) {
	_, _, _, svc := newConversationFixture()

	err := svc.SetTheme("user-a", "conv-1", "disco")
	assert.ErrorIs(t, err, common.ErrInvalidTheme)
}

func TestConversationClearAndDelete(t *testing.T) {
	convRepo, _, _, svc := newConversationFixture()
	convRepo.On("FindByID", "conv-1").Return(testConversation(), nil)
	convRepo.On("ClearForUser", "user-a", "conv-1").Return(nil)
	convRepo.On("DeleteForUser", "user-a", "conv-1").Return(nil)

	assert.NoError(t, svc.Clear("user-a", "conv-1"))
	assert.NoError(t, svc.Delete("user-a", "conv-1"))
	convRepo.AssertExpectations(t)
}

func TestConversationList_SkipsHiddenLastMessage(t *testing.T) {
	convRepo, _, _, svc := newConversationFixture()
	conv := testConversation()
	states := []*domain.ConversationState{
		{UserID: "user-a", ConversationID: "conv-1", Conversation: conv},
	}

	convRepo.On("ListStates", "user-a", false).Return(states, nil)
	// Everything was cleared for this user, so no preview
	convRepo.On("LastVisibleMessage", "conv-1", "user-a").Return(nil, gorm.ErrRecordNotFound)

	summaries, err := svc.List("user-a", false)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].LastMessage)
	assert.Equal(t, "bob", summaries[0].OtherUser.Username)
}
