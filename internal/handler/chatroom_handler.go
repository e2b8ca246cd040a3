package handler

import (
	"net/http"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ChatRoomHandler chat room HTTP handlers
type ChatRoomHandler struct {
	roomService service.ChatRoomService
}

// NewChatRoomHandler creates a new ChatRoomHandler
func NewChatRoomHandler(roomService service.ChatRoomService) *ChatRoomHandler {
	return &ChatRoomHandler{roomService: roomService}
}

// List returns the public room directory
// @Router /api/chat/rooms [get]
func (h *ChatRoomHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	rooms, total, err := h.roomService.ListRooms(c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, rooms, &common.Meta{Limit: limit, Offset: offset, Total: total})
}

// ListMine returns the rooms the caller joined
// @Router /api/chat/rooms/mine [get]
func (h *ChatRoomHandler) ListMine(c *gin.Context) {
	archived := c.Query("archived") == "true"
	rooms, err := h.roomService.ListMyRooms(middleware.GetUserID(c), archived)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, rooms, nil)
}

// Create opens a new room with the caller as its admin
// @Router /api/chat/rooms [post]
func (h *ChatRoomHandler) Create(c *gin.Context) {
	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	detail, err := h.roomService.CreateRoom(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: detail})
}

// Get returns one room with its member list
// @Router /api/chat/rooms/{id} [get]
func (h *ChatRoomHandler) Get(c *gin.Context) {
	detail, err := h.roomService.GetRoom(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, detail, nil)
}

// Update edits the room metadata (admin only)
// @Router /api/chat/rooms/{id} [put]
func (h *ChatRoomHandler) Update(c *gin.Context) {
	var req domain.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	detail, err := h.roomService.UpdateRoom(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, detail, nil)
}

// Delete removes the room and all of its data (admin only)
// @Router /api/chat/rooms/{id} [delete]
func (h *ChatRoomHandler) Delete(c *gin.Context) {
	if err := h.roomService.DeleteRoom(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// Join adds the caller to the room
// @Router /api/chat/rooms/{id}/join [post]
func (h *ChatRoomHandler) Join(c *gin.Context) {
	if err := h.roomService.Join(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"joined": true}, nil)
}

// Leave removes the caller from the room
// @Router /api/chat/rooms/{id}/leave [post]
func (h *ChatRoomHandler) Leave(c *gin.Context) {
	if err := h.roomService.Leave(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"left": true}, nil)
}

// Kick removes another member from the room (admin only)
// @Router /api/chat/rooms/{id}/kick/{userId} [post]
func (h *ChatRoomHandler) Kick(c *gin.Context) {
	if err := h.roomService.Kick(middleware.GetUserID(c), c.Param("id"), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"kicked": true}, nil)
}

// GetMessages returns the caller's visible room messages, oldest first
// @Router /api/chat/rooms/{id}/messages [get]
func (h *ChatRoomHandler) GetMessages(c *gin.Context) {
	limit, offset := pagination(c)
	messages, err := h.roomService.GetMessages(middleware.GetUserID(c), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, messages, nil)
}

// SendMessage posts a message to the room
// @Router /api/chat/rooms/{id}/messages [post]
func (h *ChatRoomHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	msg, err := h.roomService.SendMessage(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: msg})
}

// React sets the caller's reaction on a room message
// @Router /api/chat/rooms/{id}/messages/{messageId}/react [post]
func (h *ChatRoomHandler) React(c *gin.Context) {
	var req domain.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	msg, err := h.roomService.React(middleware.GetUserID(c), c.Param("messageId"), req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// DeleteMessage hides a message for the caller only
// @Router /api/chat/rooms/{id}/messages/{messageId} [delete]
func (h *ChatRoomHandler) DeleteMessage(c *gin.Context) {
	if err := h.roomService.DeleteMessageForMe(middleware.GetUserID(c), c.Param("messageId")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// SetArchived archives or un-archives the room for the caller
// @Router /api/chat/rooms/{id}/archive [patch]
func (h *ChatRoomHandler) SetArchived(c *gin.Context) {
	var req domain.SetArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.roomService.SetArchived(middleware.GetUserID(c), c.Param("id"), req.IsArchived); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"is_archived": req.IsArchived}, nil)
}

// SetTheme changes the room's shared chat theme
// @Router /api/chat/rooms/{id}/theme [patch]
func (h *ChatRoomHandler) SetTheme(c *gin.Context) {
	var req domain.SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.roomService.SetTheme(middleware.GetUserID(c), c.Param("id"), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"theme": req.Theme}, nil)
}

// Clear moves the caller's watermark so older messages disappear for them
// @Router /api/chat/rooms/{id}/clear [post]
func (h *ChatRoomHandler) Clear(c *gin.Context) {
	if err := h.roomService.Clear(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"cleared": true}, nil)
}
