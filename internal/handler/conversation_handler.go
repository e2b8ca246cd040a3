package handler

import (
	"net/http"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ConversationHandler direct-message HTTP handlers
type ConversationHandler struct {
	convService service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// List returns the caller's conversation inbox
// @Router /api/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	archived := c.Query("archived") == "true"
	summaries, err := h.convService.List(middleware.GetUserID(c), archived)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, summaries, nil)
}

type startConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// Start opens (or re-opens) a conversation with another user
// @Router /api/conversations [post]
func (h *ConversationHandler) Start(c *gin.Context) {
	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	summary, err := h.convService.GetOrCreate(middleware.GetUserID(c), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, summary, nil)
}

// GetMessages returns the caller's visible messages, oldest first
// @Router /api/conversations/{id}/messages [get]
func (h *ConversationHandler) GetMessages(c *gin.Context) {
	limit, offset := pagination(c)
	messages, err := h.convService.GetMessages(middleware.GetUserID(c), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, messages, nil)
}

// SendMessage posts a message to the conversation
// @Router /api/conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	msg, err := h.convService.SendMessage(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: msg})
}

// React toggles the caller's reaction on a message
// @Router /api/conversations/{id}/messages/{messageId}/react [post]
func (h *ConversationHandler) React(c *gin.Context) {
	var req domain.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	msg, err := h.convService.React(middleware.GetUserID(c), c.Param("messageId"), req.Emoji)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, msg, nil)
}

// SetArchived archives or un-archives the conversation for the caller
// @Router /api/conversations/{id}/archive [patch]
func (h *ConversationHandler) SetArchived(c *gin.Context) {
	var req domain.SetArchivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.convService.SetArchived(middleware.GetUserID(c), c.Param("id"), req.IsArchived); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"is_archived": req.IsArchived}, nil)
}

// SetTheme changes the shared chat theme
// @Router /api/conversations/{id}/theme [patch]
func (h *ConversationHandler) SetTheme(c *gin.Context) {
	var req domain.SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.convService.SetTheme(middleware.GetUserID(c), c.Param("id"), req.Theme); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"theme": req.Theme}, nil)
}

// Clear hides the current history for the caller only
// @Router /api/conversations/{id}/clear [post]
func (h *ConversationHandler) Clear(c *gin.Context) {
	if err := h.convService.Clear(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"cleared": true}, nil)
}

// Delete removes the conversation from the caller's inbox
// @Router /api/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.convService.Delete(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
