package handler

import (
	"net/http"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// EventHandler meetup HTTP handlers
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List returns the public event listing
// @Router /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	events, total, err := h.eventService.List(middleware.GetUserID(c), c.Query("category"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, events, &common.Meta{Limit: limit, Offset: offset, Total: total})
}

// ListMine returns the events the caller joined
// @Router /api/events/mine [get]
func (h *EventHandler) ListMine(c *gin.Context) {
	events, err := h.eventService.ListJoined(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, events, nil)
}

// Get returns one event
// @Router /api/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, event, nil)
}

// Create hosts a new event with the caller as organizer
// @Router /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req domain.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	event, err := h.eventService.Create(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: event})
}

// Update edits an event (organizer only)
// @Router /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req domain.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	event, err := h.eventService.Update(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, event, nil)
}

// Delete cancels an event (organizer only)
// @Router /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.eventService.Delete(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// Join adds the caller as a participant
// @Router /api/events/{id}/join [post]
func (h *EventHandler) Join(c *gin.Context) {
	if err := h.eventService.Join(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"joined": true}, nil)
}

// Leave removes the caller from the participants
// @Router /api/events/{id}/leave [post]
func (h *EventHandler) Leave(c *gin.Context) {
	if err := h.eventService.Leave(middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"left": true}, nil)
}

// Participants lists who joined the event
// @Router /api/events/{id}/participants [get]
func (h *EventHandler) Participants(c *gin.Context) {
	participants, err := h.eventService.Participants(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, participants, nil)
}

// RemoveParticipant removes a participant (organizer only)
// @Router /api/events/{id}/participants/{userId} [delete]
func (h *EventHandler) RemoveParticipant(c *gin.Context) {
	if err := h.eventService.RemoveParticipant(middleware.GetUserID(c), c.Param("id"), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"removed": true}, nil)
}

// React toggles the caller's interest mark
// @Router /api/events/{id}/react [post]
func (h *EventHandler) React(c *gin.Context) {
	added, count, err := h.eventService.ToggleReaction(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"reacted": added, "reactions": count}, nil)
}

// GetMessages returns the event discussion, oldest first
// @Router /api/events/{id}/messages [get]
func (h *EventHandler) GetMessages(c *gin.Context) {
	limit, offset := pagination(c)
	messages, err := h.eventService.Messages(middleware.GetUserID(c), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, messages, nil)
}

// SendMessage posts to the event discussion
// @Router /api/events/{id}/messages [post]
func (h *EventHandler) SendMessage(c *gin.Context) {
	var req domain.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	msg, err := h.eventService.SendMessage(middleware.GetUserID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: msg})
}
