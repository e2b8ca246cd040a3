package handler

import (
	"net/http"
	"strconv"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler profile and discovery HTTP handlers
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile returns the caller's full profile
// @Router /api/users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, profile, nil)
}

// UpdateProfile edits the caller's profile
// @Router /api/users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	profile, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, profile, nil)
}

// GetUser returns another user's public identity
// @Router /api/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetPublic(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, user, nil)
}

// Search filters the discovery listing
// @Router /api/users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)
	minAge, _ := strconv.Atoi(c.Query("min_age"))
	maxAge, _ := strconv.Atoi(c.Query("max_age"))

	q := &domain.SearchUsersQuery{
		Gender:   c.Query("gender"),
		Interest: c.Query("interest"),
		MinAge:   minAge,
		MaxAge:   maxAge,
		Limit:    limit,
		Offset:   offset,
	}
	users, total, err := h.userService.Search(middleware.GetUserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, users, &common.Meta{Limit: q.Limit, Offset: q.Offset, Total: total})
}
