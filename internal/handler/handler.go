package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps business errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrUserNotFound),
		errors.Is(err, common.ErrConversationNotFound),
		errors.Is(err, common.ErrRoomNotFound),
		errors.Is(err, common.ErrMessageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrNotCreator),
		errors.Is(err, common.ErrNotMember),
		errors.Is(err, common.ErrEmailNotVerified):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrUserAlreadyExists),
		errors.Is(err, common.ErrAlreadyMember):
		status = http.StatusConflict
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidTheme),
		errors.Is(err, common.ErrEmptyContent),
		errors.Is(err, service.ErrEventFull):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log := logger.GetLogger()
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		common.ErrorResponse(c, status, "internal server error", err)
		return
	}
	common.ErrorResponse(c, status, err.Error(), err)
}

// pagination reads limit/offset query parameters
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}
