package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	contextUserID   = "user_id"
	contextUsername = "username"
)

// JWTAuth validates the Bearer token and stores the caller identity in the
// request context
func JWTAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}

		claims, err := manager.VerifyToken(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				msg = "access token expired"
			}
			common.ErrorResponse(c, http.StatusUnauthorized, msg, err)
			c.Abort()
			return
		}

		c.Set(contextUserID, claims.UserID)
		c.Set(contextUsername, claims.Username)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// WebSocket clients can't set headers from the browser
	return c.Query("token")
}

// GetUserID returns the authenticated user id from the context
func GetUserID(c *gin.Context) string {
	return c.GetString(contextUserID)
}

// GetUsername returns the authenticated username from the context
func GetUsername(c *gin.Context) string {
	return c.GetString(contextUsername)
}
