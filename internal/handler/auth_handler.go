package handler

import (
	"errors"
	"net/http"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/driftzo/echoroom-backend/pkg/verify"
	"github.com/gin-gonic/gin"
)

// AuthHandler signup and session HTTP handlers
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendCode e-mails a verification code
// @Router /api/auth/send-code [post]
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req domain.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.authService.SendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"sent": true}, nil)
}

// VerifyCode checks the e-mailed code
// @Router /api/auth/verify-code [post]
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req domain.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.authService.VerifyCode(c.Request.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, verify.ErrCodeMismatch) || errors.Is(err, verify.ErrCodeExpired) {
			common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
			return
		}
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"verified": true}, nil)
}

// Register creates an account for a verified e-mail
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: resp})
}

// Login exchanges credentials for a token pair
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Refresh exchanges a refresh token for a new pair
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Logout acknowledges the logout. Tokens are stateless, the client drops them.
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	common.SuccessResponse(c, gin.H{"logged_out": true}, nil)
}

// Me returns the authenticated user's profile
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Me(middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, profile, nil)
}
