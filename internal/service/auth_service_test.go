package service

import (
	"testing"
	"time"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthFixture() (*mockUserRepo, *jwt.Manager, AuthService) {
	userRepo := new(mockUserRepo)
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(userRepo, nil, nil, manager)
	return userRepo, manager, svc
}

func hashedUser(password string) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID:           "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: string(hash),
	}
}

func TestLogin(t *testing.T) {
	userRepo, manager, svc := newAuthFixture()
	user := hashedUser("correct horse")
	userRepo.On("FindByEmail", "alice@example.com").Return(user, nil)

	resp, err := svc.Login("  Alice@Example.com ", "correct horse")
	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := manager.VerifyToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	userRepo.On("FindByEmail", "alice@example.com").Return(hashedUser("correct horse"), nil)

	_, err := svc.Login("alice@example.com", "battery staple")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	userRepo.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login("ghost@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	userRepo, manager, svc := newAuthFixture()
	user := hashedUser("pw")
	userRepo.On("FindByID", "user-1").Return(user, nil)

	token, err := manager.GenerateRefreshToken("user-1")
	assert.NoError(t, err)

	resp, err := svc.Refresh(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefresh_InvalidToken(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Refresh("not-a-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestMe(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	userRepo.On("FindByID", "user-1").Return(hashedUser("pw"), nil)

	profile, err := svc.Me("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

func TestMe_NotFound(t *testing.T) {
	userRepo, _, svc := newAuthFixture()
	userRepo.On("FindByID", "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Me("nope")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}
