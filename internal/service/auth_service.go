package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"github.com/driftzo/echoroom-backend/pkg/email"
	"github.com/driftzo/echoroom-backend/pkg/jwt"
	"github.com/driftzo/echoroom-backend/pkg/logger"
	"github.com/driftzo/echoroom-backend/pkg/verify"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
	maxUsernameLen = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// AuthService signup and session business logic
type AuthService interface {
	SendCode(ctx context.Context, emailAddr string) error
	VerifyCode(ctx context.Context, emailAddr, code string) error
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(emailAddr, password string) (*domain.AuthResponse, error)
	Refresh(refreshToken string) (*domain.AuthResponse, error)
	Me(userID string) (*domain.ProfileResponse, error)
}

type authService struct {
	userRepo    repository.UserRepository
	verifyStore *verify.Store
	emailSender email.Sender
	jwtManager  *jwt.Manager
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	verifyStore *verify.Store,
	emailSender email.Sender,
	jwtManager *jwt.Manager,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		verifyStore: verifyStore,
		emailSender: emailSender,
		jwtManager:  jwtManager,
	}
}

func (s *authService) SendCode(ctx context.Context, emailAddr string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return common.ErrInvalidInput
	}
	if _, err := s.userRepo.FindByEmail(emailAddr); err == nil {
		return common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	code, err := verify.GenerateCode()
	if err != nil {
		return err
	}
	if err := s.verifyStore.Save(ctx, emailAddr, code); err != nil {
		return err
	}
	if err := s.emailSender.SendVerificationCode(emailAddr, code); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("email", emailAddr).Msg("send verification code")
		return err
	}
	return nil
}

func (s *authService) VerifyCode(ctx context.Context, emailAddr, code string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	return s.verifyStore.Verify(ctx, emailAddr, strings.TrimSpace(code))
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	if len(username) < minUsernameLen || len(username) > maxUsernameLen || !usernamePattern.MatchString(username) {
		return nil, common.ErrInvalidInput
	}
	if len(req.Password) < minPasswordLen {
		return nil, common.ErrInvalidInput
	}

	ok, err := s.verifyStore.IsVerified(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrEmailNotVerified
	}

	if _, err := s.userRepo.FindByEmail(emailAddr); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: string(hash),
		Gender:       req.Gender,
		IsVerified:   true,
	}
	if req.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, common.ErrInvalidInput
		}
		user.BirthDate = &birth
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.verifyStore.Consume(ctx, emailAddr); err != nil {
		// The account exists either way, keep going
		log := logger.GetLogger()
		log.Warn().Err(err).Str("email", emailAddr).Msg("consume verified marker")
	}

	log := logger.GetLogger()
	log.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return s.issueTokens(user)
}

func (s *authService) Login(emailAddr, password string) (*domain.AuthResponse, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*domain.AuthResponse, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) Me(userID string) (*domain.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToProfile(), nil
}

func (s *authService) issueTokens(user *domain.User) (*domain.AuthResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		User:         user.ToProfile(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
