package service

import (
	"errors"
	"time"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"gorm.io/gorm"
)

// UserService profile and discovery business logic
type UserService interface {
	GetProfile(userID string) (*domain.ProfileResponse, error)
	GetPublic(userID string) (*domain.PublicUser, error)
	UpdateProfile(userID string, req *domain.UpdateProfileRequest) (*domain.ProfileResponse, error)
	Search(callerID string, q *domain.SearchUsersQuery) ([]*domain.ProfileResponse, int64, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(userID string) (*domain.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToProfile(), nil
}

func (s *userService) GetPublic(userID string) (*domain.PublicUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToPublic(), nil
}

func (s *userService) UpdateProfile(userID string, req *domain.UpdateProfileRequest) (*domain.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			user.BirthDate = nil
		} else {
			birth, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				return nil, common.ErrInvalidInput
			}
			user.BirthDate = &birth
		}
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Interests != nil {
		user.Interests = domain.JoinCSV(req.Interests)
	}
	if req.LookingFor != nil {
		user.LookingFor = *req.LookingFor
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

func (s *userService) Search(callerID string, q *domain.SearchUsersQuery) ([]*domain.ProfileResponse, int64, error) {
	q.Limit, q.Offset = clampPage(q.Limit, q.Offset)
	users, total, err := s.userRepo.Search(q, callerID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.ProfileResponse, 0, len(users))
	for _, u := range users {
		profile := u.ToProfile()
		// Discovery hides contact details
		profile.Email = ""
		out = append(out, profile)
	}
	return out, total, nil
}
