package repository

import (
	"time"

	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access interface
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	Update(user *domain.User) error
	Search(q *domain.SearchUsersQuery, excludeID string) ([]*domain.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}

// Search filters the discovery listing. Age bounds translate to birth date bounds.
func (r *userRepository) Search(q *domain.SearchUsersQuery, excludeID string) ([]*domain.User, int64, error) {
	query := r.db.Model(&domain.User{}).Where("id <> ?", excludeID)

	if q.Gender != "" {
		query = query.Where("gender = ?", q.Gender)
	}
	if q.Interest != "" {
		query = query.Where("interests LIKE ?", "%"+q.Interest+"%")
	}
	now := time.Now()
	if q.MinAge > 0 {
		query = query.Where("birth_date <= ?", now.AddDate(-q.MinAge, 0, 0))
	}
	if q.MaxAge > 0 {
		query = query.Where("birth_date >= ?", now.AddDate(-q.MaxAge-1, 0, 0))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*domain.User
	err := query.Order("created_at DESC").
		Offset(q.Offset).Limit(q.Limit).
		Find(&users).Error
	return users, total, err
}
