package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account
type User struct {
	ID           string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Username     string     `gorm:"column:username;type:varchar(50);uniqueIndex" json:"username"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	Avatar       string     `gorm:"column:avatar;type:varchar(16)" json:"avatar"`
	Bio          string     `gorm:"column:bio;type:text" json:"bio"`
	Gender       string     `gorm:"column:gender;type:varchar(20)" json:"gender"`
	BirthDate    *time.Time `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Location     string     `gorm:"column:location;type:varchar(100)" json:"location"`
	Interests    string     `gorm:"column:interests;type:varchar(500)" json:"interests"` // comma-separated
	LookingFor   string     `gorm:"column:looking_for;type:varchar(50)" json:"looking_for"`
	IsVerified   bool       `gorm:"column:is_verified;default:false" json:"is_verified"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// BeforeCreate assigns a UUID primary key
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// PublicUser is the identity embedded in messages and member lists
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ToPublic converts a User to its public identity.
// Empty avatars fall back to the default star, matching the web client.
func (u *User) ToPublic() *PublicUser {
	avatar := u.Avatar
	if avatar == "" {
		avatar = "🌟"
	}
	return &PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   avatar,
	}
}

// ProfileResponse is the full profile returned to the owner
type ProfileResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Avatar     string     `json:"avatar"`
	Bio        string     `json:"bio"`
	Gender     string     `json:"gender"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Age        int        `json:"age,omitempty"`
	Location   string     `json:"location"`
	Interests  []string   `json:"interests"`
	LookingFor string     `json:"looking_for"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToProfile converts a User to ProfileResponse
func (u *User) ToProfile() *ProfileResponse {
	resp := &ProfileResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		Gender:     u.Gender,
		BirthDate:  u.BirthDate,
		Location:   u.Location,
		Interests:  SplitCSV(u.Interests),
		LookingFor: u.LookingFor,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
	if u.BirthDate != nil {
		resp.Age = ageFrom(*u.BirthDate)
	}
	return resp
}

func ageFrom(birth time.Time) int {
	now := time.Now()
	age := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		age--
	}
	return age
}

// UpdateProfileRequest is the profile edit payload
type UpdateProfileRequest struct {
	Avatar     *string  `json:"avatar"`
	Bio        *string  `json:"bio"`
	Gender     *string  `json:"gender"`
	BirthDate  *string  `json:"birth_date"` // YYYY-MM-DD
	Location   *string  `json:"location"`
	Interests  []string `json:"interests"`
	LookingFor *string  `json:"looking_for"`
}

// SearchUsersQuery filters the discovery listing
type SearchUsersQuery struct {
	Gender   string
	Interest string
	MinAge   int
	MaxAge   int
	Limit    int
	Offset   int
}
