package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Forum category slugs and their display labels
var ForumCategories = map[string]string{
	"mental-health": "Mental Health",
	"philosophy":    "Philosophy",
	"education":     "Education",
	"culture":       "Culture",
	"wellness":      "Wellness",
	"creativity":    "Creativity",
}

// ForumPost is a community forum thread
type ForumPost struct {
	ID         string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	UserID     string    `gorm:"column:user_id;type:char(36);index" json:"user_id"`
	Title      string    `gorm:"column:title;type:varchar(200)" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	Category   string    `gorm:"column:category;type:varchar(50);index" json:"category"`
	Tags       string    `gorm:"column:tags;type:varchar(500)" json:"tags"` // comma-separated
	IsStickied bool      `gorm:"column:is_stickied;default:false" json:"is_stickied"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (ForumPost) TableName() string { return "forum_posts" }

// BeforeCreate assigns a UUID primary key
func (p *ForumPost) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// ForumComment is a reply on a forum post
type ForumComment struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	PostID    string    `gorm:"column:post_id;type:char(36);index" json:"post_id"`
	UserID    string    `gorm:"column:user_id;type:char(36);index" json:"user_id"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User *User      `gorm:"foreignKey:UserID" json:"-"`
	Post *ForumPost `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ForumComment) TableName() string { return "forum_comments" }

// BeforeCreate assigns a UUID primary key
func (c *ForumComment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// ForumReaction is a per-user upvote on a post or comment (toggle)
type ForumReaction struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;type:char(36);uniqueIndex:idx_forum_reaction" json:"user_id"`
	TargetType string    `gorm:"column:target_type;type:varchar(10);uniqueIndex:idx_forum_reaction" json:"target_type"` // "post" | "comment"
	TargetID   string    `gorm:"column:target_id;type:char(36);uniqueIndex:idx_forum_reaction" json:"target_id"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ForumReaction) TableName() string { return "forum_reactions" }

// PostSummary is one entry in the forum listing
type PostSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Category      string    `json:"category"`
	CategoryLabel string    `json:"category_label"`
	Tags          []string  `json:"tags"`
	IsStickied    bool      `json:"is_stickied"`
	Author        string    `json:"author"`
	AuthorID      string    `json:"author_id"`
	AuthorAvatar  string    `json:"author_avatar"`
	Replies       int64     `json:"replies"`
	Upvotes       int64     `json:"upvotes"`
	LastActivity  time.Time `json:"last_activity"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostDetail is the full post payload including comments
type PostDetail struct {
	PostSummary
	Content  string             `json:"content"`
	Upvoted  bool               `json:"upvoted"`
	Comments []*CommentResponse `json:"comments"`
}

// CommentResponse is a comment in API responses
type CommentResponse struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	AuthorID     string    `json:"author_id"`
	AuthorAvatar string    `json:"author_avatar"`
	Upvotes      int64     `json:"upvotes"`
	Upvoted      bool      `json:"upvoted"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreatePostRequest is the post creation payload
type CreatePostRequest struct {
	Title    string   `json:"title" binding:"required"`
	Content  string   `json:"content" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
}

// AddCommentRequest is the comment creation payload
type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}
