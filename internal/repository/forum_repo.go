package repository

import (
	"github.com/driftzo/echoroom-backend/internal/domain"
	"gorm.io/gorm"
)

// ForumRepository forum data access interface
type ForumRepository interface {
	ListPosts(category, search, sort string, limit, offset int) ([]*domain.ForumPost, int64, error)
	CountPosts(category string) (int64, error)
	FindPost(id string) (*domain.ForumPost, error)
	CreatePost(post *domain.ForumPost) error
	Comments(postID string) ([]*domain.ForumComment, error)
	FindComment(id string) (*domain.ForumComment, error)
	CreateComment(comment *domain.ForumComment) error
	CountComments(postID string) (int64, error)
	CountReactions(targetType, targetID string) (int64, error)
	HasReacted(userID, targetType, targetID string) (bool, error)
	ToggleReaction(userID, targetType, targetID string) (added bool, err error)
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository creates a new ForumRepository
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) ListPosts(category, search, sort string, limit, offset int) ([]*domain.ForumPost, int64, error) {
	query := r.db.Model(&domain.ForumPost{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User")
	switch sort {
	case "popular":
		query = query.Order("(SELECT COUNT(*) FROM forum_reactions fr WHERE fr.target_type = 'post' AND fr.target_id = forum_posts.id) DESC")
	case "replies":
		query = query.Order("(SELECT COUNT(*) FROM forum_comments fc WHERE fc.post_id = forum_posts.id) DESC")
	default:
		query = query.Order("is_stickied DESC, created_at DESC")
	}

	var posts []*domain.ForumPost
	err := query.Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

func (r *forumRepository) CountPosts(category string) (int64, error) {
	query := r.db.Model(&domain.ForumPost{})
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

func (r *forumRepository) FindPost(id string) (*domain.ForumPost, error) {
	var post domain.ForumPost
	if err := r.db.Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *forumRepository) CreatePost(post *domain.ForumPost) error {
	return r.db.Create(post).Error
}

func (r *forumRepository) Comments(postID string) ([]*domain.ForumComment, error) {
	var comments []*domain.ForumComment
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *forumRepository) FindComment(id string) (*domain.ForumComment, error) {
	var comment domain.ForumComment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *forumRepository) CreateComment(comment *domain.ForumComment) error {
	return r.db.Create(comment).Error
}

func (r *forumRepository) CountComments(postID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ForumComment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *forumRepository) CountReactions(targetType, targetID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.ForumReaction{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&n).Error
	return n, err
}

func (r *forumRepository) HasReacted(userID, targetType, targetID string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.ForumReaction{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&n).Error
	return n > 0, err
}

// ToggleReaction removes an existing reaction or creates one
func (r *forumRepository) ToggleReaction(userID, targetType, targetID string) (bool, error) {
	var added bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
			Delete(&domain.ForumReaction{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			added = false
			return nil
		}
		added = true
		return tx.Create(&domain.ForumReaction{
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
		}).Error
	})
	return added, err
}
