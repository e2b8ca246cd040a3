package service

import (
	"errors"
	"strings"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/repository"
	"gorm.io/gorm"
)

const forumExcerptMax = 160

// ForumService community forum business logic
type ForumService interface {
	ListPosts(category, search, sort string, limit, offset int) ([]*domain.PostSummary, int64, error)
	GetPost(callerID, postID string) (*domain.PostDetail, error)
	CreatePost(userID string, req *domain.CreatePostRequest) (*domain.PostSummary, error)
	AddComment(userID, postID string, req *domain.AddCommentRequest) (*domain.CommentResponse, error)
	TogglePostUpvote(userID, postID string) (upvoted bool, count int64, err error)
	ToggleCommentUpvote(userID, commentID string) (upvoted bool, count int64, err error)
}

const (
	targetPost    = "post"
	targetComment = "comment"
)

type forumService struct {
	forumRepo repository.ForumRepository
}

// NewForumService creates a new ForumService
func NewForumService(forumRepo repository.ForumRepository) ForumService {
	return &forumService{forumRepo: forumRepo}
}

func (s *forumService) ListPosts(category, search, sort string, limit, offset int) ([]*domain.PostSummary, int64, error) {
	limit, offset = clampPage(limit, offset)
	posts, total, err := s.forumRepo.ListPosts(category, search, sort, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*domain.PostSummary, 0, len(posts))
	for _, post := range posts {
		summary, err := s.summarize(post)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, summary)
	}
	return out, total, nil
}

func (s *forumService) summarize(post *domain.ForumPost) (*domain.PostSummary, error) {
	replies, err := s.forumRepo.CountComments(post.ID)
	if err != nil {
		return nil, err
	}
	upvotes, err := s.forumRepo.CountReactions(targetPost, post.ID)
	if err != nil {
		return nil, err
	}

	summary := &domain.PostSummary{
		ID:            post.ID,
		Title:         post.Title,
		Excerpt:       domain.Summarize(post.Content, forumExcerptMax),
		Category:      post.Category,
		CategoryLabel: domain.ForumCategories[post.Category],
		Tags:          domain.SplitCSV(post.Tags),
		IsStickied:    post.IsStickied,
		AuthorID:      post.UserID,
		Replies:       replies,
		Upvotes:       upvotes,
		LastActivity:  post.UpdatedAt,
		CreatedAt:     post.CreatedAt,
	}
	if post.User != nil {
		pub := post.User.ToPublic()
		summary.Author = pub.Username
		summary.AuthorAvatar = pub.Avatar
	}
	return summary, nil
}

func (s *forumService) GetPost(callerID, postID string) (*domain.PostDetail, error) {
	post, err := s.forumRepo.FindPost(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	summary, err := s.summarize(post)
	if err != nil {
		return nil, err
	}
	upvoted, err := s.forumRepo.HasReacted(callerID, targetPost, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.forumRepo.Comments(postID)
	if err != nil {
		return nil, err
	}
	responses := make([]*domain.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp := &domain.CommentResponse{
			ID:        c.ID,
			Content:   c.Content,
			AuthorID:  c.UserID,
			CreatedAt: c.CreatedAt,
		}
		if c.User != nil {
			pub := c.User.ToPublic()
			resp.Author = pub.Username
			resp.AuthorAvatar = pub.Avatar
		}
		if resp.Upvotes, err = s.forumRepo.CountReactions(targetComment, c.ID); err != nil {
			return nil, err
		}
		if resp.Upvoted, err = s.forumRepo.HasReacted(callerID, targetComment, c.ID); err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	return &domain.PostDetail{
		PostSummary: *summary,
		Content:     post.Content,
		Upvoted:     upvoted,
		Comments:    responses,
	}, nil
}

func (s *forumService) CreatePost(userID string, req *domain.CreatePostRequest) (*domain.PostSummary, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, common.ErrInvalidInput
	}
	if _, ok := domain.ForumCategories[req.Category]; !ok {
		return nil, common.ErrInvalidInput
	}

	post := &domain.ForumPost{
		UserID:   userID,
		Title:    title,
		Content:  content,
		Category: req.Category,
		Tags:     domain.JoinCSV(req.Tags),
	}
	if err := s.forumRepo.CreatePost(post); err != nil {
		return nil, err
	}

	created, err := s.forumRepo.FindPost(post.ID)
	if err != nil {
		return nil, err
	}
	return s.summarize(created)
}

func (s *forumService) AddComment(userID, postID string, req *domain.AddCommentRequest) (*domain.CommentResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	if _, err := s.forumRepo.FindPost(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	comment := &domain.ForumComment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.forumRepo.CreateComment(comment); err != nil {
		return nil, err
	}

	return &domain.CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		AuthorID:  userID,
		CreatedAt: comment.CreatedAt,
	}, nil
}

func (s *forumService) TogglePostUpvote(userID, postID string) (bool, int64, error) {
	if _, err := s.forumRepo.FindPost(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, common.ErrNotFound
		}
		return false, 0, err
	}
	return s.toggle(userID, targetPost, postID)
}

func (s *forumService) ToggleCommentUpvote(userID, commentID string) (bool, int64, error) {
	if _, err := s.forumRepo.FindComment(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, common.ErrNotFound
		}
		return false, 0, err
	}
	return s.toggle(userID, targetComment, commentID)
}

func (s *forumService) toggle(userID, targetType, targetID string) (bool, int64, error) {
	added, err := s.forumRepo.ToggleReaction(userID, targetType, targetID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.forumRepo.CountReactions(targetType, targetID)
	if err != nil {
		return false, 0, err
	}
	return added, count, nil
}
