package handler

import (
	"net/http"

	"github.com/driftzo/echoroom-backend/internal/common"
	"github.com/driftzo/echoroom-backend/internal/domain"
	"github.com/driftzo/echoroom-backend/internal/middleware"
	"github.com/driftzo/echoroom-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ForumHandler community forum HTTP handlers
type ForumHandler struct {
	forumService service.ForumService
}

// NewForumHandler creates a new ForumHandler
func NewForumHandler(forumService service.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

// Categories returns the forum category slugs and labels
// @Router /api/forum/categories [get]
func (h *ForumHandler) Categories(c *gin.Context) {
	common.SuccessResponse(c, domain.ForumCategories, nil)
}

// ListPosts returns the forum listing
// @Router /api/forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	limit, offset := pagination(c)
	posts, total, err := h.forumService.ListPosts(
		c.Query("category"), c.Query("search"), c.Query("sort"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, posts, &common.Meta{Limit: limit, Offset: offset, Total: total})
}

// GetPost returns one post with its comments
// @Router /api/forum/posts/{id} [get]
func (h *ForumHandler) GetPost(c *gin.Context) {
	detail, err := h.forumService.GetPost(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, detail, nil)
}

// CreatePost publishes a new thread
// @Router /api/forum/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	post, err := h.forumService.CreatePost(middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: post})
}

// AddComment replies to a post
// @Router /api/forum/posts/{id}/comments [post]
func (h *ForumHandler) AddComment(c *gin.Context) {
	var req domain.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	comment, err := h.forumService.AddComment(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.APIResponse{Data: comment})
}

// UpvotePost toggles the caller's upvote on a post
// @Router /api/forum/posts/{id}/upvote [post]
func (h *ForumHandler) UpvotePost(c *gin.Context) {
	upvoted, count, err := h.forumService.TogglePostUpvote(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"upvoted": upvoted, "upvotes": count}, nil)
}

// UpvoteComment toggles the caller's upvote on a comment
// @Router /api/forum/comments/{id}/upvote [post]
func (h *ForumHandler) UpvoteComment(c *gin.Context) {
	upvoted, count, err := h.forumService.ToggleCommentUpvote(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"upvoted": upvoted, "upvotes": count}, nil)
}
