package controllers

import (
	"context"
	"net/http"

	"blogapi/models"
	"blogapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentController struct {
	db             *gorm.DB
	userService    *services.UserService
	postService    *services.PostService
	commentService *services.CommentService
	hubService     *services.HubService
}

func NewCommentController(db *gorm.DB, hubService *services.HubService) *CommentController {
	return &CommentController{
		db:             db,
		userService:    services.NewUserService(db),
		postService:    services.NewPostService(db),
		commentService: services.NewCommentService(db),
		hubService:     hubService,
	}
}

// CreateComment godoc
// @Summary      Comment on a published post
// @Tags         comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        slug  path  string                       true  "Post slug"
// @Param        body  body  models.CreateCommentRequest  true  "Comment"
// @Success      201   {object}  models.CommentResponse
// @Failure      404   {object}  map[string]string
// @Router       /posts/{slug}/comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := cc.postService.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	author, err := cc.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := cc.commentService.CreateComment(ctx, post, author, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.NewCommentResponse(comment)
	cc.hubService.Broadcast(models.EventCommentCreated, resp)
	if post.AuthorID != author.ID {
		cc.hubService.BroadcastToUser(post.AuthorID, models.EventCommentReceived, resp)
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetPostComments godoc
// @Summary      Approved comments of a published post
// @Tags         comments
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {array}  models.CommentResponse
// @Router       /posts/{slug}/comments [get]
func (cc *CommentController) GetPostComments(c *gin.Context) {
	ctx := c.Request.Context()
	post, err := cc.postService.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := cc.commentService.PostComments(ctx, post.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewCommentResponses(comments)})
}

// GetRecent godoc
// @Summary      Latest approved comments across published posts
// @Tags         comments
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of comments (default 10)"
// @Success      200  {array}  models.CommentResponse
// @Router       /comments/recent [get]
func (cc *CommentController) GetRecent(c *gin.Context) {
	comments, err := cc.commentService.RecentComments(c.Request.Context(), queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewCommentResponses(comments)})
}

// ApproveComment godoc
// @Summary      Approve a single comment
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  int  true  "Comment ID"
// @Success      200  {object}  models.CommentResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/comments/{id}/approve [post]
func (cc *CommentController) ApproveComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	comment, err := cc.commentService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err = cc.commentService.Approve(c.Request.Context(), comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewCommentResponse(comment)})
}

// ApproveComments godoc
// @Summary      Approve comments in bulk
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CommentIDsRequest  true  "Comment IDs"
// @Success      200   {object}  map[string]int
// @Router       /admin/comments/approve [post]
func (cc *CommentController) ApproveComments(c *gin.Context) {
	cc.moderate(c, cc.commentService.ApproveComments)
}

// UnapproveComments godoc
// @Summary      Withdraw approval from comments in bulk
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CommentIDsRequest  true  "Comment IDs"
// @Success      200   {object}  map[string]int
// @Router       /admin/comments/unapprove [post]
func (cc *CommentController) UnapproveComments(c *gin.Context) {
	cc.moderate(c, cc.commentService.UnapproveComments)
}

func (cc *CommentController) moderate(c *gin.Context, action func(ctx context.Context, ids []uint) (int64, error)) {
	var req models.CommentIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := action(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
