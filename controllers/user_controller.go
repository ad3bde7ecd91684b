package controllers

import (
	"net/http"

	"blogapi/models"
	"blogapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserController struct {
	db          *gorm.DB
	userService *services.UserService
	postService *services.PostService
	comments    *services.CommentService
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		db:          db,
		userService: services.NewUserService(db),
		postService: services.NewPostService(db),
		comments:    services.NewCommentService(db),
	}
}

// GetUsers godoc
// @Summary      List active users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.UserListResponse
// @Router       /users [get]
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.userService.ListActiveUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]models.UserListResponse, 0, len(users))
	for i := range users {
		data = append(data, models.NewUserListResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// UpdateProfile godoc
// @Summary      Update the current user's profile
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.UpdateProfileRequest  true  "Fields to change"
// @Success      200   {object}  models.UserProfileResponse
// @Router       /users/profile [patch]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewUserProfileResponse(user)})
}

// GetStats godoc
// @Summary      Current user's statistics
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  models.UserStats
// @Router       /users/stats [get]
func (uc *UserController) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := uc.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := uc.userService.Stats(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetUserPosts godoc
// @Summary      Published posts by one author
// @Tags         users
// @Produce      json
// @Param        id   path  int  true  "User ID"
// @Success      200  {array}  models.PostListResponse
// @Router       /users/{id}/posts [get]
func (uc *UserController) GetUserPosts(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	posts, err := uc.postService.PostsByAuthor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := postList(c, uc.comments, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
