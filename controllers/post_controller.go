package controllers

import (
	"net/http"
	"strconv"

	"blogapi/models"
	"blogapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostController struct {
	db              *gorm.DB
	pageSize        int
	userService     *services.UserService
	postService     *services.PostService
	commentService  *services.CommentService
	taxonomyService *services.TaxonomyService
	recommendations *services.RecommendationService
	analytics       *services.AnalyticsService
	hubService      *services.HubService
}

func NewPostController(db *gorm.DB, pageSize int, hubService *services.HubService) *PostController {
	return &PostController{
		db:              db,
		pageSize:        pageSize,
		userService:     services.NewUserService(db),
		postService:     services.NewPostService(db),
		commentService:  services.NewCommentService(db),
		taxonomyService: services.NewTaxonomyService(db),
		recommendations: services.NewRecommendationService(db),
		analytics:       services.NewAnalyticsService(db),
		hubService:      hubService,
	}
}

// postList renders posts in list shape with their approved comment counts.
func postList(c *gin.Context, comments *services.CommentService, posts []models.Post) ([]models.PostListResponse, error) {
	ids := make([]uint, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	counts, err := comments.ApprovedCounts(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	return models.NewPostListResponses(posts, counts), nil
}

func (pc *PostController) respondPosts(c *gin.Context, posts []models.Post, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := postList(c, pc.commentService, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// ListPosts godoc
// @Summary      List published posts
// @Description  Filters combine; every one that is set must match.
// @Tags         posts
// @Produce      json
// @Param        category   query  string  false  "Category slug"
// @Param        tag        query  string  false  "Tag slug"
// @Param        author     query  int     false  "Author ID"
// @Param        search     query  string  false  "Substring of title, content or excerpt"
// @Param        featured   query  bool    false  "Only featured posts"
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Success      200  {object}  models.Page[models.PostListResponse]
// @Router       /posts [get]
func (pc *PostController) ListPosts(c *gin.Context) {
	filter := models.PostFilter{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Search:       c.Query("search"),
		FeaturedOnly: queryBool(c, "featured"),
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author"})
			return
		}
		filter.AuthorID = uint(id)
	}

	page, size := pagination(c, pc.pageSize)
	posts, total, err := pc.postService.ListPosts(c.Request.Context(), filter, page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := postList(c, pc.commentService, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, data, total, page, size))
}

// SearchPosts godoc
// @Summary      Search published posts
// @Tags         posts
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {array}  models.PostListResponse
// @Router       /posts/search [get]
func (pc *PostController) SearchPosts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"data": []models.PostListResponse{}})
		return
	}
	posts, err := pc.postService.Search(c.Request.Context(), query)
	pc.respondPosts(c, posts, err)
}

// GetFeatured godoc
// @Summary      Featured posts
// @Tags         posts
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of posts (default 5)"
// @Success      200  {array}  models.PostListResponse
// @Router       /posts/featured [get]
func (pc *PostController) GetFeatured(c *gin.Context) {
	posts, err := pc.postService.FeaturedPosts(c.Request.Context(), queryLimit(c))
	pc.respondPosts(c, posts, err)
}

// GetPopular godoc
// @Summary      Most viewed posts
// @Tags         posts
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of posts (default 10)"
// @Success      200  {array}  models.PostListResponse
// @Router       /posts/popular [get]
func (pc *PostController) GetPopular(c *gin.Context) {
	posts, err := pc.analytics.PopularPosts(c.Request.Context(), queryLimit(c))
	pc.respondPosts(c, posts, err)
}

// GetRecent godoc
// @Summary      Most recently published posts
// @Tags         posts
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of posts (default 10)"
// @Success      200  {array}  models.PostListResponse
// @Router       /posts/recent [get]
func (pc *PostController) GetRecent(c *gin.Context) {
	posts, err := pc.analytics.RecentPosts(c.Request.Context(), queryLimit(c))
	pc.respondPosts(c, posts, err)
}

// GetMine godoc
// @Summary      The current user's posts, drafts included
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  models.PostListResponse
// @Router       /posts/mine [get]
func (pc *PostController) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	posts, err := pc.postService.MyPosts(c.Request.Context(), userID)
	pc.respondPosts(c, posts, err)
}

// GetPost godoc
// @Summary      Post detail
// @Description  Counts a view, then returns the post with approved comments and related posts.
// @Tags         posts
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  models.PostDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug} [get]
func (pc *PostController) GetPost(c *gin.Context) {
	ctx := c.Request.Context()

	post, err := pc.postService.GetPublishedBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := pc.postService.IncrementViews(ctx, post); err != nil {
		respondError(c, err)
		return
	}

	comments, err := pc.commentService.PostComments(ctx, post.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	var categoryPosts int64
	if post.CategoryID != nil {
		categoryCounts, err := pc.taxonomyService.CategoryPostCounts(ctx, *post.CategoryID)
		if err != nil {
			respondError(c, err)
			return
		}
		categoryPosts = categoryCounts[*post.CategoryID]
	}

	tagCounts := map[uint]int64{}
	if len(post.Tags) > 0 {
		tagIDs := make([]uint, 0, len(post.Tags))
		for _, tag := range post.Tags {
			tagIDs = append(tagIDs, tag.ID)
		}
		tagCounts, err = pc.taxonomyService.TagPostCounts(ctx, tagIDs...)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	resp := models.NewPostDetailResponse(post, comments, categoryPosts, tagCounts)

	related, err := pc.recommendations.RelatedPosts(ctx, post, services.DefaultRelatedLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.RelatedPosts, err = postList(c, pc.commentService, related)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// CreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreatePostRequest  true  "Post"
// @Success      201   {object}  models.PostListResponse
// @Failure      409   {object}  map[string]string
// @Router       /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	author, err := pc.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := pc.postService.CreatePost(c.Request.Context(), author, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.NewPostListResponse(post, 0)
	if post.IsPublished() {
		pc.hubService.Broadcast(models.EventPostPublished, resp)
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// UpdatePost godoc
// @Summary      Update one of the current user's posts
// @Tags         posts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        slug  path  string                    true  "Post slug"
// @Param        body  body  models.UpdatePostRequest  true  "Fields to change"
// @Success      200   {object}  models.PostListResponse
// @Failure      404   {object}  map[string]string
// @Router       /posts/{slug} [patch]
func (pc *PostController) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := pc.postService.UpdatePost(c.Request.Context(), userID, c.Param("slug"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	counts, err := pc.commentService.ApprovedCounts(c.Request.Context(), []uint{post.ID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": models.NewPostListResponse(post, counts[post.ID])})
}

// DeletePost godoc
// @Summary      Delete one of the current user's posts
// @Tags         posts
// @Security     BearerAuth
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{slug} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := pc.postService.DeletePost(c.Request.Context(), userID, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// PublishPost godoc
// @Summary      Publish one of the current user's posts
// @Description  Stamps published_at with the current time, also when the post was already published.
// @Tags         posts
// @Security     BearerAuth
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200  {object}  models.PostListResponse
// @Router       /posts/{slug}/publish [post]
func (pc *PostController) PublishPost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post, err := pc.postService.PublishOwned(c.Request.Context(), userID, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	counts, err := pc.commentService.ApprovedCounts(c.Request.Context(), []uint{post.ID})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.NewPostListResponse(post, counts[post.ID])
	pc.hubService.Broadcast(models.EventPostPublished, resp)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ResetViews godoc
// @Summary      Reset a post's view counter
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/posts/{id}/reset-views [post]
func (pc *PostController) ResetViews(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.postService.ResetViews(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "View count reset"})
}
