package controllers

import (
	"net/http"

	"blogapi/models"
	"blogapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaxonomyController struct {
	db              *gorm.DB
	taxonomyService *services.TaxonomyService
	postService     *services.PostService
	commentService  *services.CommentService
}

func NewTaxonomyController(db *gorm.DB) *TaxonomyController {
	return &TaxonomyController{
		db:              db,
		taxonomyService: services.NewTaxonomyService(db),
		postService:     services.NewPostService(db),
		commentService:  services.NewCommentService(db),
	}
}

// GetCategories godoc
// @Summary      List categories with their published post counts
// @Tags         categories
// @Produce      json
// @Success      200  {array}  models.CategoryResponse
// @Router       /categories [get]
func (tc *TaxonomyController) GetCategories(c *gin.Context) {
	categories, counts, err := tc.taxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]models.CategoryResponse, 0, len(categories))
	for i := range categories {
		data = append(data, models.NewCategoryResponse(&categories[i], counts[categories[i].ID]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreateCategoryRequest  true  "Category"
// @Success      201   {object}  models.CategoryResponse
// @Failure      409   {object}  map[string]string
// @Router       /categories [post]
func (tc *TaxonomyController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := tc.taxonomyService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": models.NewCategoryResponse(category, 0)})
}

// GetCategoryPosts godoc
// @Summary      Published posts in a category
// @Tags         categories
// @Produce      json
// @Param        slug  path  string  true  "Category slug"
// @Success      200  {array}  models.PostListResponse
// @Router       /categories/{slug}/posts [get]
func (tc *TaxonomyController) GetCategoryPosts(c *gin.Context) {
	posts, err := tc.postService.PostsByCategory(c.Request.Context(), c.Param("slug"))
	tc.respondPosts(c, posts, err)
}

// GetTags godoc
// @Summary      List tags with their published post counts
// @Tags         tags
// @Produce      json
// @Success      200  {array}  models.TagResponse
// @Router       /tags [get]
func (tc *TaxonomyController) GetTags(c *gin.Context) {
	tags, counts, err := tc.taxonomyService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	data := make([]models.TagResponse, 0, len(tags))
	for i := range tags {
		data = append(data, models.NewTagResponse(&tags[i], counts[tags[i].ID]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// CreateTag godoc
// @Summary      Create a tag
// @Tags         tags
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  models.CreateTagRequest  true  "Tag"
// @Success      201   {object}  models.TagResponse
// @Failure      409   {object}  map[string]string
// @Router       /tags [post]
func (tc *TaxonomyController) CreateTag(c *gin.Context) {
	var req models.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tag, err := tc.taxonomyService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": models.NewTagResponse(tag, 0)})
}

// GetTagPosts godoc
// @Summary      Published posts with a tag
// @Tags         tags
// @Produce      json
// @Param        slug  path  string  true  "Tag slug"
// @Success      200  {array}  models.PostListResponse
// @Router       /tags/{slug}/posts [get]
func (tc *TaxonomyController) GetTagPosts(c *gin.Context) {
	posts, err := tc.postService.PostsByTag(c.Request.Context(), c.Param("slug"))
	tc.respondPosts(c, posts, err)
}

func (tc *TaxonomyController) respondPosts(c *gin.Context, posts []models.Post, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	data, err := postList(c, tc.commentService, posts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}
