package models

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

const wordsPerMinute = 200

type Post struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Slug          string     `json:"slug" gorm:"size:200;uniqueIndex;not null"`
	AuthorID      uint       `json:"author_id" gorm:"not null;index"`
	Author        User       `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CategoryID    *uint      `json:"category_id" gorm:"index"`
	Category      *Category  `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Content       string     `json:"content" gorm:"type:text;not null"`
	Excerpt       string     `json:"excerpt" gorm:"size:500"`
	FeaturedImage string     `json:"featured_image"`
	Status        PostStatus `json:"status" gorm:"size:10;not null;default:draft;index"`
	IsFeatured    bool       `json:"is_featured" gorm:"default:false"`
	ViewsCount    int64      `json:"views_count" gorm:"not null;default:0"`
	Tags          []Tag      `json:"tags,omitempty" gorm:"many2many:post_tags;"`
	Comments      []Comment  `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at" gorm:"index"`
}

// BeforeSave fills the derived fields. The slug is derived once from the
// title, the excerpt whenever it is empty, and published_at the first time a
// post is stored as published.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Excerpt == "" {
		p.Excerpt = DeriveExcerpt(p.Content)
	}
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	if p.Status == PostStatusPublished && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	return nil
}

func (p *Post) String() string {
	return p.Title
}

func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// ReadingTime estimates minutes to read the content at 200 words per minute,
// never less than one.
func (p *Post) ReadingTime() int {
	words := len(strings.Fields(p.Content))
	minutes := int(math.RoundToEven(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

type CreatePostRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	CategoryID    *uint      `json:"category"`
	Content       string     `json:"content" binding:"required"`
	Excerpt       string     `json:"excerpt" binding:"max=500"`
	FeaturedImage string     `json:"featured_image"`
	Status        PostStatus `json:"status" binding:"omitempty,oneof=draft published"`
	IsFeatured    bool       `json:"is_featured"`
	Tags          []string   `json:"tags" binding:"omitempty,dive,max=50"`
}

// UpdatePostRequest is a partial update. Tags replaces the post's tag set when
// present, an empty list clears it.
type UpdatePostRequest struct {
	Title         *string     `json:"title" binding:"omitempty,max=200"`
	CategoryID    *uint       `json:"category"`
	Content       *string     `json:"content"`
	Excerpt       *string     `json:"excerpt" binding:"omitempty,max=500"`
	FeaturedImage *string     `json:"featured_image"`
	Status        *PostStatus `json:"status" binding:"omitempty,oneof=draft published"`
	IsFeatured    *bool       `json:"is_featured"`
	Tags          *[]string   `json:"tags" binding:"omitempty,dive,max=50"`
}

// PostFilter narrows the published post listing. Zero values mean no filter.
type PostFilter struct {
	CategorySlug string
	TagSlug      string
	AuthorID     uint
	Search       string
	FeaturedOnly bool
}

type PostListResponse struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	AuthorName     string     `json:"author_name"`
	AuthorUsername string     `json:"author_username"`
	CategoryName   string     `json:"category_name,omitempty"`
	Excerpt        string     `json:"excerpt"`
	FeaturedImage  string     `json:"featured_image"`
	Status         PostStatus `json:"status"`
	IsFeatured     bool       `json:"is_featured"`
	ViewsCount     int64      `json:"views_count"`
	CommentsCount  int64      `json:"comments_count"`
	ReadingTime    int        `json:"reading_time"`
	CreatedAt      time.Time  `json:"created_at"`
	PublishedAt    *time.Time `json:"published_at"`
}

type PostDetailResponse struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Slug           string             `json:"slug"`
	AuthorName     string             `json:"author_name"`
	AuthorUsername string             `json:"author_username"`
	AuthorAvatar   string             `json:"author_avatar"`
	Category       *CategoryResponse  `json:"category"`
	Content        string             `json:"content"`
	Excerpt        string             `json:"excerpt"`
	FeaturedImage  string             `json:"featured_image"`
	Tags           []TagResponse      `json:"tags"`
	IsFeatured     bool               `json:"is_featured"`
	ViewsCount     int64              `json:"views_count"`
	Comments       []CommentResponse  `json:"comments"`
	CommentsCount  int64              `json:"comments_count"`
	ReadingTime    int                `json:"reading_time"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	PublishedAt    *time.Time         `json:"published_at"`
	RelatedPosts   []PostListResponse `json:"related_posts"`
}

// Page is a paginated listing in the shape clients already expect:
// total count, links to the neighbouring pages and the current results.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func NewPostListResponse(p *Post, commentsCount int64) PostListResponse {
	resp := PostListResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		AuthorName:     p.Author.FullName(),
		AuthorUsername: p.Author.Username,
		Excerpt:        p.Excerpt,
		FeaturedImage:  p.FeaturedImage,
		Status:         p.Status,
		IsFeatured:     p.IsFeatured,
		ViewsCount:     p.ViewsCount,
		CommentsCount:  commentsCount,
		ReadingTime:    p.ReadingTime(),
		CreatedAt:      p.CreatedAt,
		PublishedAt:    p.PublishedAt,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}

// NewPostListResponses maps posts in order, looking up each comment count by
// post id. Missing ids count as zero.
func NewPostListResponses(posts []Post, commentCounts map[uint]int64) []PostListResponse {
	out := make([]PostListResponse, 0, len(posts))
	for i := range posts {
		out = append(out, NewPostListResponse(&posts[i], commentCounts[posts[i].ID]))
	}
	return out
}

func NewPostDetailResponse(p *Post, comments []Comment, categoryPosts int64, tagPosts map[uint]int64) PostDetailResponse {
	resp := PostDetailResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		AuthorName:     p.Author.FullName(),
		AuthorUsername: p.Author.Username,
		AuthorAvatar:   p.Author.Avatar,
		Content:        p.Content,
		Excerpt:        p.Excerpt,
		FeaturedImage:  p.FeaturedImage,
		Tags:           make([]TagResponse, 0, len(p.Tags)),
		IsFeatured:     p.IsFeatured,
		ViewsCount:     p.ViewsCount,
		Comments:       make([]CommentResponse, 0, len(comments)),
		CommentsCount:  int64(len(comments)),
		ReadingTime:    p.ReadingTime(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		PublishedAt:    p.PublishedAt,
		RelatedPosts:   []PostListResponse{},
	}
	if p.Category != nil {
		category := NewCategoryResponse(p.Category, categoryPosts)
		resp.Category = &category
	}
	for i := range p.Tags {
		resp.Tags = append(resp.Tags, NewTagResponse(&p.Tags[i], tagPosts[p.Tags[i].ID]))
	}
	for i := range comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&comments[i]))
	}
	return resp
}
