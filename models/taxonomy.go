package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `json:"-" gorm:"foreignKey:CategoryID"`
}

type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	Posts     []Post    `json:"-" gorm:"many2many:post_tags;"`
}

// BeforeSave derives the slug from the name the first time the category is
// stored. An existing slug is never rewritten.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

func (c *Category) String() string {
	return c.Name
}

func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	return nil
}

func (t *Tag) String() string {
	return t.Name
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
	Description string `json:"description"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=50"`
	Slug string `json:"slug" binding:"omitempty,max=50"`
}

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PostsCount  int64     `json:"posts_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type TagResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	PostsCount int64     `json:"posts_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// CategoryStat is one row of the per-category analytics breakdown.
type CategoryStat struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PostsCount int64  `json:"posts_count"`
	TotalViews int64  `json:"total_views"`
}

func NewCategoryResponse(c *Category, postsCount int64) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		PostsCount:  postsCount,
		CreatedAt:   c.CreatedAt,
	}
}

func NewTagResponse(t *Tag, postsCount int64) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		Slug:       t.Slug,
		PostsCount: postsCount,
		CreatedAt:  t.CreatedAt,
	}
}
