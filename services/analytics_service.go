package services

import (
	"context"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
)

const (
	DefaultPopularLimit = 10
	DefaultRecentLimit  = 10
)

// BlogStats is computed fresh on every call.
type BlogStats struct {
	TotalPosts      int64 `json:"total_posts"`
	TotalCategories int64 `json:"total_categories"`
	TotalTags       int64 `json:"total_tags"`
	TotalViews      int64 `json:"total_views"`
	TotalComments   int64 `json:"total_comments"`
}

type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: utcNow}
}

func (s *AnalyticsService) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Post{}).Scopes(publishedScope(s.now()))
}

func (s *AnalyticsService) publishedIDs(ctx context.Context) *gorm.DB {
	return s.published(ctx).Select("posts.id")
}

func (s *AnalyticsService) BlogStats(ctx context.Context) (*BlogStats, error) {
	var stats BlogStats

	if err := s.published(ctx).Count(&stats.TotalPosts).Error; err != nil {
		return nil, err
	}

	err := s.published(ctx).
		Where("posts.category_id IS NOT NULL").
		Distinct("posts.category_id").
		Count(&stats.TotalCategories).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Table("post_tags").
		Where("post_tags.post_id IN (?)", s.publishedIDs(ctx)).
		Distinct("post_tags.tag_id").
		Count(&stats.TotalTags).Error
	if err != nil {
		return nil, err
	}

	err = s.published(ctx).
		Select("CAST(COALESCE(SUM(posts.views_count), 0) AS BIGINT)").
		Scan(&stats.TotalViews).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("comments.is_approved = ? AND comments.post_id IN (?)", true, s.publishedIDs(ctx)).
		Count(&stats.TotalComments).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// PopularPosts orders by views, most viewed first. Equal view counts fall
// back to id order so the result is deterministic.
func (s *AnalyticsService) PopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	var posts []models.Post
	err := s.published(ctx).
		Scopes(withPostRelations).
		Order("posts.views_count DESC").
		Order("posts.id ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (s *AnalyticsService) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var posts []models.Post
	err := s.published(ctx).
		Scopes(latestFirst, withPostRelations).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CategoryStats reports published post count and summed views per category,
// skipping categories with no published posts, largest first.
func (s *AnalyticsService) CategoryStats(ctx context.Context) ([]models.CategoryStat, error) {
	stats := make([]models.CategoryStat, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, categories.slug, COUNT(posts.id) AS posts_count, CAST(COALESCE(SUM(posts.views_count), 0) AS BIGINT) AS total_views").
		Joins("JOIN posts ON posts.category_id = categories.id AND posts.status = ? AND posts.published_at <= ?",
			models.PostStatusPublished, s.now()).
		Group("categories.id, categories.name, categories.slug").
		Having("COUNT(posts.id) > 0").
		Order("posts_count DESC").
		Order("categories.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
