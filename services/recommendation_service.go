package services

import (
	"context"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
)

const DefaultRelatedLimit = 5

type RecommendationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db, now: utcNow}
}

// RelatedPosts walks a fixed sequence of candidate sets: same category, shared
// tags, same author, then most recent. The first set that fills the limit on
// its own wins; sets are never merged. The last set is returned even when it
// is short.
func (s *RecommendationService) RelatedPosts(ctx context.Context, post *models.Post, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	if post.CategoryID != nil {
		posts, err := s.candidates(ctx, post.ID, limit, func(db *gorm.DB) *gorm.DB {
			return db.Where("posts.category_id = ?", *post.CategoryID)
		})
		if err != nil || len(posts) == limit {
			return posts, err
		}
	}

	tagIDs, err := s.tagIDs(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) > 0 {
		posts, err := s.candidates(ctx, post.ID, limit, tagIDsScope(tagIDs))
		if err != nil || len(posts) == limit {
			return posts, err
		}
	}

	posts, err := s.candidates(ctx, post.ID, limit, authorScope(post.AuthorID))
	if err != nil || len(posts) == limit {
		return posts, err
	}

	return s.candidates(ctx, post.ID, limit)
}

func (s *RecommendationService) candidates(ctx context.Context, excludeID uint, limit int, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(s.now())).
		Scopes(scopes...).
		Where("posts.id <> ?", excludeID).
		Scopes(latestFirst, withPostRelations).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (s *RecommendationService) tagIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("post_tags").
		Where("post_id = ?", postID).
		Pluck("tag_id", &ids).Error
	return ids, err
}
