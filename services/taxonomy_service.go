package services

import (
	"context"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
)

type TaxonomyService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaxonomyService(db *gorm.DB) *TaxonomyService {
	return &TaxonomyService{db: db, now: utcNow}
}

type idCount struct {
	ID    uint
	Count int64
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]models.Category, map[uint]int64, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, nil, err
	}

	counts, err := s.CategoryPostCounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, counts, nil
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]models.Tag, map[uint]int64, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, nil, err
	}

	counts, err := s.TagPostCounts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tags, counts, nil
}

// CategoryPostCounts maps category id to its number of published posts,
// restricted to categoryIDs when any are given. Categories without published
// posts are absent.
func (s *TaxonomyService) CategoryPostCounts(ctx context.Context, categoryIDs ...uint) (map[uint]int64, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(s.now())).
		Select("posts.category_id AS id, COUNT(*) AS count").
		Where("posts.category_id IS NOT NULL")
	if len(categoryIDs) > 0 {
		query = query.Where("posts.category_id IN ?", categoryIDs)
	}

	var rows []idCount
	err := query.Group("posts.category_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

// TagPostCounts maps tag id to its number of published posts, restricted to
// tagIDs when any are given.
func (s *TaxonomyService) TagPostCounts(ctx context.Context, tagIDs ...uint) (map[uint]int64, error) {
	published := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(s.now())).
		Select("posts.id")

	query := s.db.WithContext(ctx).
		Table("post_tags").
		Select("post_tags.tag_id AS id, COUNT(*) AS count").
		Where("post_tags.post_id IN (?)", published)
	if len(tagIDs) > 0 {
		query = query.Where("post_tags.tag_id IN ?", tagIDs)
	}

	var rows []idCount
	err := query.Group("post_tags.tag_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

// CreateCategory stores a category. A duplicate name or slug is rejected by
// the store's unique indexes and returned unchanged.
func (s *TaxonomyService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaxonomyService) CreateTag(ctx context.Context, req *models.CreateTagRequest) (*models.Tag, error) {
	tag := &models.Tag{Name: req.Name, Slug: req.Slug}
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// GetOrCreateTag returns the tag named name, creating it on first use.
func (s *TaxonomyService) GetOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	return getOrCreateTag(s.db.WithContext(ctx), name)
}

func toCountMap(rows []idCount) map[uint]int64 {
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts
}
