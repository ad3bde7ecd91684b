package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultFeaturedLimit = 5
	DefaultPageSize      = 10
	// MaxPage bounds page numbers so offsets cannot overflow.
	MaxPage = 100000
)

type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// publishedQuery is the base set for every public listing: published posts
// whose publish time has passed.
func (s *PostService) publishedQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Post{}).Scopes(publishedScope(s.now()))
}

func (s *PostService) findPublished(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Post, error) {
	var posts []models.Post
	err := s.publishedQuery(ctx).
		Scopes(scopes...).
		Scopes(latestFirst, withPostRelations).
		Find(&posts).Error
	return posts, err
}

func (s *PostService) PublishedPosts(ctx context.Context) ([]models.Post, error) {
	return s.findPublished(ctx)
}

func (s *PostService) PostsByCategory(ctx context.Context, categorySlug string) ([]models.Post, error) {
	return s.findPublished(ctx, categorySlugScope(categorySlug))
}

func (s *PostService) PostsByTag(ctx context.Context, tagSlug string) ([]models.Post, error) {
	return s.findPublished(ctx, tagSlugScope(tagSlug))
}

func (s *PostService) PostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.findPublished(ctx, authorScope(authorID))
}

// Search is a plain substring match, not a ranked full-text search. Results
// keep the default latest-first ordering.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.findPublished(ctx, searchScope(query))
}

func (s *PostService) FeaturedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	return s.findPublished(ctx, featuredScope, limitScope(limit))
}

// ListPosts returns one page of published posts matching every filter set in
// filter, along with the total number of matches.
func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter, page, pageSize int) ([]models.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	var total int64
	if err := s.publishedQuery(ctx).Scopes(filterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts, err := s.findPublished(ctx, filterScope(filter), func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPublishedBySlug returns gorm.ErrRecordNotFound for unknown slugs and for
// posts that are not publicly visible yet.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := s.publishedQuery(ctx).
		Scopes(withPostRelations).
		Where("posts.slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Scopes(withPostRelations).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) getOwned(ctx context.Context, authorID uint, slug string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Scopes(withPostRelations).
		Where("author_id = ? AND slug = ?", authorID, slug).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// MyPosts lists every post by the author regardless of status, newest first.
func (s *PostService) MyPosts(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(authorScope(authorID), withPostRelations).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	return posts, err
}

func (s *PostService) CreatePost(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:         req.Title,
		AuthorID:      author.ID,
		CategoryID:    req.CategoryID,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		IsFeatured:    req.IsFeatured,
	}
	if post.Status == models.PostStatusPublished {
		now := s.now()
		post.PublishedAt = &now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := getOrCreateTags(tx, req.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags
		return tx.Omit("Author", "Category").Create(post).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, post.ID)
}

// UpdatePost applies a partial update to one of the author's posts. A move
// from draft to published stamps published_at; clearing the excerpt makes it
// derive again from the content.
func (s *PostService) UpdatePost(ctx context.Context, authorID uint, slug string, req *models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.getOwned(ctx, authorID, slug)
	if err != nil {
		return nil, err
	}

	wasPublished := post.IsPublished()
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.CategoryID != nil {
		post.CategoryID = req.CategoryID
		post.Category = nil
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = *req.FeaturedImage
	}
	if req.Status != nil {
		post.Status = *req.Status
	}
	if req.IsFeatured != nil {
		post.IsFeatured = *req.IsFeatured
	}
	if !wasPublished && post.IsPublished() {
		now := s.now()
		post.PublishedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations, "views_count").Save(post).Error; err != nil {
			return err
		}
		if req.Tags == nil {
			return nil
		}
		tags, err := getOrCreateTags(tx, *req.Tags)
		if err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, post.ID)
}

// DeletePost removes one of the author's posts together with its comments
// and tag links. The slug becomes free for reuse.
func (s *PostService) DeletePost(ctx context.Context, authorID uint, slug string) error {
	post, err := s.getOwned(ctx, authorID, slug)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

// Publish marks the post published and stamps published_at with the current
// time. Calling it again on a published post moves published_at forward.
func (s *PostService) Publish(ctx context.Context, post *models.Post) (*models.Post, error) {
	now := s.now()
	err := s.db.WithContext(ctx).
		Model(post).
		Updates(map[string]interface{}{
			"status":       models.PostStatusPublished,
			"published_at": now,
		}).Error
	if err != nil {
		return nil, err
	}

	post.Status = models.PostStatusPublished
	post.PublishedAt = &now
	return post, nil
}

func (s *PostService) PublishOwned(ctx context.Context, authorID uint, slug string) (*models.Post, error) {
	post, err := s.getOwned(ctx, authorID, slug)
	if err != nil {
		return nil, err
	}
	return s.Publish(ctx, post)
}

// IncrementViews bumps the counter inside the store so concurrent readers
// never lose an increment. The in-memory post is updated to match.
func (s *PostService) IncrementViews(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	if err != nil {
		return err
	}
	post.ViewsCount++
	return nil
}

// ResetViews is the administrative escape hatch for the otherwise
// monotonic view counter.
func (s *PostService) ResetViews(ctx context.Context, postID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("views_count", 0)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func limitScope(limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit)
	}
}

// getOrCreateTags resolves tag names, creating missing tags. Names are
// trimmed, blanks skipped and duplicates collapsed.
func getOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := getOrCreateTag(tx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func getOrCreateTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}
