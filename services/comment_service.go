package services

import (
	"context"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultRecentCommentsLimit = 10

type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, now: utcNow}
}

// CreateComment stores an approved comment. Comments are visible right away;
// moderation happens afterwards by revoking approval.
func (s *CommentService) CreateComment(ctx context.Context, post *models.Post, author *models.User, content string) (*models.Comment, error) {
	if !post.IsPublished() {
		return nil, ErrNotPublished
	}

	comment := &models.Comment{
		PostID:     post.ID,
		AuthorID:   author.ID,
		Content:    content,
		IsApproved: true,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}

	comment.Post = *post
	comment.Author = *author
	return comment, nil
}

func (s *CommentService) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) Approve(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	err := s.db.WithContext(ctx).
		Model(comment).
		Update("is_approved", true).Error
	if err != nil {
		return nil, err
	}
	comment.IsApproved = true
	return comment, nil
}

// ApproveComments and UnapproveComments are bulk moderation actions. They
// return the number of comments matched.
func (s *CommentService) ApproveComments(ctx context.Context, ids []uint) (int64, error) {
	return s.setApproved(ctx, ids, true)
}

func (s *CommentService) UnapproveComments(ctx context.Context, ids []uint) (int64, error) {
	return s.setApproved(ctx, ids, false)
}

func (s *CommentService) setApproved(ctx context.Context, ids []uint, approved bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id IN ?", ids).
		Update("is_approved", approved)
	return result.RowsAffected, result.Error
}

// RecentComments lists approved comments on published posts, newest first.
func (s *CommentService) RecentComments(ctx context.Context, limit int) ([]models.Comment, error) {
	if limit <= 0 {
		limit = DefaultRecentCommentsLimit
	}

	published := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(publishedScope(s.now())).
		Select("posts.id")

	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Post").
		Where("comments.is_approved = ? AND comments.post_id IN (?)", true, published).
		Order("comments.created_at DESC").
		Order("comments.id DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// PostComments lists the approved comments of a post in the order they were
// written.
func (s *CommentService) PostComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND is_approved = ?", postID, true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// ApprovedCounts maps post id to its number of approved comments. Posts with
// none are absent.
func (s *CommentService) ApprovedCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	if len(postIDs) == 0 {
		return map[uint]int64{}, nil
	}

	var rows []idCount
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id AS id, COUNT(*) AS count").
		Where("post_id IN ? AND is_approved = ?", postIDs, true).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}
