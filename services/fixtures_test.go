package services

import (
	"fmt"
	"testing"
	"time"

	"blogapi/database"
	"blogapi/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	now time.Time
	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t, db: database.NewTestDB(t), now: time.Now().UTC()}
}

func (f *fixture) next() int {
	f.seq++
	return f.seq
}

func (f *fixture) user(username string) *models.User {
	f.t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		Password:  "testpass123",
		FirstName: "Test",
		LastName:  "User",
		IsActive:  true,
	}
	require.NoError(f.t, user.HashPassword())
	require.NoError(f.t, f.db.Create(user).Error)
	return user
}

func (f *fixture) category(name string) *models.Category {
	f.t.Helper()
	category := &models.Category{Name: name}
	require.NoError(f.t, f.db.Create(category).Error)
	return category
}

func (f *fixture) tag(name string) *models.Tag {
	f.t.Helper()
	tag := &models.Tag{Name: name}
	require.NoError(f.t, f.db.Create(tag).Error)
	return tag
}

type postOption func(*models.Post)

func inCategory(c *models.Category) postOption {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func withTags(tags ...*models.Tag) postOption {
	return func(p *models.Post) {
		for _, tag := range tags {
			p.Tags = append(p.Tags, *tag)
		}
	}
}

func publishedAgo(d time.Duration) postOption {
	return func(p *models.Post) {
		at := time.Now().UTC().Add(-d)
		p.Status = models.PostStatusPublished
		p.PublishedAt = &at
	}
}

func draft() postOption {
	return func(p *models.Post) {
		p.Status = models.PostStatusDraft
		p.PublishedAt = nil
	}
}

func scheduledIn(d time.Duration) postOption {
	return func(p *models.Post) {
		at := time.Now().UTC().Add(d)
		p.Status = models.PostStatusPublished
		p.PublishedAt = &at
	}
}

func featured() postOption {
	return func(p *models.Post) { p.IsFeatured = true }
}

func views(n int64) postOption {
	return func(p *models.Post) { p.ViewsCount = n }
}

func titled(title string) postOption {
	return func(p *models.Post) { p.Title = title }
}

func content(text string) postOption {
	return func(p *models.Post) { p.Content = text }
}

// post stores a post by author. Unless an option says otherwise it was
// published an hour ago, minus the sequence number in seconds so later
// posts are newer.
func (f *fixture) post(author *models.User, opts ...postOption) *models.Post {
	f.t.Helper()
	n := f.next()
	at := time.Now().UTC().Add(-time.Hour + time.Duration(n)*time.Second)
	post := &models.Post{
		Title:       fmt.Sprintf("Post %d", n),
		AuthorID:    author.ID,
		Content:     "This is a test post content.",
		Status:      models.PostStatusPublished,
		PublishedAt: &at,
	}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(f.t, f.db.Omit("Author", "Category").Create(post).Error)
	return post
}

func (f *fixture) comment(post *models.Post, author *models.User, text string) *models.Comment {
	f.t.Helper()
	comment := &models.Comment{PostID: post.ID, AuthorID: author.ID, Content: text, IsApproved: true}
	require.NoError(f.t, f.db.Omit("Post", "Author").Create(comment).Error)
	return comment
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
