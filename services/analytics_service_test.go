package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogStatsSinglePost(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.db)
	author := f.user("author")
	tech := f.category("Technology")
	golang := f.tag("golang")

	post := f.post(author, inCategory(tech), withTags(golang), views(100))
	f.comment(post, author, "Nice post")

	stats, err := svc.BlogStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BlogStats{
		TotalPosts:      1,
		TotalCategories: 1,
		TotalTags:       1,
		TotalViews:      100,
		TotalComments:   1,
	}, *stats)
}

func TestBlogStatsIgnoresUnpublishedAndUnapproved(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.db)
	comments := NewCommentService(f.db)
	author := f.user("author")
	tech := f.category("Technology")
	life := f.category("Lifestyle")
	golang := f.tag("golang")
	rust := f.tag("rust")

	live := f.post(author, inCategory(tech), withTags(golang), views(10))
	hidden := f.post(author, inCategory(life), withTags(rust), views(50), draft())
	f.post(author, inCategory(life), views(5), scheduledIn(time.Hour))

	f.comment(live, author, "visible")
	c := f.comment(live, author, "moderated")
	f.comment(hidden, author, "on a draft")
	_, err := comments.UnapproveComments(context.Background(), []uint{c.ID})
	require.NoError(t, err)

	stats, err := svc.BlogStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.EqualValues(t, 1, stats.TotalTags)
	assert.EqualValues(t, 10, stats.TotalViews)
	assert.EqualValues(t, 1, stats.TotalComments)
}

func TestBlogStatsEmpty(t *testing.T) {
	f := newFixture(t)
	stats, err := NewAnalyticsService(f.db).BlogStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BlogStats{}, *stats)
}

func TestPopularPostsOrdersByViews(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.db)
	author := f.user("author")

	low := f.post(author, views(1))
	tieA := f.post(author, views(10))
	tieB := f.post(author, views(10))
	top := f.post(author, views(99))
	f.post(author, views(1000), draft())

	posts, err := svc.PopularPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{top.ID, tieA.ID, tieB.ID, low.ID}, postIDs(posts))

	posts, err = svc.PopularPosts(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{top.ID, tieA.ID}, postIDs(posts))
}

func TestRecentPosts(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.db)
	author := f.user("author")

	var created []uint
	for i := 0; i < 12; i++ {
		created = append(created, f.post(author).ID)
	}

	posts, err := svc.RecentPosts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, posts, DefaultRecentLimit)
	assert.Equal(t, created[11], posts[0].ID)
	assert.Equal(t, created[2], posts[9].ID)
}

func TestCategoryStats(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.db)
	author := f.user("author")
	tech := f.category("Technology")
	life := f.category("Lifestyle")
	f.category("Empty")

	f.post(author, inCategory(tech), views(10))
	f.post(author, inCategory(tech), views(5))
	f.post(author, inCategory(life), views(7))
	f.post(author, inCategory(life), views(100), draft())

	stats, err := svc.CategoryStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "Technology", stats[0].Name)
	assert.EqualValues(t, 2, stats[0].PostsCount)
	assert.EqualValues(t, 15, stats[0].TotalViews)

	assert.Equal(t, "lifestyle", stats[1].Slug)
	assert.EqualValues(t, 1, stats[1].PostsCount)
	assert.EqualValues(t, 7, stats[1].TotalViews)
}
