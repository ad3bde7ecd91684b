package services

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"blogapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPublishedPostsExcludesDraftsAndScheduled(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")

	older := f.post(author, publishedAgo(2*time.Hour))
	newer := f.post(author, publishedAgo(time.Minute))
	f.post(author, draft())
	f.post(author, scheduledIn(time.Hour))

	posts, err := svc.PublishedPosts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{newer.ID, older.ID}, postIDs(posts))
	assert.Equal(t, "author", posts[0].Author.Username)
}

func TestPublishedPostsExcludesDeleted(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author)

	require.NoError(t, svc.DeletePost(context.Background(), author.ID, post.Slug))

	posts, err := svc.PublishedPosts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostsByCategoryTagAndAuthor(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()

	alice := f.user("alice")
	bob := f.user("bob")
	tech := f.category("Technology")
	golang := f.tag("golang")

	p1 := f.post(alice, inCategory(tech), withTags(golang))
	p2 := f.post(bob, inCategory(tech))
	f.post(bob, inCategory(tech), draft(), withTags(golang))

	byCategory, err := svc.PostsByCategory(ctx, "technology")
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID, p1.ID}, postIDs(byCategory))

	byTag, err := svc.PostsByTag(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, []uint{p1.ID}, postIDs(byTag))
	require.Len(t, byTag[0].Tags, 1)
	assert.Equal(t, "golang", byTag[0].Tags[0].Slug)

	byAuthor, err := svc.PostsByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p2.ID}, postIDs(byAuthor))

	unknown, err := svc.PostsByCategory(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")

	inTitle := f.post(author, titled("Learning Django"))
	inContent := f.post(author, content("Notes about DJANGO internals."))
	f.post(author, titled("Unrelated"))
	discount := f.post(author, titled("Save 50% today"))
	f.post(author, titled("Save 500 today"))

	posts, err := svc.Search(ctx, "django")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{inTitle.ID, inContent.ID}, postIDs(posts))

	posts, err = svc.Search(ctx, "50%")
	require.NoError(t, err)
	assert.Equal(t, []uint{discount.ID}, postIDs(posts))
}

func TestFeaturedPostsDefaultLimit(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")

	for i := 0; i < 7; i++ {
		f.post(author, featured())
	}
	f.post(author)

	posts, err := svc.FeaturedPosts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, posts, DefaultFeaturedLimit)
	for _, p := range posts {
		assert.True(t, p.IsFeatured)
	}
}

func TestListPostsCombinesFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()

	alice := f.user("alice")
	bob := f.user("bob")
	tech := f.category("Technology")
	life := f.category("Lifestyle")
	golang := f.tag("golang")

	var aliceTech []*models.Post
	for i := 0; i < 3; i++ {
		aliceTech = append(aliceTech, f.post(alice, inCategory(tech), withTags(golang)))
	}
	f.post(bob, inCategory(tech), withTags(golang))
	f.post(alice, inCategory(life), withTags(golang))

	filter := models.PostFilter{CategorySlug: "technology", TagSlug: "golang", AuthorID: alice.ID}

	page1, total, err := svc.ListPosts(ctx, filter, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{aliceTech[2].ID, aliceTech[1].ID}, postIDs(page1))

	page2, total, err := svc.ListPosts(ctx, filter, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{aliceTech[0].ID}, postIDs(page2))

	all, total, err := svc.ListPosts(ctx, models.PostFilter{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, all, 5)
}

func TestCreatePostResolvesTags(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")
	existing := f.tag("golang")

	post, err := svc.CreatePost(ctx, author, &models.CreatePostRequest{
		Title:   "Hello, World!",
		Content: "Some content",
		Status:  models.PostStatusPublished,
		Tags:    []string{"golang", " testing ", "testing", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Some content", post.Excerpt)
	require.NotNil(t, post.PublishedAt)
	assert.Equal(t, "author", post.Author.Username)

	names := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		names = append(names, tag.Name)
		if tag.Name == "golang" {
			assert.Equal(t, existing.ID, tag.ID)
		}
	}
	assert.ElementsMatch(t, []string{"golang", "testing"}, names)

	var tagCount int64
	require.NoError(t, f.db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.EqualValues(t, 2, tagCount)
}

func TestCreatePostDraftHasNoPublishTime(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")

	post, err := svc.CreatePost(context.Background(), author, &models.CreatePostRequest{
		Title:   "Draft",
		Content: "Not yet",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
}

func TestCreatePostRejectsDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")

	req := &models.CreatePostRequest{Title: "Same Title", Content: "x"}
	_, err := svc.CreatePost(ctx, author, req)
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, author, req)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdatePost(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")
	old := f.tag("old")
	post := f.post(author, draft(), withTags(old))

	title := "Renamed"
	status := models.PostStatusPublished
	tags := []string{"fresh"}
	updated, err := svc.UpdatePost(ctx, author.ID, post.Slug, &models.UpdatePostRequest{
		Title:  &title,
		Status: &status,
		Tags:   &tags,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, post.Slug, updated.Slug, "slug stays stable when the title changes")
	require.NotNil(t, updated.PublishedAt)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "fresh", updated.Tags[0].Name)
}

func TestUpdatePostKeepsTagsWhenOmitted(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	golang := f.tag("golang")
	post := f.post(author, withTags(golang))

	body := "New body"
	updated, err := svc.UpdatePost(context.Background(), author.ID, post.Slug, &models.UpdatePostRequest{Content: &body})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, golang.ID, updated.Tags[0].ID)
}

func TestUpdatePostOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	other := f.user("other")
	post := f.post(author)

	title := "Hijacked"
	_, err := svc.UpdatePost(context.Background(), other.ID, post.Slug, &models.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.DeletePost(context.Background(), other.ID, post.Slug)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPublishMakesDraftVisible(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")
	post := f.post(author, draft())

	_, err := svc.GetPublishedBySlug(ctx, post.Slug)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	published, err := svc.PublishOwned(ctx, author.ID, post.Slug)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())

	found, err := svc.GetPublishedBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
}

func TestPublishRestampsPublishedAt(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author, publishedAgo(48*time.Hour))
	before := *post.PublishedAt

	stamp := time.Now().UTC().Truncate(time.Second)
	svc.now = func() time.Time { return stamp }

	published, err := svc.Publish(context.Background(), post)
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	assert.True(t, published.PublishedAt.After(before))
	assert.True(t, published.PublishedAt.Equal(stamp))
}

func TestIncrementViewsConcurrent(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author)

	const readers = 20
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reader := *post
			assert.NoError(t, svc.IncrementViews(context.Background(), &reader))
		}()
	}
	wg.Wait()

	stored, err := svc.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, readers, stored.ViewsCount)
}

func TestIncrementViewsKeepsUpdatedAt(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author)

	require.NoError(t, svc.IncrementViews(context.Background(), post))
	assert.EqualValues(t, 1, post.ViewsCount)

	stored, err := svc.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(post.UpdatedAt))
}

func TestResetViews(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author, views(42))

	require.NoError(t, svc.ResetViews(context.Background(), post.ID))

	stored, err := svc.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stored.ViewsCount)

	assert.ErrorIs(t, svc.ResetViews(context.Background(), 9999), gorm.ErrRecordNotFound)
}

func TestMyPostsIncludesDrafts(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	other := f.user("other")

	f.post(author)
	f.post(author, draft())
	f.post(other)

	posts, err := svc.MyPosts(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestPublishKeepsViewsCountedSinceLoad(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")
	post := f.post(author, draft())

	loaded, err := svc.GetByID(ctx, post.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		reader := *post
		require.NoError(t, svc.IncrementViews(ctx, &reader))
	}

	_, err = svc.Publish(ctx, loaded)
	require.NoError(t, err)

	stored, err := svc.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished())
	assert.EqualValues(t, 3, stored.ViewsCount)
}

func TestUpdatePostKeepsViewsCountedDuringUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	post := f.post(author, views(2))

	// A reader's view lands after UpdatePost loaded the row but before it writes.
	var once sync.Once
	var viewErr error
	err := f.db.Callback().Update().Before("gorm:update").Register("test:concurrent_view", func(tx *gorm.DB) {
		if tx.Statement.Table != "posts" {
			return
		}
		once.Do(func() {
			viewErr = tx.Session(&gorm.Session{NewDB: true}).
				Exec("UPDATE posts SET views_count = views_count + 3 WHERE id = ?", post.ID).Error
		})
	})
	require.NoError(t, err)

	title := "Edited"
	_, err = svc.UpdatePost(context.Background(), author.ID, post.Slug, &models.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	require.NoError(t, viewErr)

	stored, err := svc.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", stored.Title)
	assert.EqualValues(t, 5, stored.ViewsCount)
}

func TestDeletePostFreesSlugAndRemovesComments(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	ctx := context.Background()
	author := f.user("author")
	reader := f.user("reader")

	req := &models.CreatePostRequest{
		Title:   "Hello World",
		Content: "first",
		Status:  models.PostStatusPublished,
		Tags:    []string{"golang"},
	}
	post, err := svc.CreatePost(ctx, author, req)
	require.NoError(t, err)
	f.comment(post, reader, "nice")

	require.NoError(t, svc.DeletePost(ctx, author.ID, post.Slug))

	var comments, links int64
	require.NoError(t, f.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, f.db.Table("post_tags").Where("post_id = ?", post.ID).Count(&links).Error)
	assert.Zero(t, comments)
	assert.Zero(t, links)

	again, err := svc.CreatePost(ctx, author, req)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", again.Slug)
}

func TestListPostsClampsHugePage(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db)
	author := f.user("author")
	f.post(author)
	f.post(author)

	posts, total, err := svc.ListPosts(context.Background(), models.PostFilter{}, math.MaxInt, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Empty(t, posts)
}
