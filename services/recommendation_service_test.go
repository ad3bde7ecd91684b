package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedPostsPrefersFullCategoryTier(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	tech := f.category("Technology")
	golang := f.tag("golang")

	source := f.post(author, inCategory(tech), withTags(golang))
	var sameCategory []uint
	for i := 0; i < 6; i++ {
		sameCategory = append(sameCategory, f.post(author, inCategory(tech)).ID)
	}
	for i := 0; i < 3; i++ {
		f.post(author, withTags(golang))
	}

	related, err := svc.RelatedPosts(context.Background(), source, 0)
	require.NoError(t, err)
	require.Len(t, related, DefaultRelatedLimit)
	assert.Equal(t, []uint{sameCategory[5], sameCategory[4], sameCategory[3], sameCategory[2], sameCategory[1]}, postIDs(related))
	assert.NotContains(t, postIDs(related), source.ID)
}

func TestRelatedPostsFallsBackToTagsWithoutMerging(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	other := f.user("other")
	tech := f.category("Technology")
	golang := f.tag("golang")

	source := f.post(author, inCategory(tech), withTags(golang))
	f.post(other, inCategory(tech))

	var tagged []uint
	for i := 0; i < 5; i++ {
		tagged = append(tagged, f.post(other, withTags(golang)).ID)
	}

	related, err := svc.RelatedPosts(context.Background(), source, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, tagged, postIDs(related))
}

func TestRelatedPostsFallsBackToAuthorThenRecent(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	other := f.user("other")

	source := f.post(author)

	var byAuthor []uint
	for i := 0; i < 3; i++ {
		byAuthor = append(byAuthor, f.post(author).ID)
	}

	related, err := svc.RelatedPosts(context.Background(), source, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, byAuthor, postIDs(related))

	newest := f.post(other)
	related, err = svc.RelatedPosts(context.Background(), source, 5)
	require.NoError(t, err)
	require.Len(t, related, 4, "the recency tier is returned even when short")
	assert.Equal(t, newest.ID, related[0].ID)
	assert.NotContains(t, postIDs(related), source.ID)
}

func TestRelatedPostsIgnoresUnpublished(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	tech := f.category("Technology")

	source := f.post(author, inCategory(tech))
	for i := 0; i < 5; i++ {
		f.post(author, inCategory(tech), draft())
	}

	related, err := svc.RelatedPosts(context.Background(), source, 5)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestRelatedPostsLoadsRelations(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	tech := f.category("Technology")

	source := f.post(author, inCategory(tech))
	f.post(author, inCategory(tech))

	related, err := svc.RelatedPosts(context.Background(), source, 1)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "author", related[0].Author.Username)
	require.NotNil(t, related[0].Category)
	assert.Equal(t, "Technology", related[0].Category.Name)
}

func TestRelatedPostsCountsSharedTagPostsOnce(t *testing.T) {
	f := newFixture(t)
	svc := NewRecommendationService(f.db)
	author := f.user("author")
	other := f.user("other")
	a := f.tag("a")
	b := f.tag("b")

	source := f.post(author, withTags(a, b))
	var byAuthor []uint
	for i := 0; i < 5; i++ {
		byAuthor = append(byAuthor, f.post(author).ID)
	}
	var tagged []uint
	for i := 0; i < 4; i++ {
		tagged = append(tagged, f.post(other, withTags(a, b)).ID)
	}

	shared, err := svc.candidates(context.Background(), source.ID, 10, tagIDsScope([]uint{a.ID, b.ID}))
	require.NoError(t, err)
	assert.ElementsMatch(t, tagged, postIDs(shared))

	related, err := svc.RelatedPosts(context.Background(), source, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, byAuthor, postIDs(related), "four distinct tagged posts cannot fill five slots")
	for _, id := range tagged {
		assert.NotContains(t, postIDs(related), id)
	}
}
