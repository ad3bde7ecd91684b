package services

import (
	"strings"
	"time"

	"blogapi/models"

	"gorm.io/gorm"
)

// Scopes over the posts table. Columns are qualified so they compose with
// joins against categories and comments.

func publishedScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.status = ? AND posts.published_at <= ?", models.PostStatusPublished, now)
	}
}

func latestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.published_at DESC").Order("posts.id DESC")
}

func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Category").Preload("Tags")
}

func categorySlugScope(slug string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Category{}).
			Select("id").
			Where("slug = ?", slug)
		return db.Where("posts.category_id IN (?)", sub)
	}
}

func tagSlugScope(slug string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", slug)
		return db.Where("posts.id IN (?)", sub)
	}
}

func tagIDsScope(tagIDs []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("post_tags").
			Select("post_tags.post_id").
			Where("post_tags.tag_id IN ?", tagIDs)
		return db.Where("posts.id IN (?)", sub)
	}
}

func authorScope(authorID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

func featuredScope(db *gorm.DB) *gorm.DB {
	return db.Where("posts.is_featured = ?", true)
}

// searchScope matches query case-insensitively as a literal substring of the
// title, content or excerpt.
func searchScope(query string) func(*gorm.DB) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\' OR LOWER(posts.excerpt) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
}

func filterScope(filter models.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.CategorySlug != "" {
			db = categorySlugScope(filter.CategorySlug)(db)
		}
		if filter.TagSlug != "" {
			db = tagSlugScope(filter.TagSlug)(db)
		}
		if filter.AuthorID != 0 {
			db = authorScope(filter.AuthorID)(db)
		}
		if filter.Search != "" {
			db = searchScope(filter.Search)(db)
		}
		if filter.FeaturedOnly {
			db = featuredScope(db)
		}
		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
