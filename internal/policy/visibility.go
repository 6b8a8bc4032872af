// Package policy holds the visibility and ownership rules that gate every
// read and write path. Functions here are pure: the caller supplies the
// viewer and the clock.
package policy

import (
	"sort"
	"time"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// IsVisible reports whether viewerID may see post at time now.
// A zero viewerID is anonymous and never matches an author.
// post.Category must already be resolved; a nil category hides the post from
// everyone but its author.
func IsVisible(post *models.Post, viewerID uint, now time.Time) bool {
	if post == nil {
		return false
	}
	if viewerID != 0 && viewerID == post.AuthorID {
		return true
	}
	return post.IsPublished &&
		post.Category != nil &&
		post.Category.IsPublished &&
		!post.PubDate.After(now)
}

// VisibleScope filters posts down to what a non-author may see at now.
// It joins categories, so posts without a category drop out.
func VisibleScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN categories ON categories.id = posts.category_id").
			Where("posts.is_published = ?", true).
			Where("categories.is_published = ?", true).
			Where("posts.pub_date <= ?", now.UTC())
	}
}

// NewestFirst orders posts by pub_date descending with id as tiebreaker.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.pub_date DESC").Order("posts.id DESC")
}

// FeedScope is VisibleScope followed by NewestFirst.
func FeedScope(now time.Time) func(*gorm.DB) *gorm.DB {
	visible := VisibleScope(now)
	return func(db *gorm.DB) *gorm.DB {
		return NewestFirst(visible(db))
	}
}

// FeedQuery applies the non-author filter to loaded posts and returns the
// survivors newest-first. The input slice is not modified.
func FeedQuery(posts []*models.Post, now time.Time) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if IsVisible(p, 0, now) {
			out = append(out, p)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst sorts posts in place by pub_date then id, both descending.
func SortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].ID > posts[j].ID
	})
}
