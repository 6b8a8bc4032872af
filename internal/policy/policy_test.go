package policy

import (
	"testing"
	"time"

	"blogicum/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func publishedCategory() *models.Category {
	return &models.Category{ID: 1, Slug: "travel", IsPublished: true}
}

func TestIsVisible_NonAuthorTruthTable(t *testing.T) {
	const authorID, viewerID uint = 1, 2

	tests := []struct {
		name        string
		isPublished bool
		category    *models.Category
		pubDate     time.Time
		want        bool
	}{
		{"all conditions hold", true, publishedCategory(), now.Add(-time.Hour), true},
		{"pub_date equal to now", true, publishedCategory(), now, true},
		{"post unpublished", false, publishedCategory(), now.Add(-time.Hour), false},
		{"no category", true, nil, now.Add(-time.Hour), false},
		{"category unpublished", true, &models.Category{ID: 1, IsPublished: false}, now.Add(-time.Hour), false},
		{"scheduled in the future", true, publishedCategory(), now.Add(time.Hour), false},
		{"everything fails", false, nil, now.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{
				ID:          10,
				AuthorID:    authorID,
				IsPublished: tt.isPublished,
				Category:    tt.category,
				PubDate:     tt.pubDate,
			}
			assert.Equal(t, tt.want, IsVisible(post, viewerID, now))
			assert.Equal(t, tt.want, IsVisible(post, 0, now), "anonymous viewer follows the same rule")
		})
	}
}

func TestIsVisible_AuthorAlwaysSeesOwnPost(t *testing.T) {
	hidden := []*models.Post{
		{AuthorID: 5, IsPublished: false, Category: publishedCategory(), PubDate: now.Add(-time.Hour)},
		{AuthorID: 5, IsPublished: true, Category: nil, PubDate: now.Add(-time.Hour)},
		{AuthorID: 5, IsPublished: true, Category: &models.Category{IsPublished: false}, PubDate: now},
		{AuthorID: 5, IsPublished: true, Category: publishedCategory(), PubDate: now.Add(24 * time.Hour)},
	}
	for _, p := range hidden {
		assert.True(t, IsVisible(p, 5, now))
		assert.False(t, IsVisible(p, 6, now))
	}
}

func TestIsVisible_AnonymousNeverMatchesZeroAuthor(t *testing.T) {
	post := &models.Post{AuthorID: 0, IsPublished: false}
	assert.False(t, IsVisible(post, 0, now))
	assert.False(t, IsVisible(nil, 1, now))
}

func TestFeedQuery(t *testing.T) {
	cat := publishedCategory()
	posts := []*models.Post{
		{ID: 1, IsPublished: true, Category: cat, PubDate: now.Add(-3 * time.Hour)},
		{ID: 2, IsPublished: true, Category: cat, PubDate: now.Add(-1 * time.Hour)},
		{ID: 3, IsPublished: false, Category: cat, PubDate: now.Add(-2 * time.Hour)},
		{ID: 4, IsPublished: true, Category: cat, PubDate: now.Add(time.Hour)},
		{ID: 5, IsPublished: true, Category: cat, PubDate: now.Add(-1 * time.Hour)},
		{ID: 6, IsPublished: true, Category: nil, PubDate: now.Add(-1 * time.Hour)},
	}

	got := FeedQuery(posts, now)

	ids := make([]uint, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if diff := cmp.Diff([]uint{5, 2, 1}, ids); diff != "" {
		t.Errorf("FeedQuery order mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint(1), posts[0].ID, "input order untouched")

	again := FeedQuery(posts, now)
	if diff := cmp.Diff(got, again); diff != "" {
		t.Errorf("FeedQuery is not idempotent (-first +second):\n%s", diff)
	}
}

func TestFeedQuery_ClockAdvance(t *testing.T) {
	future := &models.Post{ID: 1, IsPublished: true, Category: publishedCategory(), PubDate: now.Add(time.Hour)}

	assert.Empty(t, FeedQuery([]*models.Post{future}, now))
	assert.Len(t, FeedQuery([]*models.Post{future}, now.Add(time.Hour)), 1)
}

func TestAuthorizeMutation(t *testing.T) {
	tests := []struct {
		name      string
		authorID  uint
		requester uint
		allowed   bool
	}{
		{"author", 3, 3, true},
		{"other user", 3, 4, false},
		{"anonymous", 3, 0, false},
		{"anonymous on zero author", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AuthorizeMutation(tt.authorID, tt.requester, PostDetailPath(42))
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Empty(t, d.RedirectTo)
			} else {
				assert.Equal(t, "/posts/42/", d.RedirectTo)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/posts/7/", PostDetailPath(7))
	assert.Equal(t, "/profile/alice/", ProfilePath("alice"))
}
