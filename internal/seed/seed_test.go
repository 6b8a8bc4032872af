package seed

import (
	"context"
	"testing"
	"time"

	"blogicum/internal/database"
	"blogicum/internal/models"
	"blogicum/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN("file::memory:")), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestComputeCounts(t *testing.T) {
	tests := []struct {
		n                                int
		public, draft, scheduled, hidden int
	}{
		{10, 7, 1, 1, 1},
		{25, 19, 2, 2, 2},
		{5, 5, 0, 0, 0},
		{0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		public, draft, scheduled, hidden := computeCounts(tt.n)
		if public+draft+scheduled+hidden != tt.n {
			t.Fatalf("n=%d: sum mismatch", tt.n)
		}
		if public != tt.public || draft != tt.draft || scheduled != tt.scheduled || hidden != tt.hidden {
			t.Fatalf("n=%d: got public=%d draft=%d scheduled=%d hidden=%d", tt.n, public, draft, scheduled, hidden)
		}
	}
}

func TestSeeder_Run(t *testing.T) {
	db := setupSeedDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	opts := Options{NumUsers: 3, NumPosts: 20, CommentsPerPost: 2, SkipBcrypt: true, RandSeed: 7, Now: now}

	summary, err := NewSeeder(db, opts).Run()
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Users)
	assert.Equal(t, 4, summary.Categories)
	assert.Equal(t, 20, summary.Posts)
	assert.Equal(t, 14, summary.Visible)
	assert.Equal(t, 28, summary.Comments)

	posts := repository.NewPostRepository(db)
	visible, total, err := posts.List(context.Background(), repository.PostFilter{VisibleAt: &now}, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(14), total)
	for _, p := range visible {
		assert.False(t, p.PubDate.After(now))
		assert.Equal(t, 2, p.CommentCount)
	}

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	for _, c := range comments {
		assert.False(t, c.PubDate.After(now), "comment %d dated in the future", c.ID)
	}
}

func TestSeeder_ReseedKeepsCategories(t *testing.T) {
	db := setupSeedDB(t)
	_, err := NewSeeder(db, Options{NumUsers: 1, SkipBcrypt: true, RandSeed: 1}).Run()
	require.NoError(t, err)
	_, err = NewSeeder(db, Options{NumUsers: 1, SkipBcrypt: true, RandSeed: 2}).Run()
	require.NoError(t, err)

	var count int64
	db.Model(&models.Category{}).Count(&count)
	assert.Equal(t, int64(len(builtInCategories)), count)
}

func TestSeeder_ClearAll(t *testing.T) {
	db := setupSeedDB(t)
	s := NewSeeder(db, Options{NumUsers: 2, NumPosts: 5, CommentsPerPost: 1, SkipBcrypt: true, RandSeed: 3})
	_, err := s.Run()
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}, &models.Category{}} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count, "%T", model)
	}
}

func TestSeeder_DryRunWritesNothing(t *testing.T) {
	db := setupSeedDB(t)
	summary, err := NewSeeder(db, Options{NumUsers: 2, NumPosts: 10, DryRun: true, RandSeed: 5}).Run()
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Posts)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}
