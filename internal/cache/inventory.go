package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	CategoryKeyPrefix = "category:%s"
	UserKeyPrefix     = "user:%s"
)

// Key families, used as metric labels.
const (
	FamilyCategory = "category"
	FamilyUser     = "user"
)

const (
	CategoryTTL = 10 * time.Minute
	UserTTL     = 5 * time.Minute
)

// CategoryKey caches a category by slug.
func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

// UserKey caches a user by username.
func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateCategory(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		keys = append(keys, CategoryKey(s))
	}
	Invalidate(ctx, keys...)
}

func InvalidateUser(ctx context.Context, usernames ...string) {
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		keys = append(keys, UserKey(u))
	}
	Invalidate(ctx, keys...)
}
