package repository

import (
	"context"
	"errors"
	"fmt"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	IsTaken(ctx context.Context, field, value string, excludeID uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "User", id)
	}
	return &user, nil
}

// GetByUsername is served from the cache when possible. The cached copy has
// no password hash; use GetByLogin for credential checks.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.FamilyUser, cache.UserKey(username), &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("get_by_username", "users")()
		err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
		return translate(err, "User", username)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByLogin matches either the username or the email. It returns nil, nil
// when neither matches.
func (r *userRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		Order("id").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// IsTaken reports whether another user already holds value in field
// ("username" or "email").
func (r *userRepository) IsTaken(ctx context.Context, field, value string, excludeID uint) (bool, error) {
	if field != "username" && field != "email" {
		return false, models.NewInternalError(fmt.Errorf("unsupported unique field %q", field))
	}
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where(field+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()
	return translateWrite(r.db.WithContext(ctx).Create(user).Error, "username", "User already exists")
}

// UpdateProfile writes the identity fields a user may edit on their own
// profile and drops cached copies under both the old and new username.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()

	var previous []string
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Pluck("username", &previous).Error; err != nil {
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).
		Model(&models.User{ID: user.ID}).
		Select("username", "email", "first_name", "last_name", "updated_at").
		Updates(user)
	if res.Error != nil {
		return translateWrite(res.Error, "username", "Username or email already taken")
	}
	if err := requireAffected(res, "User", user.ID); err != nil {
		return err
	}

	cache.InvalidateUser(ctx, append(previous, user.Username)...)
	return nil
}

// Delete removes the user with everything they wrote: their comments,
// comments left on their posts, and their posts.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err, "User", id)
		}
		ownPosts := tx.Model(&models.Post{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("author_id = ? OR post_id IN (?)", id, ownPosts).
			Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return requireAffected(tx.Delete(&models.User{}, id), "User", id)
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, user.Username)
	return nil
}
