package repository

import (
	"context"
	"time"

	"blogicum/internal/models"
	"blogicum/internal/observability"
	"blogicum/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Nil fields do not filter.
type PostFilter struct {
	CategoryID *uint
	AuthorID   *uint
	// VisibleAt applies the public visibility rule at that instant.
	// Leave it nil only for an author's own profile.
	VisibleAt *time.Time
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// postColumns are the fields a post form may change.
var postColumns = []string{"title", "text", "pub_date", "location_id", "category_id", "image", "is_published"}

const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()
	var post models.Post
	err := r.withRelations(r.db.WithContext(ctx)).
		Select(commentCountSelect).
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery("list", "posts")()

	// Built twice: Count must not carry the SELECT list or ORDER BY.
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Post{})
		if filter.VisibleAt != nil {
			q = q.Scopes(policy.VisibleScope(*filter.VisibleAt))
		}
		if filter.CategoryID != nil {
			q = q.Where("posts.category_id = ?", *filter.CategoryID)
		}
		if filter.AuthorID != nil {
			q = q.Where("posts.author_id = ?", *filter.AuthorID)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	posts := make([]*models.Post, 0)
	if total == 0 {
		return posts, 0, nil
	}

	err := r.withRelations(query()).
		Select(commentCountSelect).
		Scopes(policy.NewestFirst).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select(postColumns).
		Omit(clause.Associations).
		Updates(post)
	return requireAffected(res, "Post", post.ID)
}

// Delete removes the post and its comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return requireAffected(tx.Delete(&models.Post{}, id), "Post", id)
	})
}

func (r *postRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Category").
		Preload("Location")
}
