package repository

import (
	"context"

	"blogicum/internal/cache"
	"blogicum/internal/models"
	"blogicum/internal/observability"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

const duplicateSlugMessage = "A category with this slug already exists"

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	defer observability.TrackQuery("create", "categories")()
	return translateWrite(r.db.WithContext(ctx).Create(category).Error, "slug", duplicateSlugMessage)
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	defer observability.TrackQuery("get", "categories")()
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err, "Category", id)
	}
	return &category, nil
}

// GetBySlug is served from the cache when possible. Unpublished categories
// are returned too; callers decide what to expose.
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := cache.Aside(ctx, cache.FamilyCategory, cache.CategoryKey(slug), &category, cache.CategoryTTL, func() error {
		defer observability.TrackQuery("get_by_slug", "categories")()
		err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
		return translate(err, "Category", slug)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	defer observability.TrackQuery("update", "categories")()

	var previous []string
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", category.ID).
		Pluck("slug", &previous).Error; err != nil {
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Category{ID: category.ID}).
		Select("title", "description", "slug", "is_published").
		Updates(category)
	if res.Error != nil {
		return translateWrite(res.Error, "slug", duplicateSlugMessage)
	}
	if err := requireAffected(res, "Category", category.ID); err != nil {
		return err
	}

	cache.InvalidateCategory(ctx, append(previous, category.Slug)...)
	return nil
}

// Delete detaches the category from its posts, then removes it. Posts are
// never deleted with their category.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "categories")()

	var category models.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return translate(err, "Category", id)
		}
		if err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return models.NewInternalError(err)
		}
		return requireAffected(tx.Delete(&models.Category{}, id), "Category", id)
	})
	if err != nil {
		return err
	}

	cache.InvalidateCategory(ctx, category.Slug)
	return nil
}
