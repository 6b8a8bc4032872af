package repository

import (
	"context"

	"blogicum/internal/models"
	"blogicum/internal/observability"

	"gorm.io/gorm"
)

// LocationRepository defines persistence operations for locations.
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uint) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uint) error
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository returns a new LocationRepository implementation.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *models.Location) error {
	defer observability.TrackQuery("create", "locations")()
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *locationRepository) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	defer observability.TrackQuery("get", "locations")()
	var location models.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, translate(err, "Location", id)
	}
	return &location, nil
}

func (r *locationRepository) Update(ctx context.Context, location *models.Location) error {
	defer observability.TrackQuery("update", "locations")()
	res := r.db.WithContext(ctx).
		Model(&models.Location{ID: location.ID}).
		Select("name", "is_published").
		Updates(location)
	return requireAffected(res, "Location", location.ID)
}

// Delete sets location_id to NULL on referencing posts, then removes the location.
func (r *locationRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "locations")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return models.NewInternalError(err)
		}
		return requireAffected(tx.Delete(&models.Location{}, id), "Location", id)
	})
}
