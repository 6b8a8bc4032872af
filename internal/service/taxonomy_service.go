package service

import (
	"context"
	"strings"

	"blogicum/internal/models"
	"blogicum/internal/repository"
	"blogicum/internal/validation"
)

// TaxonomyService manages categories and locations for administrators.
type TaxonomyService struct {
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
}

type CategoryInput struct {
	Title       string
	Description string
	Slug        string
	IsPublished *bool
}

type LocationInput struct {
	Name        string
	IsPublished *bool
}

func NewTaxonomyService(categoryRepo repository.CategoryRepository, locationRepo repository.LocationRepository) *TaxonomyService {
	return &TaxonomyService{
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{IsPublished: true}
	if err := s.applyCategoryInput(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCategoryInput(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Its posts stay, uncategorised.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *TaxonomyService) CreateLocation(ctx context.Context, in LocationInput) (*models.Location, error) {
	location := &models.Location{IsPublished: true}
	if err := applyLocationInput(location, in); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *TaxonomyService) UpdateLocation(ctx context.Context, id uint, in LocationInput) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyLocationInput(location, in); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation removes a location. Its posts stay, without a place.
func (s *TaxonomyService) DeleteLocation(ctx context.Context, id uint) error {
	return s.locationRepo.Delete(ctx, id)
}

// applyCategoryInput validates in and copies it onto category. The slug
// uniqueness check here gives a friendly field error; the unique index still
// has the last word under concurrent writes.
func (s *TaxonomyService) applyCategoryInput(ctx context.Context, category *models.Category, in CategoryInput) error {
	in.Slug = strings.TrimSpace(in.Slug)

	fields := map[string]string{}
	if err := validation.ValidateTitle("title", in.Title); err != nil {
		fields["title"] = err.Error()
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "description is required"
	}
	if err := validation.ValidateSlug(in.Slug); err != nil {
		fields["slug"] = err.Error()
	} else {
		taken, err := s.categoryRepo.SlugTaken(ctx, in.Slug, category.ID)
		if err != nil {
			return err
		}
		if taken {
			fields["slug"] = "A category with this slug already exists"
		}
	}
	if err := models.NewFieldsError(fields); err != nil {
		return err
	}

	category.Title = in.Title
	category.Description = in.Description
	category.Slug = in.Slug
	if in.IsPublished != nil {
		category.IsPublished = *in.IsPublished
	}
	return nil
}

func applyLocationInput(location *models.Location, in LocationInput) error {
	if err := validation.ValidateTitle("name", in.Name); err != nil {
		return models.NewFieldError("name", err.Error())
	}
	location.Name = in.Name
	if in.IsPublished != nil {
		location.IsPublished = *in.IsPublished
	}
	return nil
}
