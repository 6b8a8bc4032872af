// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"blogicum/internal/models"

	"gorm.io/gorm"
)

// translate maps storage errors onto application errors at the repository
// boundary. A missing row becomes NOT_FOUND for resource/id.
func translate(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	default:
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
}

// translateWrite is translate for inserts and updates guarded by a unique
// index: a duplicate key is reported against field.
func translateWrite(err error, field, message string) error {
	if err == nil {
		return nil
	}
	if isUniqueConstraintError(err) {
		return models.NewFieldError(field, message)
	}
	return models.NewInternalError(err)
}

func isUniqueConstraintError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// requireAffected turns a statement that touched no rows into NOT_FOUND.
func requireAffected(res *gorm.DB, resource string, id interface{}) error {
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}
