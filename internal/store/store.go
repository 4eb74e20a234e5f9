// Package store implements the persistence gateway on top of gorm.
package store

import (
	"errors" // Sentinel error matching

	"skate_marketplace/internal/apperr" // Error taxonomy

	"gorm.io/gorm" // GORM ORM library
)

// translate maps gorm errors onto the error taxonomy. The connection must be opened
// with TranslateError so driver-specific constraint errors arrive as gorm sentinels.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err // Already classified
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(err, apperr.KindConflict, "%s already exists", entity)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(err, apperr.KindConflict, "%s is referenced by other records", entity)
	default:
		return apperr.Internal(err)
	}
}
