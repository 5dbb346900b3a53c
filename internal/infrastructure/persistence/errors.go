package persistence

import (
	"errors"

	"github.com/pethotel/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain sentinels.
// Unique violations require gorm.Config.TranslateError.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// saveVersioned inserts model when expected is zero. Otherwise it updates
// every column only while the stored row is still at the expected version,
// returning shared.ErrConcurrencyConflict when another write got there first.
func saveVersioned(tx *gorm.DB, model any, id any, expected int, omit ...string) error {
	if expected == 0 {
		return translateError(tx.Omit(omit...).Create(model).Error)
	}

	omit = append([]string{"id", "tenant_id", "created_at"}, omit...)
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
