package persistence

import (
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveVersioned inserts an aggregate at version 1 and otherwise updates every
// column, but only while the stored row is still at version-1 and owned by
// ownerID. A lost race surfaces as ErrConcurrencyConflict.
func saveVersioned(tx *gorm.DB, model any, ownerID uuid.UUID, version int) error {
	if version <= 1 {
		if err := tx.Create(model).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	}

	result := tx.Model(model).
		Where("owner_id = ? AND version = ?", ownerID, version-1).
		Select("*").
		Omit("id", "created_at", "owner_id").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// deleteOwned deletes one row of model's table by owner and ID. A row other
// rows still reference yields shared.ErrInUse.
func deleteOwned(tx *gorm.DB, model any, ownerID, id uuid.UUID) error {
	result := tx.Delete(model, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return shared.ErrInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
