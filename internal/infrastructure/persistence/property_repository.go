package persistence

import (
	"context"
	"errors"

	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByIDForOwner finds a property by ID for a specific owner
func (r *GormPropertyRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner finds all properties for an owner with filtering
func (r *GormPropertyRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	var propertyModels []models.PropertyModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PropertyModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, PropertySortFields, "name ASC")

	if err := query.Find(&propertyModels).Error; err != nil {
		return nil, err
	}

	properties := make([]property.Property, len(propertyModels))
	for i := range propertyModels {
		properties[i] = *propertyModels[i].ToDomain()
	}
	return properties, nil
}

// CountForOwner counts properties for an owner with optional filters
func (r *GormPropertyRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.PropertyModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForOwner reports whether a property exists for the owner
func (r *GormPropertyRepository) ExistsForOwner(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a property with an optimistic version check
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return saveVersioned(r.db.WithContext(ctx), models.PropertyModelFromDomain(p), p.OwnerID, p.Version)
}

// DeleteForOwner deletes a property for an owner
func (r *GormPropertyRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.PropertyModel{}, ownerID, id)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPropertyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(street) LIKE ? OR LOWER(city) LIKE ?)",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "min_bedrooms":
			query = query.Where("bedrooms >= ?", value)
		case "ids":
			query = query.Where("id IN ?", value)
		}
	}
	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ property.PropertyRepository = (*GormPropertyRepository)(nil)
