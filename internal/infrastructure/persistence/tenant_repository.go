package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByIDForOwner finds a renter by ID for a specific owner
func (r *GormTenantRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*property.Tenant, error) {
	var model models.TenantModel
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

// FindByIDs loads several renters at once; missing IDs are skipped
func (r *GormTenantRepository) FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]property.Tenant, error) {
	if len(ids) == 0 {
		return []property.Tenant{}, nil
	}
	var tenantModels []models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id IN ?", ownerID, ids).
		Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	return toTenants(tenantModels), nil
}

// FindAllForOwner finds all renters for an owner with filtering
func (r *GormTenantRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]property.Tenant, error) {
	var tenantModels []models.TenantModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, TenantSortFields, "last_name ASC, first_name ASC")

	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	return toTenants(tenantModels), nil
}

// CountForOwner counts renters for an owner with optional filters
func (r *GormTenantRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.TenantModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if an email is already used by another renter of the owner
func (r *GormTenantRepository) ExistsByEmail(ctx context.Context, ownerID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error) {
	if email == "" {
		return false, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("owner_id = ? AND email = ?", ownerID, strings.ToLower(email))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a renter with an optimistic version check
func (r *GormTenantRepository) Save(ctx context.Context, t *property.Tenant) error {
	return saveVersioned(r.db.WithContext(ctx), models.TenantModelFromDomain(t), t.OwnerID, t.Version)
}

// DeleteForOwner deletes a renter for an owner
func (r *GormTenantRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.TenantModel{}, ownerID, id)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTenantRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)",
			pattern, pattern, pattern, pattern)
	}
	return query
}

func toTenants(tenantModels []models.TenantModel) []property.Tenant {
	tenants := make([]property.Tenant, len(tenantModels))
	for i := range tenantModels {
		tenants[i] = *tenantModels[i].ToDomain()
	}
	return tenants
}

// Ensure GormTenantRepository implements TenantRepository
var _ property.TenantRepository = (*GormTenantRepository)(nil)
