package persistence

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByIDForOwner finds a lease by ID for a specific owner
func (r *GormLeaseRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*leasing.Lease, error) {
	var model models.LeaseModel
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

// FindAllForOwner finds all leases for an owner with filtering
func (r *GormLeaseRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LeaseModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, LeaseSortFields, "lease_start DESC")

	if err := query.Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toLeases(leaseModels), nil
}

// CountForOwner counts leases for an owner with optional filters
func (r *GormLeaseRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LeaseModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByProperty returns every lease of a property, newest period first
func (r *GormLeaseRepository) FindByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Order("lease_start DESC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toLeases(leaseModels), nil
}

// FindUnexpired returns leases of an owner that are not yet expired on day since
func (r *GormLeaseRepository) FindUnexpired(ctx context.Context, ownerID uuid.UUID, since civil.Date) ([]leasing.Lease, error) {
	var leaseModels []models.LeaseModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Scopes(notExpiredOn(since)).
		Order("lease_end ASC").
		Find(&leaseModels).Error; err != nil {
		return nil, err
	}
	return toLeases(leaseModels), nil
}

// FindOwnersWithLeases lists the owners that hold at least one lease
func (r *GormLeaseRepository) FindOwnersWithLeases(ctx context.Context) ([]uuid.UUID, error) {
	var ownerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Distinct("owner_id").
		Pluck("owner_id", &ownerIDs).Error; err != nil {
		return nil, err
	}
	return ownerIDs, nil
}

// CountByTenant counts every lease of a renter
func (r *GormLeaseRepository) CountByTenant(ctx context.Context, ownerID, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("owner_id = ? AND tenant_id = ?", ownerID, tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProperty counts every lease of a property
func (r *GormLeaseRepository) CountByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLiveByProperty counts leases of a property that are not expired on day asOf
func (r *GormLeaseRepository) CountLiveByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, asOf civil.Date) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseModel{}).
		Where("owner_id = ? AND property_id = ?", ownerID, propertyID).
		Scopes(notExpiredOn(asOf)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveExclusive writes the lease only if no other lease of the same property
// covers any of its days. On PostgreSQL the property row is locked for the
// duration of the check so concurrent writers for one property serialize;
// the leases_no_overlap exclusion constraint backs the check up.
func (r *GormLeaseRepository) SaveExclusive(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if isPostgres(tx) {
			var locked models.PropertyModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				Where("owner_id = ? AND id = ?", lease.OwnerID, lease.PropertyID).
				Take(&locked).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return shared.ErrNotFound
				}
				return err
			}
		}

		if start, end, ok := effectiveBounds(lease); ok {
			var conflicts int64
			if err := tx.Model(&models.LeaseModel{}).
				Where("property_id = ? AND id <> ?", lease.PropertyID, lease.ID).
				Scopes(coversAnyDayOf(start, end)).
				Count(&conflicts).Error; err != nil {
				return err
			}
			if conflicts > 0 {
				return leasing.ErrLeaseOverlap
			}
		}

		return saveVersioned(tx, model, lease.OwnerID, lease.Version)
	})
	return translateLeaseError(err)
}

// Save writes the lease without the overlap check. Use it for changes that
// cannot extend the lease period: termination, notes, renter assignment.
func (r *GormLeaseRepository) Save(ctx context.Context, lease *leasing.Lease) error {
	model := models.LeaseModelFromDomain(lease)
	return translateLeaseError(saveVersioned(r.db.WithContext(ctx), model, lease.OwnerID, lease.Version))
}

// DeleteForOwner deletes a lease for an owner
func (r *GormLeaseRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.LeaseModel{}, ownerID, id)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case leasing.FilterPropertyID:
			query = query.Where("property_id = ?", value)
		case leasing.FilterTenantID:
			query = query.Where("tenant_id = ?", value)
		case leasing.FilterStatus:
			status, ok := value.(leasing.Status)
			asOf, hasDate := filter.Filters[leasing.FilterAsOf].(civil.Date)
			if ok && hasDate {
				query = query.Scopes(statusOn(status, asOf))
			}
		}
	}
	return query
}

func toLeases(leaseModels []models.LeaseModel) []leasing.Lease {
	leases := make([]leasing.Lease, len(leaseModels))
	for i := range leaseModels {
		leases[i] = *leaseModels[i].ToDomain()
	}
	return leases
}

// effectiveBounds returns the first and last day the lease covers. A lease
// terminated on its first day covers nothing.
func effectiveBounds(lease *leasing.Lease) (civil.Date, civil.Date, bool) {
	period := lease.EffectivePeriod()
	if period.Start == nil || period.End == nil || period.End.Before(*period.Start) {
		return civil.Date{}, civil.Date{}, false
	}
	return *period.Start, *period.End, true
}

// coversAnyDayOf matches leases whose effective period shares a day with
// [start, end]. A terminated lease stops covering days on its termination
// day, so its last covered day is terminated_at - 1.
func coversAnyDayOf(start, end civil.Date) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("lease_start <= ? AND lease_end >= ? AND (terminated_at IS NULL OR terminated_at > ?)",
			models.DateValue(end), models.DateValue(start), models.DateValue(start)).
			Where(coversSomeDaySQL)
	}
}

// notExpiredOn matches leases whose status on day is not expired
func notExpiredOn(day civil.Date) func(*gorm.DB) *gorm.DB {
	d := models.DateValue(day)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("((terminated_at IS NULL AND lease_end >= ?) OR terminated_at > ?)", d, d).
			Where(coversSomeDaySQL)
	}
}

// statusOn translates the status classification on day into SQL. It mirrors
// Lease.Status: expired from the termination day and always expired when
// voided, ending soon when the last covered day is at most
// EndingSoonThreshold days away.
func statusOn(status leasing.Status, day civil.Date) func(*gorm.DB) *gorm.DB {
	d := models.DateValue(day)
	soon := models.DateValue(day.AddDays(leasing.EndingSoonThreshold))
	// last covered day <= day+30  <=>  lease_end <= day+30 OR terminated_at <= day+31
	soonTerminated := models.DateValue(day.AddDays(leasing.EndingSoonThreshold + 1))
	return func(db *gorm.DB) *gorm.DB {
		switch status {
		case leasing.StatusUpcoming:
			return db.Where("lease_start > ? AND (terminated_at IS NULL OR terminated_at > ?)", d, d).
				Where(coversSomeDaySQL)
		case leasing.StatusExpired:
			return db.Where("(lease_end < ? OR terminated_at <= ? OR terminated_at <= lease_start)", d, d)
		case leasing.StatusEndingSoon:
			return db.Where(currentLeaseSQL, d, d, d).
				Where("(lease_end <= ? OR terminated_at <= ?)", soon, soonTerminated)
		case leasing.StatusActive:
			return db.Where(currentLeaseSQL, d, d, d).
				Where("lease_end > ? AND (terminated_at IS NULL OR terminated_at > ?)", soon, soonTerminated)
		default:
			return db.Where("1 = 0")
		}
	}
}

const currentLeaseSQL = "lease_start <= ? AND lease_end >= ? AND (terminated_at IS NULL OR terminated_at > ?)"

// coversSomeDaySQL excludes voided leases, those terminated on their first day
const coversSomeDaySQL = "(terminated_at IS NULL OR terminated_at > lease_start)"

// translateLeaseError maps storage-level conflicts onto lease domain errors
func translateLeaseError(err error) error {
	if err == nil {
		return nil
	}
	if pgErrorCode(err) == pgExclusionViolation {
		return leasing.ErrLeaseOverlap
	}
	return err
}

// Ensure GormLeaseRepository implements LeaseRepository
var _ leasing.LeaseRepository = (*GormLeaseRepository)(nil)
