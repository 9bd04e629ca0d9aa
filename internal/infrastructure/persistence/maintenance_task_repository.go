package persistence

import (
	"context"
	"errors"

	"github.com/dansever/estait-app-sub000/internal/domain/maintenance"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTaskRepository implements maintenance.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByIDForOwner finds a maintenance task by ID for a specific owner
func (r *GormTaskRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*maintenance.Task, error) {
	var model models.MaintenanceTaskModel
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

// FindAllForOwner finds all maintenance tasks for an owner with filtering
func (r *GormTaskRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]maintenance.Task, error) {
	var taskModels []models.MaintenanceTaskModel
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.MaintenanceTaskModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	query = paginate(query, filter, MaintenanceTaskSortFields, "created_at DESC")

	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]maintenance.Task, len(taskModels))
	for i := range taskModels {
		tasks[i] = *taskModels[i].ToDomain()
	}
	return tasks, nil
}

// CountForOwner counts maintenance tasks for an owner with optional filters
func (r *GormTaskRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.MaintenanceTaskModel{}).Where("owner_id = ?", ownerID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenByProperty counts tasks on a property that are not yet closed
func (r *GormTaskRepository) CountOpenByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MaintenanceTaskModel{}).
		Where("owner_id = ? AND property_id = ? AND status IN ?", ownerID, propertyID,
			[]maintenance.Status{maintenance.StatusOpen, maintenance.StatusInProgress}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a task with an optimistic version check
func (r *GormTaskRepository) Save(ctx context.Context, t *maintenance.Task) error {
	return saveVersioned(r.db.WithContext(ctx), models.MaintenanceTaskModelFromDomain(t), t.OwnerID, t.Version)
}

// DeleteForOwner deletes a task for an owner
func (r *GormTaskRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(r.db.WithContext(ctx), &models.MaintenanceTaskModel{}, ownerID, id)
}

func (r *GormTaskRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "overdue_on":
			if d, ok := filterDate(value); ok {
				query = query.Where("status IN ? AND due_date IS NOT NULL AND due_date < ?",
					[]string{string(maintenance.StatusOpen), string(maintenance.StatusInProgress)}, d)
			}
		}
	}
	return query
}

// Ensure GormTaskRepository implements TaskRepository
var _ maintenance.TaskRepository = (*GormTaskRepository)(nil)
