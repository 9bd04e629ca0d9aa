package maintenance

import (
	"context"

	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// TaskRepository defines the interface for maintenance task persistence
type TaskRepository interface {
	FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*Task, error)
	// FindAllForOwner supports the property_id, status, priority and
	// assigned_to filters; overdue_on (civil.Date) keeps unfinished tasks due before that day
	FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Task, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error)
	// CountOpenByProperty counts tasks that are neither completed nor cancelled
	CountOpenByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (int64, error)
	Save(ctx context.Context, t *Task) error
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
}
