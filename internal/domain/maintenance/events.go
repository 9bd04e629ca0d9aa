package maintenance

import (
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeTask = "MaintenanceTask"

	EventTypeTaskCreated       = "MaintenanceTaskCreated"
	EventTypeTaskStatusChanged = "MaintenanceTaskStatusChanged"
)

// TaskEvent carries the state of a task change
type TaskEvent struct {
	shared.BaseDomainEvent
	TaskID     uuid.UUID `json:"task_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Title      string    `json:"title"`
	Priority   Priority  `json:"priority"`
	From       Status    `json:"from,omitempty"`
	Status     Status    `json:"status"`
}

// NewTaskEvent creates a task event of the given type
func NewTaskEvent(eventType string, t *Task) *TaskEvent {
	return &TaskEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTask, t.ID, t.OwnerID),
		TaskID:          t.ID,
		PropertyID:      t.PropertyID,
		Title:           t.Title,
		Priority:        t.Priority,
		Status:          t.Status,
	}
}
