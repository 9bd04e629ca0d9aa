package maintenance

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority ranks the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is a known Priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status represents the progress of a task
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsClosed reports whether no more work is expected
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusOpen:
		return target == StatusInProgress || target == StatusCompleted || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled || target == StatusOpen
	case StatusCompleted, StatusCancelled:
		return target == StatusOpen
	}
	return false
}

var ErrInvalidTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Task cannot move to the requested status")

// Task is a maintenance job on a property
type Task struct {
	shared.OwnedAggregateRoot
	PropertyID  uuid.UUID
	Title       string
	Description string
	Priority    Priority
	Status      Status
	DueDate     *civil.Date
	CompletedAt *time.Time
	Cost        decimal.Decimal
	AssignedTo  string
}

// TaskOption sets optional fields of a new task
type TaskOption func(*Task)

// WithAssignee records who is doing the work from the start
func WithAssignee(assignee string) TaskOption {
	return func(t *Task) {
		t.AssignedTo = strings.TrimSpace(assignee)
	}
}

// NewTask creates an open task
func NewTask(ownerID, propertyID uuid.UUID, title, description string, priority Priority, dueDate *civil.Date, opts ...TaskOption) (*Task, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID cannot be empty")
	}
	t := &Task{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		PropertyID:         propertyID,
		Status:             StatusOpen,
		Cost:               decimal.Zero,
	}
	if err := t.apply(title, description, priority, dueDate); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(t)
	}
	t.AddDomainEvent(NewTaskEvent(EventTypeTaskCreated, t))
	return t, nil
}

func (t *Task) apply(title, description string, priority Priority, dueDate *civil.Date) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Task title cannot exceed 200 characters")
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}
	if dueDate != nil && !dueDate.IsValid() {
		return shared.NewDomainError("INVALID_DATE", "Due date is not a valid calendar date")
	}
	t.Title = title
	t.Description = strings.TrimSpace(description)
	t.Priority = priority
	t.DueDate = dueDate
	return nil
}

// Update edits the descriptive fields and the assignee of the task
func (t *Task) Update(title, description string, priority Priority, dueDate *civil.Date, assignee string) error {
	if err := t.apply(title, description, priority, dueDate); err != nil {
		return err
	}
	t.AssignedTo = strings.TrimSpace(assignee)
	t.MarkModified()
	return nil
}

// Start moves the task to in_progress
func (t *Task) Start() error {
	return t.transition(StatusInProgress)
}

// Complete closes the task with its final cost
func (t *Task) Complete(cost decimal.Decimal, at time.Time) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	if err := t.transition(StatusCompleted); err != nil {
		return err
	}
	t.Cost = cost
	t.CompletedAt = &at
	return nil
}

// Cancel abandons the task
func (t *Task) Cancel() error {
	return t.transition(StatusCancelled)
}

// Reopen puts a closed or in-progress task back to open
func (t *Task) Reopen() error {
	if err := t.transition(StatusOpen); err != nil {
		return err
	}
	t.CompletedAt = nil
	return nil
}

func (t *Task) transition(target Status) error {
	if !t.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	from := t.Status
	t.Status = target
	t.MarkModified()
	e := NewTaskEvent(EventTypeTaskStatusChanged, t)
	e.From = from
	t.AddDomainEvent(e)
	return nil
}

// IsOverdue reports whether an unfinished task is past its due date on day now
func (t *Task) IsOverdue(now civil.Date) bool {
	if t.DueDate == nil || t.Status.IsClosed() {
		return false
	}
	return now.After(*t.DueDate)
}
