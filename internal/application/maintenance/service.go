package maintenance

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/leasing"
	"github.com/dansever/estait-app-sub000/internal/domain/maintenance"
	"github.com/dansever/estait-app-sub000/internal/domain/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskService handles maintenance tasks
type TaskService struct {
	taskRepo     maintenance.TaskRepository
	propertyRepo property.PropertyRepository
	publisher    shared.EventPublisher
	clock        shared.Clock
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo maintenance.TaskRepository, propertyRepo property.PropertyRepository, publisher shared.EventPublisher, clock shared.Clock) *TaskService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &TaskService{
		taskRepo:     taskRepo,
		propertyRepo: propertyRepo,
		publisher:    publisher,
		clock:        clock,
	}
}

// Create opens a task on a property
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	exists, err := s.propertyRepo.ExistsForOwner(ctx, ownerID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	task, err := maintenance.NewTask(ownerID, req.PropertyID, req.Title, req.Description,
		maintenance.Priority(req.Priority), due, maintenance.WithAssignee(req.AssignedTo))
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, task)
	return s.respond(task), nil
}

// GetByID retrieves a task
func (s *TaskService) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	return s.respond(task), nil
}

// List retrieves tasks with filtering and pagination
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, filter TaskListFilter) ([]TaskResponse, int64, error) {
	today := shared.Today(s.clock)
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
	}.Normalize()

	if filter.PropertyID != nil {
		domainFilter.Filters["property_id"] = *filter.PropertyID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}
	if assignee := strings.TrimSpace(filter.AssignedTo); assignee != "" {
		domainFilter.Filters["assigned_to"] = assignee
	}
	if filter.Overdue {
		domainFilter.Filters["overdue_on"] = today
	}

	tasks, err := s.taskRepo.FindAllForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.taskRepo.CountForOwner(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTaskResponses(tasks, today), total, nil
}

// Update edits the descriptive fields of a task
func (s *TaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if req.Version != task.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	if err := task.Update(req.Title, req.Description, maintenance.Priority(req.Priority), due, req.AssignedTo); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return s.respond(task), nil
}

// Start moves a task to in_progress
func (s *TaskService) Start(ctx context.Context, ownerID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, ownerID, taskID, (*maintenance.Task).Start)
}

// Complete closes a task with its final cost
func (s *TaskService) Complete(ctx context.Context, ownerID, taskID uuid.UUID, req CompleteTaskRequest) (*TaskResponse, error) {
	cost := decimal.Zero
	if req.Cost != nil {
		cost = *req.Cost
	}
	completedAt := s.clock.Now()
	return s.transition(ctx, ownerID, taskID, func(t *maintenance.Task) error {
		return t.Complete(cost, completedAt)
	})
}

// Cancel abandons a task
func (s *TaskService) Cancel(ctx context.Context, ownerID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, ownerID, taskID, (*maintenance.Task).Cancel)
}

// Reopen puts a task back to open
func (s *TaskService) Reopen(ctx context.Context, ownerID, taskID uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, ownerID, taskID, (*maintenance.Task).Reopen)
}

func (s *TaskService) transition(ctx context.Context, ownerID, taskID uuid.UUID, apply func(*maintenance.Task) error) (*TaskResponse, error) {
	task, err := s.taskRepo.FindByIDForOwner(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if err := apply(task); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	_ = shared.PublishAndClear(ctx, s.publisher, task)
	return s.respond(task), nil
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := s.taskRepo.FindByIDForOwner(ctx, ownerID, taskID); err != nil {
		return err
	}
	return s.taskRepo.DeleteForOwner(ctx, ownerID, taskID)
}

func (s *TaskService) respond(task *maintenance.Task) *TaskResponse {
	resp := ToTaskResponse(task, shared.Today(s.clock))
	return &resp
}

func parseDueDate(s *string) (*civil.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := leasing.ParseDay(*s)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Due date must be a YYYY-MM-DD date")
	}
	return &d, nil
}
