package maintenance

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/maintenance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest opens a maintenance task on a property
type CreateTaskRequest struct {
	PropertyID  uuid.UUID `json:"property_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Priority    string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *string   `json:"due_date" binding:"omitempty,iso_date"`
	AssignedTo  string    `json:"assigned_to" binding:"max=200"`
}

// UpdateTaskRequest is a full edit of the descriptive fields of a task
type UpdateTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=5000"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate     *string `json:"due_date" binding:"omitempty,iso_date"`
	AssignedTo  string  `json:"assigned_to" binding:"max=200"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// CompleteTaskRequest closes a task with its final cost
type CompleteTaskRequest struct {
	Cost *decimal.Decimal `json:"cost"`
}

// TaskListFilter represents filter options for listing tasks
type TaskListFilter struct {
	PropertyID *uuid.UUID `form:"property_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=open in_progress completed cancelled"`
	Priority   string     `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo string     `form:"assigned_to"`
	Overdue    bool       `form:"overdue"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TaskResponse represents a maintenance task in API responses
type TaskResponse struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    string          `json:"priority"`
	Status      string          `json:"status"`
	DueDate     *civil.Date     `json:"due_date,omitempty"`
	Overdue     bool            `json:"overdue"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	AssignedTo  string          `json:"assigned_to,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToTaskResponse converts a task to its response as seen on day today
func ToTaskResponse(t *maintenance.Task, today civil.Date) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		PropertyID:  t.PropertyID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		Overdue:     t.IsOverdue(today),
		CompletedAt: t.CompletedAt,
		Cost:        t.Cost,
		AssignedTo:  t.AssignedTo,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of tasks
func ToTaskResponses(tasks []maintenance.Task, today civil.Date) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = ToTaskResponse(&tasks[i], today)
	}
	return responses
}
