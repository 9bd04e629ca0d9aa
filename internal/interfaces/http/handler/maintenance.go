package handler

import (
	maintenanceapp "github.com/dansever/estait-app-sub000/internal/application/maintenance"
	"github.com/gin-gonic/gin"
)

// MaintenanceHandler handles maintenance task endpoints
type MaintenanceHandler struct {
	BaseHandler
	taskService *maintenanceapp.TaskService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(taskService *maintenanceapp.TaskService) *MaintenanceHandler {
	return &MaintenanceHandler{taskService: taskService}
}

// Create godoc
// @ID           createMaintenanceTask
// @Summary      Open a maintenance task
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        request body maintenanceapp.CreateTaskRequest true "Task creation request"
// @Success      201 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks [post]
func (h *MaintenanceHandler) Create(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req maintenanceapp.CreateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, task)
}

// GetByID godoc
// @ID           getMaintenanceTaskById
// @Summary      Get maintenance task by ID
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id} [get]
func (h *MaintenanceHandler) GetByID(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(c.Request.Context(), ownerID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// List godoc
// @ID           listMaintenanceTasks
// @Summary      List maintenance tasks
// @Tags         maintenance
// @Produce      json
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status      query string false "Status" Enums(open, in_progress, completed, cancelled)
// @Param        priority    query string false "Priority" Enums(low, medium, high, urgent)
// @Param        assigned_to query string false "Assignee"
// @Param        overdue     query bool   false "Only open tasks past their due date"
// @Param        search      query string false "Search term (title, description)"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size" default(20) maximum(100)
// @Param        order_by    query string false "Order by field"
// @Param        order_dir   query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]maintenanceapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks [get]
func (h *MaintenanceHandler) List(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var filter maintenanceapp.TaskListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, tasks, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateMaintenanceTask
// @Summary      Update a maintenance task
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string true "Task ID" format(uuid)
// @Param        request body maintenanceapp.UpdateTaskRequest true "Task update request"
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id} [put]
func (h *MaintenanceHandler) Update(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req maintenanceapp.UpdateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), ownerID, taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Start godoc
// @ID           startMaintenanceTask
// @Summary      Start work on a task
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id}/start [post]
func (h *MaintenanceHandler) Start(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Start(c.Request.Context(), ownerID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Complete godoc
// @ID           completeMaintenanceTask
// @Summary      Complete a task
// @Description  Closes the task with an optional final cost
// @Tags         maintenance
// @Accept       json
// @Produce      json
// @Param        id      path string true "Task ID" format(uuid)
// @Param        request body maintenanceapp.CompleteTaskRequest false "Completion details"
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id}/complete [post]
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req maintenanceapp.CompleteTaskRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Complete(c.Request.Context(), ownerID, taskID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Cancel godoc
// @ID           cancelMaintenanceTask
// @Summary      Cancel a task
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id}/cancel [post]
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Cancel(c.Request.Context(), ownerID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Reopen godoc
// @ID           reopenMaintenanceTask
// @Summary      Reopen a closed task
// @Tags         maintenance
// @Produce      json
// @Param        id path string true "Task ID" format(uuid)
// @Success      200 {object} APIResponse[maintenanceapp.TaskResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id}/reopen [post]
func (h *MaintenanceHandler) Reopen(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Reopen(c.Request.Context(), ownerID, taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, task)
}

// Delete godoc
// @ID           deleteMaintenanceTask
// @Summary      Delete a task
// @Tags         maintenance
// @Param        id path string true "Task ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /maintenance-tasks/{id} [delete]
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	ownerID, ok := h.requireOwner(c)
	if !ok {
		return
	}
	taskID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), ownerID, taskID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
