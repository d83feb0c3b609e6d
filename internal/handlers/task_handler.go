package handlers

import (
	"net/http"

	"task-tracker-api/internal/models"
	"task-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string               `json:"title" binding:"required,notblank,max=255"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *models.Date         `json:"dueDate" binding:"omitempty,futuredate"`
}

// UpdateTaskRequest represents the request payload for replacing a task.
// Status and priority are mandatory so a task never loses them.
type UpdateTaskRequest struct {
	Title       string               `json:"title" binding:"required,notblank,max=255"`
	Description *string              `json:"description" binding:"omitempty,max=1000"`
	Status      *models.TaskStatus   `json:"status" binding:"required,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	Priority    *models.TaskPriority `json:"priority" binding:"required,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *models.Date         `json:"dueDate" binding:"omitempty,futuredate"`
}

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// GetTasks returns all tasks
// GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// SearchTasks returns tasks whose title contains the "title" query parameter
// GET /api/tasks/search?title=
func (h *TaskHandler) SearchTasks(c *gin.Context) {
	tasks, err := h.tasks.Search(c.Request.Context(), c.Query("title"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetOverdueTasks returns unfinished tasks past their due date
// GET /api/tasks/overdue
func (h *TaskHandler) GetOverdueTasks(c *gin.Context) {
	tasks, err := h.tasks.ListOverdue(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTasksByStatus filters tasks by status, ignoring case
// GET /api/tasks/status/:status
func (h *TaskHandler) GetTasksByStatus(c *gin.Context) {
	tasks, err := h.tasks.ListByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTasksByPriority filters tasks by priority, ignoring case
// GET /api/tasks/priority/:priority
func (h *TaskHandler) GetTasksByPriority(c *gin.Context) {
	tasks, err := h.tasks.ListByPriority(c.Request.Context(), c.Param("priority"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask returns a single task
// GET /api/tasks/:id
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), models.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// UpdateTask replaces the editable fields of a task
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, models.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CompleteTask marks a task as completed
// PATCH /api/tasks/:id/complete
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Complete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      id,
	})
}
