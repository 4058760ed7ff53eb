package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskplanner/internal/repository"
	"taskplanner/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errCreateTask = "failed to create task"
	errListTasks  = "failed to list tasks"
	errGetTask    = "failed to load task"
	errUpdateTask = "failed to update task"
	errDeleteTask = "failed to delete task"

	errInvalidTaskID = "invalid task id"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// isValidationErr reports whether the task service rejected the input.
func isValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidTitle) ||
		errors.Is(err, service.ErrInvalidDescription) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidPriority) ||
		errors.Is(err, service.ErrInvalidCategory) ||
		errors.Is(err, service.ErrInvalidEstimate)
}

// Request DTO for creating a task.
type taskCreateRequest struct {
	Title            string     `json:"title" binding:"required,min=1,max=200"`
	Description      string     `json:"description" binding:"max=1000"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	Category         string     `json:"category"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Deadline         *time.Time `json:"deadline"`
}

// Request DTO for partial task updates; absent fields stay unchanged.
type taskUpdateRequest struct {
	Title            *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string    `json:"description" binding:"omitempty,max=1000"`
	Status           *string    `json:"status"`
	Priority         *string    `json:"priority"`
	Category         *string    `json:"category"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Deadline         *time.Time `json:"deadline"`
}

// taskIDParam parses the :id path segment; writes a 400 on failure.
func taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidTaskID})
		return 0, false
	}
	return id, true
}

// @Summary      Create task
// @Description  Missing category/estimate are filled in by the advisor when a description is present
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body   taskCreateRequest  true  "Task payload"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/tasks [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	var req taskCreateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	userID, _ := currentUserID(c)
	ctx := c.Request.Context()

	t, err := h.services.Tasks.Create(ctx, userID, service.TaskCreateParams{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		Category:         req.Category,
		EstimatedMinutes: req.EstimatedMinutes,
		Deadline:         req.Deadline,
	})
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errCreateTask, "task_create_failed", err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Param        status    query  string  false  "Status filter"    Enums(new,in_progress,done)
// @Param        category  query  string  false  "Category filter"  Enums(work,personal,health,learning,other)
// @Param        limit     query  int     false  "Page size (1-100, default 100)"
// @Param        offset    query  int     false  "Offset (default 0)"
// @Success      200  {object}  map[string]interface{}  "count, tasks"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/tasks [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	userID, _ := currentUserID(c)
	ctx := c.Request.Context()

	f := repository.TaskFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.Limit = v
		}
	}
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.Offset = v
		}
	}

	tasks, err := h.services.Tasks.List(ctx, userID, f)
	if err != nil {
		if isValidationErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListTasks, "task_list_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(tasks),
		"tasks": tasks,
	})
}

// @Summary      Get task by ID
// @Tags         tasks
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	ctx := c.Request.Context()

	t, err := h.services.Tasks.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetTask, "task_get_failed", err, "id", id)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Update task
// @Description  Only provided fields change
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "Task ID"
// @Param        body  body  taskUpdateRequest  true  "Fields to update"
// @Success      200  {object}  models.Task
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	var req taskUpdateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	userID, _ := currentUserID(c)
	ctx := c.Request.Context()

	t, err := h.services.Tasks.Update(ctx, userID, id, service.TaskUpdateParams{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		Category:         req.Category,
		EstimatedMinutes: req.EstimatedMinutes,
		Deadline:         req.Deadline,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case isValidationErr(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errUpdateTask, "task_update_failed", err, "id", id)
		}
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Success      204  "deleted"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}
	userID, _ := currentUserID(c)
	ctx := c.Request.Context()

	if err := h.services.Tasks.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeleteTask, "task_delete_failed", err, "id", id)
		return
	}

	c.Status(http.StatusNoContent)
}
