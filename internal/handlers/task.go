package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskpulse/taskpulse-api/internal/dto"
	apierrors "github.com/taskpulse/taskpulse-api/internal/errors"
	"github.com/taskpulse/taskpulse-api/internal/middleware"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"github.com/taskpulse/taskpulse-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks owned by the caller, newest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		apierrors.InternalError(c, "Error fetching tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a task from a multipart form with up to five
// attachments.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.CreateTaskInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Priority:    models.TaskPriority(c.PostForm("priority")),
		Status:      models.TaskStatus(c.PostForm("status")),
	}

	if value, ok := c.GetPostForm("progress"); ok {
		progress, err := strconv.Atoi(value)
		if err != nil {
			apierrors.BadRequest(c, "Invalid progress value")
			return
		}
		input.Progress = &progress
	}
	if value, ok := c.GetPostForm("dueDate"); ok {
		due, err := parseDate(value)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due date")
			return
		}
		input.DueDate = &due
	}
	if values, ok := c.GetPostFormArray("labels"); ok {
		input.Labels = values
	}
	if values, ok := c.GetPostFormArray("dependencies"); ok {
		deps, err := parseIDs(values)
		if err != nil {
			apierrors.BadRequest(c, "Invalid dependency id")
			return
		}
		input.Dependencies = deps
	}

	dataURIs, err := attachmentDataURIs(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid attachment")
		return
	}
	input.AttachmentDataURIs = dataURIs

	task, err := h.taskService.CreateTask(c.Request.Context(), userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// taskPatch is the JSON shape of a partial task update.
type taskPatch struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Priority     *string  `json:"priority"`
	Status       *string  `json:"status"`
	Progress     *int     `json:"progress"`
	DueDate      *string  `json:"dueDate"`
	TimeSpent    *int64   `json:"timeSpent"`
	Labels       []string `json:"labels"`
	Dependencies []uint64 `json:"dependencies"`
}

// UpdateTask applies a partial update, accepting either JSON or a multipart
// form (the latter may carry replacement attachments).
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var input services.UpdateTaskInput
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		input, err = h.parseMultipartPatch(c)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
	} else {
		var patch taskPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		input, err = patchToInput(patch)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), taskID, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// AddComment appends a comment to the task.
func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	user, _ := middleware.GetUser(c)

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	type CommentRequest struct {
		Text string `json:"text" binding:"required"`
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Comment text is required")
		return
	}

	author := ""
	if user != nil {
		author = user.Username
	}

	task, err := h.taskService.AddComment(taskID, userID, author, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and releases its attachment objects.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) parseMultipartPatch(c *gin.Context) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if value, ok := c.GetPostForm("title"); ok {
		input.Title = &value
	}
	if value, ok := c.GetPostForm("description"); ok {
		input.Description = &value
	}
	if value, ok := c.GetPostForm("priority"); ok {
		priority := models.TaskPriority(value)
		input.Priority = &priority
	}
	if value, ok := c.GetPostForm("status"); ok {
		status := models.TaskStatus(value)
		input.Status = &status
	}
	if value, ok := c.GetPostForm("progress"); ok {
		progress, err := strconv.Atoi(value)
		if err != nil {
			return input, errors.New("invalid progress value")
		}
		input.Progress = &progress
	}
	if value, ok := c.GetPostForm("dueDate"); ok {
		due, err := parseDate(value)
		if err != nil {
			return input, errors.New("invalid due date")
		}
		input.DueDate = &due
	}
	if value, ok := c.GetPostForm("timeSpent"); ok {
		seconds, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return input, errors.New("invalid timeSpent value")
		}
		input.TimeSpent = &seconds
	}
	if values, ok := c.GetPostFormArray("labels"); ok {
		input.Labels = values
	}
	if values, ok := c.GetPostFormArray("dependencies"); ok {
		deps, err := parseIDs(values)
		if err != nil {
			return input, errors.New("invalid dependency id")
		}
		input.Dependencies = deps
	}

	dataURIs, err := attachmentDataURIs(c)
	if err != nil {
		return input, errors.New("invalid attachment")
	}
	input.AttachmentDataURIs = dataURIs

	return input, nil
}

func patchToInput(patch taskPatch) (services.UpdateTaskInput, error) {
	input := services.UpdateTaskInput{
		Title:        patch.Title,
		Description:  patch.Description,
		Progress:     patch.Progress,
		TimeSpent:    patch.TimeSpent,
		Labels:       patch.Labels,
		Dependencies: patch.Dependencies,
	}

	if patch.Priority != nil {
		priority := models.TaskPriority(*patch.Priority)
		input.Priority = &priority
	}
	if patch.Status != nil {
		status := models.TaskStatus(*patch.Status)
		input.Status = &status
	}
	if patch.DueDate != nil {
		due, err := parseDate(*patch.DueDate)
		if err != nil {
			return input, errors.New("invalid due date")
		}
		input.DueDate = &due
	}

	return input, nil
}

func attachmentDataURIs(c *gin.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["attachments"]
	dataURIs := make([]string, 0, len(files))
	for _, header := range files {
		uri, err := utils.FileToDataURI(header)
		if err != nil {
			return nil, err
		}
		dataURIs = append(dataURIs, uri)
	}
	return dataURIs, nil
}

func parseIDs(values []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUnknownLabel),
		errors.Is(err, services.ErrInvalidDependency),
		errors.Is(err, services.ErrTooManyAttachments),
		errors.Is(err, services.ErrNegativeTimeSpent),
		errors.Is(err, services.ErrCommentTextRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAttachmentUpload):
		apierrors.Upstream(c, "Error uploading file")
	default:
		apierrors.InternalError(c, "")
	}
}
