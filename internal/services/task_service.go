package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/constants"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title and description are required")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrInvalidDependency   = errors.New("dependencies must reference your own tasks")
	ErrTooManyAttachments  = errors.New("too many attachments")
	ErrNegativeTimeSpent   = errors.New("time spent cannot be negative")
	ErrCommentTextRequired = errors.New("comment text is required")
	ErrAttachmentUpload    = errors.New("failed to upload attachment")
)

// TaskService handles task business logic. Every operation is scoped to the
// owning user; a task is never visible or mutable by a non-owner.
type TaskService struct {
	taskRepo repository.TaskRepository
	objects  storage.ObjectStorage
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, objects storage.ObjectStorage) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		objects:  objects,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Priority     models.TaskPriority
	Status       models.TaskStatus
	Progress     *int
	DueDate      *time.Time
	Labels       []string
	Dependencies []uint64
	// AttachmentDataURIs are relayed to object storage, at most
	// constants.MaxAttachmentsPerRequest per call.
	AttachmentDataURIs []string
}

// UpdateTaskInput represents a partial task update
type UpdateTaskInput struct {
	Title              *string
	Description        *string
	Priority           *models.TaskPriority
	Status             *models.TaskStatus
	Progress           *int
	DueDate            *time.Time
	TimeSpent          *int64
	Labels             []string
	Dependencies       []uint64
	AttachmentDataURIs []string
}

// ListTasks returns all tasks owned by a user, newest first
func (s *TaskService) ListTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task owned by the user
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a new task for the user
func (s *TaskService) CreateTask(ctx context.Context, userID uint64, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, ErrTitleRequired
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}

	if err := s.validateLabels(input.Labels); err != nil {
		return nil, err
	}
	if err := s.validateDependencies(input.Dependencies, userID); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		Priority:     input.Priority,
		Status:       models.TaskStatusPending,
		Labels:       input.Labels,
		Dependencies: input.Dependencies,
	}

	// Progress drives status when present; an explicit status is honored
	// only without a progress value.
	if input.Progress != nil {
		task.Progress = models.ClampProgress(*input.Progress)
		task.Status = models.StatusForProgress(task.Progress)
	} else if input.Status != "" {
		if !models.ValidStatus(input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = input.Status
	}

	now := time.Now()
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	} else {
		task.DueDate = now
	}
	if task.Status == models.TaskStatusCompleted {
		task.CompletedAt = &now
	}

	attachments, err := s.uploadAttachments(ctx, input.AttachmentDataURIs)
	if err != nil {
		return nil, err
	}
	task.Attachments = attachments

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update to a task owned by the user
func (s *TaskService) UpdateTask(ctx context.Context, taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Labels != nil {
		if err := s.validateLabels(input.Labels); err != nil {
			return nil, err
		}
		task.Labels = input.Labels
	}
	if input.Dependencies != nil {
		if err := s.validateDependencies(input.Dependencies, userID); err != nil {
			return nil, err
		}
		task.Dependencies = input.Dependencies
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.TimeSpent != nil {
		if *input.TimeSpent < 0 {
			return nil, ErrNegativeTimeSpent
		}
		task.TimeSpent = *input.TimeSpent
	}

	if input.Progress != nil {
		task.Progress = models.ClampProgress(*input.Progress)
		task.Status = models.StatusForProgress(task.Progress)
	} else if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	if task.Status == models.TaskStatusCompleted {
		if task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	} else {
		task.CompletedAt = nil
	}

	if len(input.AttachmentDataURIs) > 0 {
		attachments, err := s.uploadAttachments(ctx, input.AttachmentDataURIs)
		if err != nil {
			return nil, err
		}
		task.Attachments = attachments
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// AddComment appends a comment to a task owned by the user
func (s *TaskService) AddComment(taskID, userID uint64, author, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextRequired
	}

	task, err := s.taskRepo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Comments = append(task.Comments, models.Comment{
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	})

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by the user and releases its stored
// attachment objects. The deletion is durable before the release; a storage
// failure at that point is logged, not surfaced.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID uint64) error {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	for _, attachment := range task.Attachments {
		if err := s.objects.Destroy(ctx, attachment.PublicID); err != nil {
			log.Printf("failed to release attachment %s: %v", attachment.PublicID, err)
		}
	}

	return nil
}

func (s *TaskService) uploadAttachments(ctx context.Context, dataURIs []string) ([]models.Attachment, error) {
	if len(dataURIs) == 0 {
		return nil, nil
	}
	if len(dataURIs) > constants.MaxAttachmentsPerRequest {
		return nil, ErrTooManyAttachments
	}

	attachments := make([]models.Attachment, 0, len(dataURIs))
	for _, uri := range dataURIs {
		obj, err := s.objects.Upload(ctx, uri, constants.TaskAttachmentFolder)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAttachmentUpload, err)
		}
		attachments = append(attachments, models.Attachment{PublicID: obj.PublicID, URL: obj.URL})
	}
	return attachments, nil
}

func (s *TaskService) validateLabels(labels []string) error {
	for _, label := range labels {
		if !models.ValidLabel(label) {
			return fmt.Errorf("%w: %s", ErrUnknownLabel, label)
		}
	}
	return nil
}

func (s *TaskService) validateDependencies(deps []uint64, userID uint64) error {
	if len(deps) == 0 {
		return nil
	}

	unique := make([]uint64, 0, len(deps))
	seen := make(map[uint64]struct{}, len(deps))
	for _, id := range deps {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	count, err := s.taskRepo.CountByIDsAndOwner(unique, userID)
	if err != nil {
		return fmt.Errorf("failed to verify dependencies: %w", err)
	}
	if int(count) != len(unique) {
		return ErrInvalidDependency
	}
	return nil
}
