package dto

import (
	"time"

	"github.com/taskpulse/taskpulse-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	UserID       uint64              `json:"user_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	Progress     int                 `json:"progress"`
	DueDate      time.Time           `json:"due_date"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
	Attachments  []models.Attachment `json:"attachments"`
	TimeSpent    int64               `json:"time_spent"`
	Labels       []string            `json:"labels"`
	Dependencies []uint64            `json:"dependencies"`
	Comments     []models.Comment    `json:"comments"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		UserID:       task.UserID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       task.Status,
		Progress:     task.Progress,
		DueDate:      task.DueDate,
		CompletedAt:  task.CompletedAt,
		Attachments:  task.Attachments,
		TimeSpent:    task.TimeSpent,
		Labels:       task.Labels,
		Dependencies: task.Dependencies,
		Comments:     task.Comments,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
