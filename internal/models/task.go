package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Labels is the fixed label vocabulary tasks may carry.
var Labels = []string{"work", "personal", "urgent", "shopping", "health", "finance", "learning"}

// Attachment references an externally stored binary object.
type Attachment struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Comment is an append-only task annotation.
type Comment struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	UserID       uint64         `gorm:"not null;index" json:"user_id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Priority     TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Progress     int            `gorm:"not null;default:0" json:"progress"`
	DueDate      time.Time      `json:"due_date"`
	CompletedAt  *time.Time     `json:"completed_at"`
	Attachments  []Attachment   `gorm:"serializer:json" json:"attachments"`
	TimeSpent    int64          `gorm:"not null;default:0" json:"time_spent"`
	Labels       []string       `gorm:"serializer:json" json:"labels"`
	Dependencies []uint64       `gorm:"serializer:json" json:"dependencies"`
	Comments     []Comment      `gorm:"serializer:json" json:"comments"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// ValidPriority reports whether p is a member of the priority enum.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// ValidStatus reports whether s is a member of the status enum.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// ValidLabel reports whether l belongs to the fixed label vocabulary.
func ValidLabel(l string) bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// StatusForProgress derives the task status implied by a progress value.
// Progress is the single source of truth whenever it is supplied: 100 means
// completed, 0 means pending, anything in between means in-progress.
func StatusForProgress(progress int) TaskStatus {
	switch {
	case progress >= 100:
		return TaskStatusCompleted
	case progress <= 0:
		return TaskStatusPending
	default:
		return TaskStatusInProgress
	}
}

// ClampProgress bounds a progress value to [0,100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
