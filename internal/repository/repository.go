package repository

import (
	"github.com/taskpulse/taskpulse-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ExistsByEmailOrUsername reports whether a user with either credential exists
	ExistsByEmailOrUsername(email, username string) (bool, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// TaskRepository defines the interface for task data access.
// Every lookup and mutation is scoped to the owning user.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID owned by the given user
	FindByIDAndOwner(id, userID uint64) (*models.Task, error)

	// ListByOwner retrieves all tasks owned by a user, newest first
	ListByOwner(userID uint64) ([]models.Task, error)

	// CountByIDsAndOwner counts how many of the given task IDs the user owns
	CountByIDsAndOwner(ids []uint64, userID uint64) (int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task owned by the given user
	Delete(id, userID uint64) error

	// CountByOwner counts a user's tasks, optionally restricted to a status
	CountByOwner(userID uint64, status *models.TaskStatus) (int64, error)
}
