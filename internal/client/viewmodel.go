package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/dto"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/stats"
)

// Filter names accepted by TaskList.Filter.
const (
	FilterAll        = "all"
	FilterPending    = "pending"
	FilterInProgress = "in-progress"
	FilterCompleted  = "completed"
	FilterToday      = "today"
)

// TaskList holds the authoritative-from-server task list and mediates
// create/update/delete round trips. The server's returned representation
// always wins over the local guess; a failed round trip leaves the list
// untouched.
type TaskList struct {
	client *Client
	now    func() time.Time

	mu    sync.Mutex
	tasks []dto.TaskDTO
}

// NewTaskList creates a view-model bound to the given client.
func NewTaskList(client *Client) *TaskList {
	return &TaskList{
		client: client,
		now:    time.Now,
	}
}

// Load fetches the full task list and replaces the in-memory list wholesale.
func (l *TaskList) Load(ctx context.Context) error {
	tasks, err := l.client.ListTasks(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.tasks = tasks
	l.mu.Unlock()
	return nil
}

// Tasks returns a snapshot of the current list.
func (l *TaskList) Tasks() []dto.TaskDTO {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]dto.TaskDTO, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Filter produces a derived view without mutating the authoritative list.
// Filtering is by status or due-today; search is a case-insensitive substring
// match over title and description. Order is preserved.
func (l *TaskList) Filter(filter, query string) []dto.TaskDTO {
	l.mu.Lock()
	defer l.mu.Unlock()

	query = strings.ToLower(query)
	today := l.now().Format("2006-01-02")

	out := make([]dto.TaskDTO, 0, len(l.tasks))
	for _, task := range l.tasks {
		if query != "" &&
			!strings.Contains(strings.ToLower(task.Title), query) &&
			!strings.Contains(strings.ToLower(task.Description), query) {
			continue
		}

		switch filter {
		case FilterPending, FilterInProgress, FilterCompleted:
			if string(task.Status) != filter {
				continue
			}
		case FilterToday:
			if task.DueDate.IsZero() || task.DueDate.Format("2006-01-02") != today {
				continue
			}
		}

		out = append(out, task)
	}
	return out
}

// Create performs the create round trip and appends the server's
// representation to the list.
func (l *TaskList) Create(ctx context.Context, draft TaskDraft) (*dto.TaskDTO, error) {
	task, err := l.client.CreateTask(ctx, draft)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, *task)
	l.mu.Unlock()
	return task, nil
}

// Update performs the update round trip and adopts the server's
// representation for the matching entry.
func (l *TaskList) Update(ctx context.Context, id uint64, patch TaskPatch) (*dto.TaskDTO, error) {
	task, err := l.client.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i] = *task
			break
		}
	}
	l.mu.Unlock()
	return task, nil
}

// Delete performs the delete round trip and removes the entry locally; the
// server returns no body of consequence.
func (l *TaskList) Delete(ctx context.Context, id uint64) error {
	if err := l.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	kept := l.tasks[:0]
	for _, task := range l.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	l.tasks = kept
	l.mu.Unlock()
	return nil
}

// Stats derives the dashboard metrics from the loaded list.
func (l *TaskList) Stats() stats.Stats {
	return stats.Compute(l.modelTasks(), l.now())
}

// Achievements evaluates the badge catalog against the loaded list.
func (l *TaskList) Achievements() []stats.Achievement {
	now := l.now()
	return stats.Achievements(stats.Compute(l.modelTasks(), now), now)
}

// modelTasks converts the snapshot into model records for the stats engine.
func (l *TaskList) modelTasks() []models.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]models.Task, len(l.tasks))
	for i, task := range l.tasks {
		out[i] = models.Task{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.Priority,
			Status:      task.Status,
			Progress:    task.Progress,
			DueDate:     task.DueDate,
			CompletedAt: task.CompletedAt,
			TimeSpent:   task.TimeSpent,
		}
	}
	return out
}

// find returns a copy of the entry with the given id.
func (l *TaskList) find(id uint64) (dto.TaskDTO, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, task := range l.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return dto.TaskDTO{}, false
}

// setTimeSpent updates a single entry's elapsed seconds in place.
func (l *TaskList) setTimeSpent(id uint64, seconds int64) {
	l.mu.Lock()
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			l.tasks[i].TimeSpent = seconds
			break
		}
	}
	l.mu.Unlock()
}
