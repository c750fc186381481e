package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskService(t *testing.T) (*TaskService, *fakeStorage, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	objects := &fakeStorage{}
	return NewTaskService(repository.NewTaskRepository(db), objects), objects, db
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func TestTaskService_CreateDefaults(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Equal(t, 0, task.Progress)
	require.False(t, task.DueDate.IsZero())
}

func TestTaskService_CreateRequiresTitleAndDescription(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	_, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{Title: "x"})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.CreateTask(context.Background(), 1, CreateTaskInput{Description: "x"})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestTaskService_ProgressDrivesStatus(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	cases := []struct {
		progress int
		want     models.TaskStatus
	}{
		{0, models.TaskStatusPending},
		{1, models.TaskStatusInProgress},
		{99, models.TaskStatusInProgress},
		{100, models.TaskStatusCompleted},
	}

	for _, tc := range cases {
		task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
			Title:       "t",
			Description: "d",
			Progress:    intPtr(tc.progress),
		})
		require.NoError(t, err)
		require.Equal(t, tc.want, task.Status, "progress %d", tc.progress)
	}
}

func TestTaskService_ProgressClamped(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Progress: intPtr(150),
	})
	require.NoError(t, err)
	require.Equal(t, 100, task.Progress)
	require.Equal(t, models.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
}

func TestTaskService_ExplicitStatusWithoutProgress(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Status: models.TaskStatusInProgress,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, task.Status)
}

func TestTaskService_UpdateProgressOverridesStatus(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d",
	})
	require.NoError(t, err)

	// Progress wins over the explicit status in the same patch.
	updated, err := svc.UpdateTask(context.Background(), task.ID, 1, UpdateTaskInput{
		Progress: intPtr(100),
		Status:   statusPtr(models.TaskStatusPending),
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	// Dropping back out of completed clears the completion timestamp.
	updated, err = svc.UpdateTask(context.Background(), task.ID, 1, UpdateTaskInput{
		Progress: intPtr(50),
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.Nil(t, updated.CompletedAt)
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "private", Description: "d",
	})
	require.NoError(t, err)

	// Another user can neither see, update nor delete it.
	_, err = svc.GetTask(task.ID, 2)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.UpdateTask(context.Background(), task.ID, 2, UpdateTaskInput{Title: strPtr("stolen")})
	require.ErrorIs(t, err, ErrTaskNotFound)

	err = svc.DeleteTask(context.Background(), task.ID, 2)
	require.ErrorIs(t, err, ErrTaskNotFound)

	othersTasks, err := svc.ListTasks(2)
	require.NoError(t, err)
	require.Empty(t, othersTasks)

	ownTasks, err := svc.ListTasks(1)
	require.NoError(t, err)
	require.Len(t, ownTasks, 1)
}

func TestTaskService_AttachmentLimit(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	uris := make([]string, 6)
	for i := range uris {
		uris[i] = "data:image/png;base64,aGVsbG8="
	}

	_, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", AttachmentDataURIs: uris,
	})
	require.ErrorIs(t, err, ErrTooManyAttachments)
}

func TestTaskService_DeleteReleasesAttachments(t *testing.T) {
	svc, objects, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title:       "t",
		Description: "d",
		AttachmentDataURIs: []string{
			"data:image/png;base64,aGVsbG8=",
			"data:image/png;base64,d29ybGQ=",
		},
	})
	require.NoError(t, err)
	require.Len(t, task.Attachments, 2)

	require.NoError(t, svc.DeleteTask(context.Background(), task.ID, 1))
	require.Len(t, objects.destroyed, 2)
	require.Contains(t, objects.destroyed, task.Attachments[0].PublicID)
	require.Contains(t, objects.destroyed, task.Attachments[1].PublicID)

	_, err = svc.GetTask(task.ID, 1)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_LabelVocabulary(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	_, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Labels: []string{"work", "nonsense"},
	})
	require.ErrorIs(t, err, ErrUnknownLabel)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Labels: []string{"work", "urgent"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"work", "urgent"}, task.Labels)
}

func TestTaskService_DependenciesMustBeOwned(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	mine, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "mine", Description: "d",
	})
	require.NoError(t, err)

	theirs, err := svc.CreateTask(context.Background(), 2, CreateTaskInput{
		Title: "theirs", Description: "d",
	})
	require.NoError(t, err)

	_, err = svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Dependencies: []uint64{theirs.ID},
	})
	require.ErrorIs(t, err, ErrInvalidDependency)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d", Dependencies: []uint64{mine.ID},
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{mine.ID}, task.Dependencies)
}

func TestTaskService_TimeSpent(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(context.Background(), task.ID, 1, UpdateTaskInput{
		TimeSpent: int64Ptr(90),
	})
	require.NoError(t, err)
	require.Equal(t, int64(90), updated.TimeSpent)

	_, err = svc.UpdateTask(context.Background(), task.ID, 1, UpdateTaskInput{
		TimeSpent: int64Ptr(-1),
	})
	require.ErrorIs(t, err, ErrNegativeTimeSpent)
}

func TestTaskService_AddComment(t *testing.T) {
	svc, _, _ := setupTaskService(t)

	task, err := svc.CreateTask(context.Background(), 1, CreateTaskInput{
		Title: "t", Description: "d",
	})
	require.NoError(t, err)

	updated, err := svc.AddComment(task.ID, 1, "alice", "looks good")
	require.NoError(t, err)
	require.Len(t, updated.Comments, 1)
	require.Equal(t, "alice", updated.Comments[0].Author)
	require.WithinDuration(t, time.Now(), updated.Comments[0].CreatedAt, time.Minute)

	_, err = svc.AddComment(task.ID, 1, "alice", "   ")
	require.ErrorIs(t, err, ErrCommentTextRequired)
}
