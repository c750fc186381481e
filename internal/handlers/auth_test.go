package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse-api/internal/constants"
	"github.com/taskpulse/taskpulse-api/internal/database"
	"github.com/taskpulse/taskpulse-api/internal/dto"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"github.com/taskpulse/taskpulse-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeStorage is an in-memory ObjectStorage double.
type fakeStorage struct {
	uploads   int
	destroyed []string
}

func (f *fakeStorage) Upload(ctx context.Context, dataURI, folder string) (storage.Object, error) {
	f.uploads++
	id := fmt.Sprintf("%s/obj-%d", folder, f.uploads)
	return storage.Object{PublicID: id, URL: "https://objects.test/" + id}, nil
}

func (f *fakeStorage) Destroy(ctx context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	tokens      *services.TokenService
	objects     *fakeStorage
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokens := services.NewTokenService("test-secret")
	objects := &fakeStorage{}
	authService := services.NewAuthService(userRepo, taskRepo, tokens, objects)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		tokens:      tokens,
		objects:     objects,
	}
}

func registerForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	body, contentType := registerForm(t, map[string]string{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "supersecret",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newuser", response.User.Username)
	require.NotEmpty(t, response.Token)

	// The issued token resolves back to the new user.
	userID, err := env.tokens.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, userID)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	body, contentType := registerForm(t, map[string]string{
		"username": "existing",
		"email":    "another@example.com",
		"password": "supersecret",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "User already exists")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "existing", response.User.Username)
	require.NotEmpty(t, response.Token)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, _, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	payload := map[string]string{
		"email":    "existing@example.com",
		"password": "wrong-password",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestAuthHandler_Stats(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, _, err := env.authService.Register(context.Background(), services.RegisterInput{
		Username: "counter",
		Email:    "counter@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Create(&models.Task{
		UserID: user.ID, Title: "a", Description: "d", Status: models.TaskStatusCompleted,
	}).Error)
	require.NoError(t, env.db.Create(&models.Task{
		UserID: user.ID, Title: "b", Description: "d", Status: models.TaskStatusPending,
	}).Error)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handler.Stats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats services.QuickStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, int64(2), stats.TotalTasks)
	require.Equal(t, int64(1), stats.CompletedTasks)
}
