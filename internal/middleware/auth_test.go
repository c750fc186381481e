package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupAuthRouter(t *testing.T) (*gin.Engine, *services.TokenService, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	tokens := services.NewTokenService(testSecret)
	users := repository.NewUserRepository(db)

	r := gin.New()
	r.GET("/probe", RequireAuth(tokens, users), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		require.True(t, ok)
		user, ok := GetUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": user.Username})
	})

	return r, tokens, db
}

func probe(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingToken(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := probe(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "MISSING_TOKEN")

	// A non-bearer scheme counts as missing too.
	w = probe(r, "Basic dXNlcjpwYXNz")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	w := probe(r, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	other := services.NewTokenService("other-secret")
	token, err := other.Issue(1)
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	r, _, _ := setupAuthRouter(t)

	claims := services.TokenClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAuth_UserDeleted(t *testing.T) {
	r, tokens, _ := setupAuthRouter(t)

	// A well-formed token for a user that was never created.
	token, err := tokens.Issue(42)
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "user not found")
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	r, tokens, db := setupAuthRouter(t)

	user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user.ID)
	require.NoError(t, err)

	w := probe(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"username":"alice"`)
}
