package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskpulse/taskpulse-api/internal/constants"
	apierrors "github.com/taskpulse/taskpulse-api/internal/errors"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"gorm.io/gorm"
)

// RequireAuth verifies the bearer token and resolves the caller's identity.
// Outcomes are exactly one of: identity attached, missing token, invalid
// token, expired token, or user no longer present.
func RequireAuth(tokens *services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeMissingToken, "No token, authorization denied")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Token has expired")
			} else {
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidToken, "Token is not valid")
			}
			c.Abort()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "Token is valid but user not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the resolved user record from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
