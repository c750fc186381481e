package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskpulse/taskpulse-api/internal/constants"
	"github.com/taskpulse/taskpulse-api/internal/dto"
	apierrors "github.com/taskpulse/taskpulse-api/internal/errors"
	"github.com/taskpulse/taskpulse-api/internal/middleware"
	"github.com/taskpulse/taskpulse-api/internal/services"
	"github.com/taskpulse/taskpulse-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user from a multipart form with an optional
// profile picture.
func (h *AuthHandler) Register(c *gin.Context) {
	input := services.RegisterInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if header, err := c.FormFile("profilePicture"); err == nil {
		dataURI, err := utils.FileToDataURI(header)
		if err != nil {
			apierrors.BadRequest(c, "Invalid profile picture")
			return
		}
		input.PictureDataURI = dataURI
	}

	user, token, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// Login authenticates a user and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// UpdateProfile applies a partial profile update from a multipart form.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var input services.UpdateProfileInput
	if value, ok := c.GetPostForm("username"); ok {
		input.Username = &value
	}
	if value, ok := c.GetPostForm("bio"); ok {
		input.Bio = &value
	}
	if value, ok := c.GetPostForm("location"); ok {
		input.Location = &value
	}
	if value, ok := c.GetPostForm("occupation"); ok {
		input.Occupation = &value
	}
	if value, ok := c.GetPostForm("education"); ok {
		input.Education = &value
	}
	if value, ok := c.GetPostForm("website"); ok {
		input.Website = &value
	}
	if values, ok := c.GetPostFormArray("languages"); ok {
		input.Languages = values
	}
	if value, ok := c.GetPostForm("socialLinks"); ok {
		links := map[string]string{}
		if err := json.Unmarshal([]byte(value), &links); err != nil {
			apierrors.BadRequest(c, "Invalid socialLinks payload")
			return
		}
		input.SocialLinks = links
	}

	if header, err := c.FormFile("profilePicture"); err == nil {
		dataURI, err := utils.FileToDataURI(header)
		if err != nil {
			apierrors.BadRequest(c, "Invalid profile picture")
			return
		}
		input.PictureDataURI = dataURI
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Stats returns the minimal owner-scoped task counts.
func (h *AuthHandler) Stats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.authService.Stats(userID)
	if err != nil {
		apierrors.InternalError(c, "Error fetching stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		apierrors.BadRequest(c, "All fields are required")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUserAlreadyExists):
		apierrors.BadRequest(c, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrUploadFailed):
		apierrors.Upstream(c, "Error storing picture")
	default:
		apierrors.InternalError(c, "")
	}
}
