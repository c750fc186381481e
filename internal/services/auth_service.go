package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskpulse/taskpulse-api/internal/constants"
	"github.com/taskpulse/taskpulse-api/internal/models"
	"github.com/taskpulse/taskpulse-api/internal/repository"
	"github.com/taskpulse/taskpulse-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrMissingFields        = errors.New("all fields are required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrUploadFailed         = errors.New("failed to store picture")
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	tokens   *TokenService
	objects  storage.ObjectStorage
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, tokens *TokenService, objects storage.ObjectStorage) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		tokens:   tokens,
		objects:  objects,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	// PictureDataURI is an optional base64 data URI for the profile picture.
	PictureDataURI string
}

// Register creates a new user and issues a session token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, "", ErrMissingFields
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	taken, err := s.userRepo.ExistsByEmailOrUsername(email, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if input.PictureDataURI != "" {
		obj, err := s.objects.Upload(ctx, input.PictureDataURI, constants.ProfilePictureFolder)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		user.ProfilePicture = models.ProfilePicture{PublicID: obj.PublicID, URL: obj.URL}
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// UpdateProfileInput holds the optional profile fields of a partial update.
type UpdateProfileInput struct {
	Username       *string
	Bio            *string
	Location       *string
	Occupation     *string
	Education      *string
	Website        *string
	Languages      []string
	SocialLinks    map[string]string
	PictureDataURI string
}

// UpdateProfile applies a partial profile update. A replacement picture
// destroys the previous stored object before uploading the new one.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.Occupation != nil {
		user.Occupation = *input.Occupation
	}
	if input.Education != nil {
		user.Education = *input.Education
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.Languages != nil {
		user.Languages = input.Languages
	}
	if input.SocialLinks != nil {
		user.SocialLinks = input.SocialLinks
	}

	if input.PictureDataURI != "" {
		if user.ProfilePicture.PublicID != "" {
			if err := s.objects.Destroy(ctx, user.ProfilePicture.PublicID); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
			}
		}
		obj, err := s.objects.Upload(ctx, input.PictureDataURI, constants.ProfilePictureFolder)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		user.ProfilePicture = models.ProfilePicture{PublicID: obj.PublicID, URL: obj.URL}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// QuickStats holds the owner-scoped counts behind GET /auth/stats.
type QuickStats struct {
	TotalTasks      int64 `json:"totalTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
}

// Stats computes the minimal task counts for a user.
func (s *AuthService) Stats(userID uint64) (QuickStats, error) {
	total, err := s.taskRepo.CountByOwner(userID, nil)
	if err != nil {
		return QuickStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}

	completed := models.TaskStatusCompleted
	completedCount, err := s.taskRepo.CountByOwner(userID, &completed)
	if err != nil {
		return QuickStats{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	inProgress := models.TaskStatusInProgress
	inProgressCount, err := s.taskRepo.CountByOwner(userID, &inProgress)
	if err != nil {
		return QuickStats{}, fmt.Errorf("failed to count in-progress tasks: %w", err)
	}

	return QuickStats{
		TotalTasks:      total,
		CompletedTasks:  completedCount,
		InProgressTasks: inProgressCount,
	}, nil
}
