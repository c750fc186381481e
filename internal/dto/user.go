package dto

import (
	"github.com/taskpulse/taskpulse-api/internal/models"
)

// UserDTO represents a user in API responses. The password hash is never
// part of this shape.
type UserDTO struct {
	ID             uint64                `json:"id"`
	Username       string                `json:"username"`
	Email          string                `json:"email"`
	Bio            string                `json:"bio,omitempty"`
	Location       string                `json:"location,omitempty"`
	Occupation     string                `json:"occupation,omitempty"`
	Education      string                `json:"education,omitempty"`
	Website        string                `json:"website,omitempty"`
	Languages      []string              `json:"languages,omitempty"`
	ProfilePicture models.ProfilePicture `json:"profile_picture"`
	SocialLinks    map[string]string     `json:"social_links,omitempty"`
}

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            user.Bio,
		Location:       user.Location,
		Occupation:     user.Occupation,
		Education:      user.Education,
		Website:        user.Website,
		Languages:      user.Languages,
		ProfilePicture: user.ProfilePicture,
		SocialLinks:    user.SocialLinks,
	}
}
