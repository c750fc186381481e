package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfilePicture references an externally stored image object.
type ProfilePicture struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

type User struct {
	ID             uint64            `gorm:"primarykey" json:"id"`
	Username       string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email          string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string            `gorm:"type:varchar(255);not null" json:"-"`
	Bio            string            `gorm:"type:text" json:"bio"`
	Location       string            `gorm:"type:varchar(255)" json:"location"`
	Occupation     string            `gorm:"type:varchar(255)" json:"occupation"`
	Education      string            `gorm:"type:varchar(255)" json:"education"`
	Website        string            `gorm:"type:varchar(255)" json:"website"`
	Languages      []string          `gorm:"serializer:json" json:"languages"`
	ProfilePicture ProfilePicture    `gorm:"embedded;embeddedPrefix:picture_" json:"profile_picture"`
	SocialLinks    map[string]string `gorm:"serializer:json" json:"social_links"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID" json:"-"`
}
