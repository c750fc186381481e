package constants

import "time"

const (
	// ContextKeyUserID is the gin context key holding the authenticated user's ID.
	ContextKeyUserID = "user_id"
	// ContextKeyUser is the gin context key holding the resolved user record.
	ContextKeyUser = "user"
)

const (
	MinPasswordLength = 6

	// MaxAttachmentsPerRequest bounds the attachment list on task create/update.
	MaxAttachmentsPerRequest = 5

	// TokenTTL is the lifetime of issued session tokens.
	TokenTTL = 24 * time.Hour
)

const (
	ProfilePictureFolder = "profile_pictures"
	TaskAttachmentFolder = "task_attachments"
)
