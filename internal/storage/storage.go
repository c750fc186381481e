package storage

import (
	"context"
	"errors"
)

// ErrUploadFailed is returned when the storage collaborator rejects an upload.
var ErrUploadFailed = errors.New("object storage upload failed")

// ErrDestroyFailed is returned when deleting a stored object fails.
var ErrDestroyFailed = errors.New("object storage destroy failed")

// Object identifies a stored binary object.
type Object struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// ObjectStorage stores opaque binary objects submitted as base64 data URIs.
// Attachments and profile pictures are relayed here; the store is an external
// collaborator and its durability is its own concern.
type ObjectStorage interface {
	// Upload stores the object described by a data URI under the given folder.
	Upload(ctx context.Context, dataURI, folder string) (Object, error)

	// Destroy removes a stored object by its public ID.
	Destroy(ctx context.Context, publicID string) error
}
