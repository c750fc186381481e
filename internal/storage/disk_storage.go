package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// DiskStorage keeps objects on the local filesystem. Meant for development
// and tests; the server exposes the directory under /uploads.
type DiskStorage struct {
	dir     string
	baseURL string
	newID   func() string
}

// NewDiskStorage creates a DiskStorage rooted at dir. Stored objects are
// addressable as baseURL/uploads/<public_id>.
func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	newID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize id generator: %w", err)
	}
	return &DiskStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		newID:   newID,
	}, nil
}

// Upload stores the object described by a data URI under the given folder.
func (s *DiskStorage) Upload(ctx context.Context, dataURI, folder string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	payload, ext, err := decodeDataURI(dataURI)
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	name := s.newID() + ext
	if err := os.MkdirAll(filepath.Join(s.dir, folder), 0o755); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, folder, name), payload, 0o644); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	publicID := folder + "/" + name
	return Object{
		PublicID: publicID,
		URL:      s.baseURL + "/uploads/" + publicID,
	}, nil
}

// Destroy removes a stored object by its public ID.
func (s *DiskStorage) Destroy(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDestroyFailed, err)
	}

	// Resolve inside the storage root; reject traversal attempts.
	path := filepath.Join(s.dir, filepath.FromSlash(publicID))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: invalid public id", ErrDestroyFailed)
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrDestroyFailed, err)
	}
	return nil
}

// decodeDataURI splits a data:<mime>;base64,<payload> URI into raw bytes and a
// file extension derived from the mime type.
func decodeDataURI(dataURI string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}
	meta, encoded, ok := strings.Cut(dataURI[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URI encoding")
	}

	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}

	mime := strings.TrimSuffix(meta, ";base64")
	ext := ""
	switch mime {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	case "application/pdf":
		ext = ".pdf"
	}

	return payload, ext, nil
}
