package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPStorage relays objects to a Cloudinary-style upload service. The service
// accepts a base64 data URI and answers with {public_id, url}.
type HTTPStorage struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPStorage creates an HTTPStorage targeting the given upload endpoint.
func NewHTTPStorage(baseURL, apiKey string) *HTTPStorage {
	return &HTTPStorage{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadRequest struct {
	File   string `json:"file"`
	Folder string `json:"folder"`
}

// Upload stores the object described by a data URI under the given folder.
func (s *HTTPStorage) Upload(ctx context.Context, dataURI, folder string) (Object, error) {
	body, err := json.Marshal(uploadRequest{File: dataURI, Folder: folder})
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", bytes.NewReader(body))
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Object{}, fmt.Errorf("%w: unexpected status %d", ErrUploadFailed, resp.StatusCode)
	}

	var obj Object
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return Object{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if obj.PublicID == "" || obj.URL == "" {
		return Object{}, fmt.Errorf("%w: incomplete response", ErrUploadFailed)
	}

	return obj, nil
}

// Destroy removes a stored object by its public ID.
func (s *HTTPStorage) Destroy(ctx context.Context, publicID string) error {
	endpoint := s.baseURL + "/objects/" + url.PathEscape(publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestroyFailed, err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestroyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status %d", ErrDestroyFailed, resp.StatusCode)
	}

	return nil
}
