// Package client is a Go client for the TaskPulse API: an HTTP round-trip
// layer, an in-memory task list view-model, and a per-task time tracker.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/taskpulse/taskpulse-api/internal/dto"
)

// RequestError represents an HTTP error response from the API, as opposed to
// a network-level failure where no response arrived.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client performs authenticated round trips against the API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var result dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &result); err != nil {
		return nil, err
	}

	c.token = result.Token
	return &result, nil
}

// ListTasks fetches the caller's full task list.
func (c *Client) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	var tasks []dto.TaskDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskDraft holds the fields of a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    string
	Status      string
	Progress    *int
	DueDate     string
}

// CreateTask creates a task and returns the server's representation.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*dto.TaskDTO, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
	}
	if draft.Priority != "" {
		fields["priority"] = draft.Priority
	}
	if draft.Status != "" {
		fields["status"] = draft.Status
	}
	if draft.Progress != nil {
		fields["progress"] = strconv.Itoa(*draft.Progress)
	}
	if draft.DueDate != "" {
		fields["dueDate"] = draft.DueDate
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tasks", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var task dto.TaskDTO
	if err := c.do(req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Priority     *string  `json:"priority,omitempty"`
	Status       *string  `json:"status,omitempty"`
	Progress     *int     `json:"progress,omitempty"`
	DueDate      *string  `json:"dueDate,omitempty"`
	TimeSpent    *int64   `json:"timeSpent,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Dependencies []uint64 `json:"dependencies,omitempty"`
}

// UpdateTask applies a partial update and returns the server's representation.
func (c *Client) UpdateTask(ctx context.Context, id uint64, patch TaskPatch) (*dto.TaskDTO, error) {
	var task dto.TaskDTO
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.doJSON(ctx, http.MethodPatch, path, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	path := fmt.Sprintf("/api/tasks/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Network-level failure: no response was received at all.
		return fmt.Errorf("cannot connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &RequestError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
